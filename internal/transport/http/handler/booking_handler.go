package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/service"
	"market-thrifty/internal/transport/http/ez"
	mdw "market-thrifty/internal/transport/http/middleware"
)

type BookingHandler struct {
	bookings *service.BookingService
	guard    mdw.Guard
}

func NewBookingHandler(s *service.BookingService, guard mdw.Guard) *BookingHandler {
	return &BookingHandler{bookings: s, guard: guard}
}

type bookingIn struct {
	ProductID   string `json:"productId" binding:"required"`
	ProductName string `json:"productName"`
	BuyerName   string `json:"buyerName"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
}

func (h *BookingHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[identityQ, []domain.Booking]{
		Method: http.MethodGet,
		Path:   "/booking",
		Binder: ez.BindQuery,
		Use:    []gin.HandlerFunc{h.guard.Auth()},
		Handler: func(c *gin.Context, in *identityQ) ([]domain.Booking, error) {
			return h.bookings.ListForIdentity(c.Request.Context(), mdw.Email(c), in.Email)
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, *domain.Booking]{
		Method: http.MethodGet,
		Path:   "/booking/:id",
		Binder: ez.BindURI,
		Use:    h.guard.Identify(),
		Handler: func(c *gin.Context, in *idURI) (*domain.Booking, error) {
			return h.bookings.Get(c.Request.Context(), in.ID, mdw.Email(c), mdw.IsAdmin(c))
		},
	})

	ez.RegisterAction(e, ez.Action[bookingIn, *domain.Booking]{
		Method: http.MethodPost,
		Path:   "/booking",
		Binder: ez.BindJSON,
		Use:    []gin.HandlerFunc{h.guard.Auth()},
		Handler: func(c *gin.Context, in *bookingIn) (*domain.Booking, error) {
			return h.bookings.Create(c.Request.Context(), mdw.Email(c), &domain.Booking{
				ProductID:   in.ProductID,
				ProductName: in.ProductName,
				BuyerName:   in.BuyerName,
				Phone:       in.Phone,
				Location:    in.Location,
			})
		},
	})
}
