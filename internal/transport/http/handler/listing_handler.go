package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/service"
	"market-thrifty/internal/transport/http/ez"
	mdw "market-thrifty/internal/transport/http/middleware"
)

type ListingHandler struct {
	listings *service.ListingService
	guard    mdw.Guard
}

func NewListingHandler(s *service.ListingService, guard mdw.Guard) *ListingHandler {
	return &ListingHandler{listings: s, guard: guard}
}

type categoryURI struct {
	Category string `uri:"category" binding:"required"`
}

type listingIn struct {
	CategoryName  string   `json:"categoryName" binding:"required"`
	SellerName    string   `json:"sellerName"`
	ProductName   string   `json:"productName" binding:"required"`
	Image         string   `json:"image"`
	Location      string   `json:"location"`
	Phone         string   `json:"phone"`
	Condition     string   `json:"condition"`
	YearsOfUse    int      `json:"yearsOfUse" binding:"min=0"`
	OriginalPrice float64  `json:"originalPrice" binding:"min=0"`
	Price         *float64 `json:"price" binding:"required"`
}

func (h *ListingHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[categoryURI, []domain.Listing]{
		Method: http.MethodGet,
		Path:   "/allphones/:category",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *categoryURI) ([]domain.Listing, error) {
			return h.listings.ListAvailable(c.Request.Context(), in.Category)
		},
	})

	ez.RegisterAction(e, ez.Action[listingIn, *domain.Listing]{
		Method: http.MethodPost,
		Path:   "/allphones",
		Binder: ez.BindJSON,
		Use:    h.guard.Require(domain.RoleSellerPending, domain.RoleSellerVerified),
		Handler: func(c *gin.Context, in *listingIn) (*domain.Listing, error) {
			return h.listings.Create(c.Request.Context(), mdw.Email(c), &domain.Listing{
				CategoryName:  in.CategoryName,
				SellerName:    in.SellerName,
				ProductName:   in.ProductName,
				Image:         in.Image,
				Location:      in.Location,
				Phone:         in.Phone,
				Condition:     in.Condition,
				YearsOfUse:    in.YearsOfUse,
				OriginalPrice: in.OriginalPrice,
				Price:         *in.Price,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[identityQ, []domain.Listing]{
		Method: http.MethodGet,
		Path:   "/seller-product",
		Binder: ez.BindQuery,
		Use:    []gin.HandlerFunc{h.guard.Auth()},
		Handler: func(c *gin.Context, in *identityQ) ([]domain.Listing, error) {
			return h.listings.ListBySeller(c.Request.Context(), mdw.Email(c), in.Email)
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, affected]{
		Method: http.MethodDelete,
		Path:   "/seller-product/:id",
		Binder: ez.BindURI,
		Use:    []gin.HandlerFunc{h.guard.Auth()},
		Handler: func(c *gin.Context, in *idURI) (affected, error) {
			return rows(h.listings.DeleteOwn(c.Request.Context(), in.ID, mdw.Email(c)))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Listing]{
		Method: http.MethodGet,
		Path:   "/advertised-product",
		Binder: ez.BindNone,
		Use:    []gin.HandlerFunc{h.guard.Auth()},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Listing, error) {
			return h.listings.ListAdvertised(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, affected]{
		Method: http.MethodPut,
		Path:   "/advertised/:id",
		Binder: ez.BindURI,
		Use:    h.guard.Identify(),
		Handler: func(c *gin.Context, in *idURI) (affected, error) {
			return rows(h.listings.Advertise(c.Request.Context(), in.ID, mdw.Email(c), mdw.IsAdmin(c)))
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, affected]{
		Method: http.MethodPut,
		Path:   "/report/:id",
		Binder: ez.BindURI,
		Use:    []gin.HandlerFunc{h.guard.Auth()},
		Handler: func(c *gin.Context, in *idURI) (affected, error) {
			return rows(h.listings.Report(c.Request.Context(), in.ID, mdw.Email(c)))
		},
	})
}

func (h *ListingHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Listing]{
		Method: http.MethodGet,
		Path:   "/reported-products",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Listing, error) {
			return h.listings.ListReported(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, affected]{
		Method: http.MethodDelete,
		Path:   "/reported-products/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *idURI) (affected, error) {
			return rows(h.listings.DeleteReported(c.Request.Context(), in.ID))
		},
	})
}
