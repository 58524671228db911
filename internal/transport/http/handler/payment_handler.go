package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/service"
	"market-thrifty/internal/transport/http/ez"
)

type PaymentHandler struct {
	payments *service.PaymentService
	sweeper  *service.Sweeper
}

func NewPaymentHandler(p *service.PaymentService, sw *service.Sweeper) *PaymentHandler {
	return &PaymentHandler{payments: p, sweeper: sw}
}

// intentIn price 为非数字时 JSON 绑定直接失败
type intentIn struct {
	Price     *float64 `json:"price"`
	BookingID string   `json:"bookingId"`
}

type intentOut struct {
	ClientSecret string `json:"clientSecret"`
}

type paymentIn struct {
	BookingID     string  `json:"bookingId" binding:"required"`
	ProductID     string  `json:"productId" binding:"required"`
	TransactionID string  `json:"transactionId" binding:"required"`
	Price         float64 `json:"price" binding:"min=0"`
	Email         string  `json:"email"`
}

func (h *PaymentHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[intentIn, intentOut]{
		Method: http.MethodPost,
		Path:   "/create-payment-intent",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *intentIn) (intentOut, error) {
			it, err := h.payments.CreateIntent(c.Request.Context(), service.IntentRequest{
				Price: in.Price, BookingID: in.BookingID,
			})
			if err != nil {
				return intentOut{}, err
			}
			return intentOut{ClientSecret: it.ClientSecret}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[paymentIn, *domain.Payment]{
		Method: http.MethodPost,
		Path:   "/payments",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *paymentIn) (*domain.Payment, error) {
			return h.payments.RecordPayment(c.Request.Context(), service.PaymentRecord{
				BookingID:     in.BookingID,
				ProductID:     in.ProductID,
				TransactionID: in.TransactionID,
				Price:         in.Price,
				Email:         in.Email,
			})
		},
	})
}

type sweepOut struct {
	Repaired int `json:"repaired"`
}

func (h *PaymentHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[struct{}, sweepOut]{
		Method: http.MethodPost,
		Path:   "/payments/reconcile",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (sweepOut, error) {
			n, err := h.sweeper.Sweep(c.Request.Context())
			return sweepOut{Repaired: n}, err
		},
	})
}
