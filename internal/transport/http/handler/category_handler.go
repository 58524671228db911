package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/service"
	"market-thrifty/internal/transport/http/ez"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(s *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: s}
}

func (h *CategoryHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/category",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return h.categories.List(c.Request.Context())
		},
	})
}

type categoryIn struct {
	CategoryName string `json:"categoryName" binding:"required,max=64"`
	Image        string `json:"image"`
}

func (h *CategoryHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[categoryIn, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *categoryIn) (*domain.Category, error) {
			return h.categories.Create(c.Request.Context(), in.CategoryName, in.Image)
		},
	})
}
