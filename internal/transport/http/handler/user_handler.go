package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/service"
	"market-thrifty/internal/transport/http/ez"
	mdw "market-thrifty/internal/transport/http/middleware"
)

// UserHandler 注册、签发令牌、角色查询；管理端的用户/卖家管理
type UserHandler struct {
	users *service.UserService
	guard mdw.Guard
}

func NewUserHandler(users *service.UserService, guard mdw.Guard) *UserHandler {
	return &UserHandler{users: users, guard: guard}
}

func (h *UserHandler) Priority() int { return 10 }

type tokenIn struct {
	Email string `json:"email" binding:"required,email"`
}

type tokenOut struct {
	Token string `json:"token"`
}

type registerIn struct {
	Name     string `json:"name" binding:"omitempty,max=64"`
	Email    string `json:"email" binding:"required,email"`
	PhotoURL string `json:"photoURL"`
	Option   string `json:"option"`
}

type emailQ struct {
	Email string `form:"email" binding:"required"`
}

type emailURI struct {
	Email string `uri:"email" binding:"required"`
}

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[tokenIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/jwt",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *tokenIn) (tokenOut, error) {
			tok, err := h.users.IssueToken(c.Request.Context(), in.Email)
			return tokenOut{Token: tok}, err
		},
	})

	ez.RegisterAction(e, ez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return h.users.Register(c.Request.Context(), service.RegisterInput{
				Name: in.Name, Email: in.Email, Photo: in.PhotoURL, Option: in.Option,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[emailQ, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/add-product",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *emailQ) (*domain.User, error) {
			return h.users.FindByEmail(c.Request.Context(), in.Email)
		},
	})

	ez.RegisterAction(e, ez.Action[emailURI, gin.H]{
		Method: http.MethodGet,
		Path:   "/users/:email",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *emailURI) (gin.H, error) {
			ok, err := h.users.IsAdmin(c.Request.Context(), in.Email)
			return gin.H{"isAdmin": ok}, err
		},
	})

	ez.RegisterAction(e, ez.Action[emailURI, gin.H]{
		Method: http.MethodGet,
		Path:   "/users/seller/:email",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *emailURI) (gin.H, error) {
			ok, err := h.users.IsSeller(c.Request.Context(), in.Email)
			return gin.H{"isSeller": ok}, err
		},
	})
}

type pageQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

type userPage struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

type idURI struct {
	ID string `uri:"id" binding:"required"`
}

func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[pageQ, userPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (userPage, error) {
			items, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit)
			return userPage{Total: total, Items: items}, err
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, affected]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *idURI) (affected, error) {
			return rows(h.users.Delete(c.Request.Context(), in.ID))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/sellers",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.users.ListSellers(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, affected]{
		Method: http.MethodPut,
		Path:   "/sellers/:id/verify",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *idURI) (affected, error) {
			return rows(h.users.VerifySeller(c.Request.Context(), in.ID))
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, affected]{
		Method: http.MethodDelete,
		Path:   "/sellers/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *idURI) (affected, error) {
			return rows(h.users.DeleteSeller(c.Request.Context(), in.ID))
		},
	})
}
