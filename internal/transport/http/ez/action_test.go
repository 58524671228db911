package ez

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"market-thrifty/internal/domain"
)

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func newEngine() (*gin.Engine, EZ) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r, New(&r.RouterGroup)
}

func TestRegisterAction_BindAndRespond(t *testing.T) {
	r, e := newEngine()
	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			return gin.H{"name": in.Name}, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"ann"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{"name":"ann"}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	r, e := newEngine()
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/dup",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return nil, domain.ErrDuplicatePayment
		},
	})
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/partial",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return gin.H{"id": "p1"}, errors.Join(domain.ErrPartialReconciliation, errors.New("booking"))
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dup", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":409`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":207`)
	assert.Contains(t, w.Body.String(), `"id":"p1"`)
}

func TestRegisterAction_RouteMiddlewareRunsFirst(t *testing.T) {
	r, e := newEngine()
	called := false
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/guarded",
		Binder: BindNone,
		Use: []gin.HandlerFunc{func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		}},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			called = true
			return nil, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}
