package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	resp "market-thrifty/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup, mw ...gin.HandlerFunc) EZ {
	if len(mw) > 0 {
		g = g.Group("", mw...)
	}
	return EZ{g: g}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindURI   Binder = "uri"   // 从路径参数绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string
	Binder  Binder
	Use     []gin.HandlerFunc // 只作用于本路由的中间件（鉴权/角色）
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 绑定 → 执行 → 统一错误映射
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		default: // BindNone
		}
		var (
			out O
			err error
		)
		if bindErr != nil {
			err = resp.BadRequest(bindErr)
		} else {
			out, err = a.Handler(c, &in)
		}
		if err != nil {
			code, msg := resp.FromError(err)
			// 部分成功：data 仍然返回已落库的结果
			if code == resp.CodePartial {
				c.JSON(resp.Status(code), resp.New(code, msg, out))
				return
			}
			c.JSON(resp.Status(code), resp.Error(code, msg))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Use...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}
