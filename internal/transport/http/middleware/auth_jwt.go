package middleware

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"

	"market-thrifty/internal/core/auth"
	"market-thrifty/internal/domain"
	resp "market-thrifty/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyEmail  = "email"
	KeyRole   = "role"
)

// AuthJWT 缺少 Authorization → 401；令牌无效/过期 → 403
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := j.Authorize(c.GetHeader("Authorization"))
		if err != nil {
			resp.AbortErr(c, err)
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyEmail, claims.Email)
		c.Next()
	}
}

// RoleLookup 角色以用户库为准，不信任令牌里的提示
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (domain.Role, error)
}

// Guard 把鉴权和角色判定打包给各 handler
type Guard struct {
	JWT   *auth.JWTer
	Roles RoleLookup
}

func (g Guard) Auth() gin.HandlerFunc { return AuthJWT(g.JWT) }

// Require 鉴权 + 角色必须在 allowed 中
func (g Guard) Require(allowed ...domain.Role) []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth(), g.role(allowed)}
}

// Identify 鉴权 + 尽量加载角色（未注册用户也放行，只是没有角色）
func (g Guard) Identify() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth(), g.role(nil)}
}

func (g Guard) role(allowed []domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := g.Roles.RoleOf(c.Request.Context(), Email(c))
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if len(allowed) > 0 {
				resp.AbortErr(c, fmt.Errorf("%w: unknown user", domain.ErrForbidden))
				return
			}
		case err != nil:
			resp.AbortErr(c, err)
			return
		default:
			if len(allowed) > 0 && !slices.Contains(allowed, r) {
				resp.AbortErr(c, fmt.Errorf("%w: role %s not allowed", domain.ErrForbidden, r))
				return
			}
			c.Set(KeyRole, r)
		}
		c.Next()
	}
}

// Email 令牌中的邮箱，未鉴权时为空
func Email(c *gin.Context) string { return c.GetString(KeyEmail) }

// Role 由 Guard 加载的角色
func Role(c *gin.Context) (domain.Role, bool) {
	v, ok := c.Get(KeyRole)
	if !ok {
		return 0, false
	}
	r, ok := v.(domain.Role)
	return r, ok
}

func IsAdmin(c *gin.Context) bool {
	r, ok := Role(c)
	return ok && r == domain.RoleAdmin
}
