package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"market-thrifty/internal/domain"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"` // 签发时的角色提示，鉴权以用户库为准
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	now    func() time.Time
}

func (j *JWTer) clock() time.Time {
	if j.now != nil {
		return j.now()
	}
	return time.Now()
}

func (j *JWTer) Issue(email, role string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errors.New("empty email")
	}
	now := j.clock()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	},
		jwt.WithIssuer(j.Issuer),
		jwt.WithLeeway(60*time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.clock),
	)

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.Email != "" {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// Authorize 校验 Authorization 头：
// 缺失 → domain.ErrUnauthenticated；存在但无效/过期 → domain.ErrForbidden
func (j *JWTer) Authorize(header string) (*Claims, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, domain.ErrUnauthenticated
	}
	// "Bearer <token>"，取空格后的部分
	_, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil, fmt.Errorf("%w: malformed authorization header", domain.ErrForbidden)
	}
	c, err := j.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrForbidden, err)
	}
	return c, nil
}
