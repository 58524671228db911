// Package gateway 对接外部支付网关，只负责创建支付意向（payment intent）。
// 卡号等敏感数据不经过本服务，客户端拿 client secret 自行完成支付。
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"market-thrifty/internal/domain"
)

type Options struct {
	SecretKey string
	URL       string // 为空用 Stripe 官方地址
	Timeout   time.Duration
}

type Stripe struct {
	api     *client.API
	timeout time.Duration
	log     *zap.Logger
}

func NewStripe(o Options, l *zap.Logger) *Stripe {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: o.Timeout + time.Second},
		MaxNetworkRetries: stripe.Int64(0), // 不重试
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if o.URL != "" {
		cfg.URL = stripe.String(o.URL)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	api := &client.API{}
	api.Init(o.SecretKey, backends)
	return &Stripe{api: api, timeout: o.Timeout, log: l}
}

// CreateIntent amount 为最小货币单位（美分）
func (s *Stripe) CreateIntent(ctx context.Context, amount int64, currency string) (*domain.Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	currency = strings.ToLower(strings.TrimSpace(currency))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.log.Warn("payment intent timeout", zap.Int64("amount", amount), zap.Duration("timeout", s.timeout))
			return nil, fmt.Errorf("%w: %v", domain.ErrGatewayTimeout, err)
		}
		s.log.Error("payment intent failed", zap.Int64("amount", amount), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	return &domain.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
