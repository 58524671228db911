// Package app 两个进程共用的依赖装配：配置 → 日志 → DB → 缓存 → 服务 → 路由注册
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"market-thrifty/internal/core/auth"
	"market-thrifty/internal/core/cache"
	"market-thrifty/internal/core/config"
	"market-thrifty/internal/core/database"
	"market-thrifty/internal/core/logger"
	"market-thrifty/internal/gateway"
	"market-thrifty/internal/repo"
	"market-thrifty/internal/service"
	"market-thrifty/internal/transport/http/handler"
	mdw "market-thrifty/internal/transport/http/middleware"
	"market-thrifty/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Store *repo.Store
	Cache *cache.Cache
	JWT   *auth.JWTer
	Guard mdw.Guard

	Users      *service.UserService
	Categories *service.CategoryService
	Listings   *service.ListingService
	Bookings   *service.BookingService
	Payments   *service.PaymentService
	Sweeper    *service.Sweeper

	closers []func()
}

// New 任一步失败都会释放已经打开的资源
func New(cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	l, syncLog := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON,
		App:        cfg.App.Name,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	a.Log = l
	a.closers = append(a.closers, syncLog, logger.RedirectStdLog(l, zapcore.InfoLevel))

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() {
		if e := database.Close(db); e != nil {
			l.Warn("db close", zap.Error(e))
		}
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	// redis 可选：未配置地址时缓存直接回源
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			l.Warn("redis unreachable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			a.closers = append(a.closers, func() { _ = c.Close() })
		}
	}
	cacheTTL := time.Duration(cfg.Redis.TTLSec) * time.Second

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	}

	if cfg.Payment.GatewayKey == "" {
		l.Warn("payment gateway key is empty, intent creation will fail")
	}
	gw := gateway.NewStripe(gateway.Options{
		SecretKey: cfg.Payment.GatewayKey,
		URL:       cfg.Payment.GatewayURL,
		Timeout:   time.Duration(cfg.Payment.GatewayTimeoutSec) * time.Second,
	}, l.Named("gateway"))

	st := repo.NewStore(db)
	a.Store = st
	a.Users = service.NewUserService(st.Users, a.JWT, a.Cache, cacheTTL, l.Named("users"))
	a.Categories = service.NewCategoryService(st.Categories, a.Cache, cacheTTL)
	a.Listings = service.NewListingService(st.Listings, l.Named("listings"))
	a.Bookings = service.NewBookingService(st.Bookings, st.Listings, l.Named("bookings"))
	a.Payments = service.NewPaymentService(st, gw, service.PaymentOptions{
		Currency: cfg.Payment.Currency,
		Atomic:   cfg.Payment.ReconcileMode == config.ReconcileAtomic,
	}, l.Named("payments"))
	a.Sweeper = service.NewSweeper(st, cfg.Payment.SweepBatch, l.Named("sweeper"))
	a.Guard = mdw.Guard{JWT: a.JWT, Roles: a.Users}
	ok = true
	return a, nil
}

// Registry 用户端与管理端的全部模块
func (a *App) Registry() *router.Registry {
	return router.NewRegistry(
		handler.NewUserHandler(a.Users, a.Guard),
		handler.NewCategoryHandler(a.Categories),
		handler.NewListingHandler(a.Listings, a.Guard),
		handler.NewBookingHandler(a.Bookings, a.Guard),
		handler.NewPaymentHandler(a.Payments, a.Sweeper),
	)
}

// Pings 健康检查：DB 必查，redis 配了才查
func (a *App) Pings() []router.Pinger {
	pings := []router.Pinger{func(ctx context.Context) error {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
	if a.Cache != nil {
		pings = append(pings, a.Cache.Ping)
	}
	return pings
}

// Close 逆序释放
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
