package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"market-thrifty/internal/app"
	"market-thrifty/internal/core/config"
	"market-thrifty/internal/core/logger"
	"market-thrifty/internal/core/server"
	"market-thrifty/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap:", err)
		os.Exit(1)
	}
	defer a.Close()
	log := a.Log
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 离线补偿：付款已入库但 booking/listing 未标记的
	every := time.Duration(cfg.Payment.SweepIntervalSec) * time.Second
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		a.Sweeper.Run(ctx, every)
	}()

	// 路由（后台端）
	r := router.NewAdminEngine(log, a.Registry(), a.Guard, a.Pings()...)

	errLog, _ := logger.ToStdLogger(log, zapcore.ErrorLevel)
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 30*time.Second, 60*time.Second, errLog)

	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("admin_v1", "http://"+addr+"/admin/v1"),
		zap.Duration("sweep_every", every),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("admin api start FAILED", zap.Error(err))
		stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("admin api shutdown", zap.Error(err))
	}
	<-sweepDone
	log.Info("admin api stopped gracefully")
}
