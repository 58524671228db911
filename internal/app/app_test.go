package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-thrifty/internal/core/config"
	"market-thrifty/internal/transport/http/router"
)

func testConfig() *config.Config {
	return &config.Config{
		Log: config.Log{Level: "error"},
		JWT: config.JWT{Secret: "s", Issuer: "mt", AccessTokenTTLMin: 60},
		DB: config.DB{
			Driver:       "sqlite",
			DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			MaxOpenConns: 1,
			AutoMigrate:  true,
			LogLevel:     "silent",
		},
		Payment: config.Payment{Currency: "usd", ReconcileMode: config.ReconcileAtomic, SweepBatch: 10},
	}
}

func TestNew_WiresEverything(t *testing.T) {
	a, err := New(testConfig())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Nil(t, a.Cache)
	for _, p := range a.Pings() {
		assert.NoError(t, p(context.Background()))
	}

	api := router.NewAPIEngine(a.Log, a.Registry(), a.Pings()...)
	w := httptest.NewRecorder()
	api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	n, err := a.Sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNew_BadDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Driver = "oracle"
	_, err := New(cfg)
	assert.Error(t, err)
}
