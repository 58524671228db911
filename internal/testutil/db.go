// Package testutil 测试共用的数据库、用户、令牌夹具
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"market-thrifty/internal/core/auth"
	"market-thrifty/internal/core/database"
	"market-thrifty/internal/repo"
)

const (
	JWTSecret = "test-secret"
	JWTIssuer = "market-thrifty-test"
)

// NewDB 每个测试一份独立的内存 sqlite，已迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openSQLite(t, fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=off", uuid.NewString()), 1)
}

// NewFileDB 文件 sqlite，多连接，用于并发写测试。
// 事务以 BEGIN IMMEDIATE 开始，并发写者在 busy_timeout 内排队而不是直接 SQLITE_BUSY
func NewFileDB(t *testing.T, maxOpen int) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "market.db")
	return openSQLite(t, "file:"+path+"?_txlock=immediate&_busy_timeout=5000&_foreign_keys=off", maxOpen)
}

func openSQLite(t *testing.T, dsn string, maxOpen int) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: maxOpen,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func NewStore(t *testing.T) *repo.Store {
	t.Helper()
	return repo.NewStore(NewDB(t))
}

func NewJWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(JWTSecret),
		Issuer: JWTIssuer,
		TTL:    7 * 24 * time.Hour,
	}
}

// Token 签发测试令牌，role 只是提示
func Token(t *testing.T, j *auth.JWTer, email, role string) string {
	t.Helper()
	tok, err := j.Issue(email, role)
	require.NoError(t, err)
	return tok
}
