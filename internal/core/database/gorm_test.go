package database

import (
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		user, pass string
		wantUser   string
		wantPass   string
		wantAddr   string
		wantDB     string
		wantTLS    string
		contains   string
	}{
		{
			name:     "Native",
			in:       "root:pw@tcp(127.0.0.1:3306)/market",
			wantUser: "root", wantPass: "pw", wantAddr: "127.0.0.1:3306", wantDB: "market",
		},
		{
			name:     "NativeWithOverrides",
			in:       "root:pw@tcp(db:3306)/market",
			user:     "app", pass: "secret",
			wantUser: "app", wantPass: "secret", wantAddr: "db:3306", wantDB: "market",
		},
		{
			name:     "URL",
			in:       "mysql://root:pw@db:3306/market",
			wantUser: "root", wantPass: "pw", wantAddr: "db:3306", wantDB: "market",
			contains: "charset=utf8mb4",
		},
		{
			name:     "JDBC",
			in:       "jdbc:mysql://db:3306/market?useSSL=skip-verify&serverTimezone=UTC&characterEncoding=utf8",
			user:     "app", pass: "secret",
			wantUser: "app", wantPass: "secret", wantAddr: "db:3306", wantDB: "market",
			wantTLS:  "skip-verify", contains: "charset=utf8",
		},
		{
			name:     "QueryCredentials",
			in:       "mysql://db:3306/market?user=u&password=p",
			wantUser: "u", wantPass: "p", wantAddr: "db:3306", wantDB: "market",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := mysqlDSN(tt.in, tt.user, tt.pass)
			require.NoError(t, err)
			cfg, err := mysqldrv.ParseDSN(dsn)
			require.NoError(t, err, dsn)
			assert.Equal(t, tt.wantUser, cfg.User)
			assert.Equal(t, tt.wantPass, cfg.Passwd)
			assert.Equal(t, tt.wantAddr, cfg.Addr)
			assert.Equal(t, tt.wantDB, cfg.DBName)
			assert.True(t, cfg.ParseTime)
			assert.True(t, cfg.ClientFoundRows, dsn)
			assert.Equal(t, tt.wantTLS, cfg.TLSConfig)
			if tt.contains != "" {
				assert.Contains(t, dsn, tt.contains)
			}
		})
	}

	_, err := mysqlDSN("  ", "", "")
	assert.Error(t, err)
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLite(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file:gormtest?mode=memory&cache=shared", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
