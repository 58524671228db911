package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
)

// mysqlDSN 接受原生 DSN（user:pass@tcp(host)/db）或 mysql:// 、jdbc:mysql:// URL，
// 统一输出 go-sql-driver 的 DSN；user/pass 非空时覆盖。
// 始终打开 clientFoundRows：UPDATE 的 RowsAffected 按匹配行计，与 postgres/sqlite 一致
func mysqlDSN(input, user, pass string) (string, error) {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if in == "" {
		return "", errors.New("mysql dsn is empty")
	}
	var (
		cfg *mysqldrv.Config
		err error
	)
	if strings.HasPrefix(in, "mysql://") {
		cfg, err = mysqlConfigFromURL(in)
	} else {
		cfg, err = mysqldrv.ParseDSN(in)
	}
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// mysqlConfigFromURL 兼容 Navicat/JDBC 风格的参数
func mysqlConfigFromURL(raw string) (*mysqldrv.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	cfg := mysqldrv.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	q := u.Query()
	if v := q.Get("user"); v != "" {
		cfg.User = v
	}
	if v := q.Get("password"); v != "" {
		cfg.Passwd = v
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("serverTimezone: %w", err)
		}
		cfg.Loc = loc
	}
	switch strings.ToLower(q.Get("useSSL")) {
	case "true", "1":
		cfg.TLSConfig = "true"
	case "skip-verify":
		cfg.TLSConfig = "skip-verify"
	case "preferred":
		cfg.TLSConfig = "preferred"
	}

	charset := q.Get("charset")
	if charset == "" {
		charset = q.Get("characterEncoding")
	}
	if charset == "" {
		charset = "utf8mb4"
	}
	cfg.Params = map[string]string{"charset": charset}
	return cfg, nil
}
