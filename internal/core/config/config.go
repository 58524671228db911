package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	// 为空则只写 stdout
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttlsec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// ReconcileMode 付款入账方式
type ReconcileMode string

const (
	ReconcileAtomic     ReconcileMode = "atomic"
	ReconcileBestEffort ReconcileMode = "best_effort"
)

type Payment struct {
	GatewayKey        string        `mapstructure:"gatewaykey"`
	GatewayURL        string        `mapstructure:"gatewayurl"` // 测试/代理时覆盖 Stripe API 地址
	Currency          string        `mapstructure:"currency"`
	GatewayTimeoutSec int           `mapstructure:"gatewaytimeoutsec"`
	ReconcileMode     ReconcileMode `mapstructure:"reconcilemode"`
	SweepIntervalSec  int           `mapstructure:"sweepintervalsec"`
	SweepBatch        int           `mapstructure:"sweepbatch"`
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis   `mapstructure:"redis"`
	Payment Payment `mapstructure:"payment"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "market-thrifty")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxagedays", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "market-thrifty")
	v.SetDefault("jwt.accesstokenttlmin", 7*24*60) // 7 天

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxopenconns", 50)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttlsec", 300)

	v.SetDefault("payment.gatewaykey", "")
	v.SetDefault("payment.gatewayurl", "")
	v.SetDefault("payment.currency", "usd")
	v.SetDefault("payment.gatewaytimeoutsec", 10)
	v.SetDefault("payment.reconcilemode", string(ReconcileAtomic))
	v.SetDefault("payment.sweepintervalsec", 60)
	v.SetDefault("payment.sweepbatch", 100)
}

// 兼容旧部署的环境变量名
var legacyEnv = map[string]string{
	"db.username":        "DB_USER",
	"db.password":        "DB_PASS",
	"jwt.secret":         "ACCESS_TOKEN",
	"payment.gatewaykey": "STRIPE_SECRET",
	"app.http.port":      "PORT",
}

// Load 配置文件可选：默认路径不存在时只用默认值 + 环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = defaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		_ = v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret (or ACCESS_TOKEN) is required")
	}
	switch c.Payment.ReconcileMode {
	case ReconcileAtomic, ReconcileBestEffort:
	default:
		return errors.New("config: payment.reconcilemode must be atomic or best_effort")
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		return errors.New("config: jwt.accesstokenttlmin must be positive")
	}
	return nil
}
