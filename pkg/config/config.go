package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Log    LogConfig
	App    AppConfig
}

// ServerConfig TrustedProxies 為可信任的反向代理 IP/CIDR，空值時一律以連線位址辨識來源
type ServerConfig struct {
	Address        string
	CORSOrigin     string
	TrustedProxies []string
	RateLimit      RateLimitConfig
}

// RateLimitConfig 每個來源 IP 在 Window 內最多 Requests 次請求
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	SSLMode  string
	TimeZone string
}

type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	ExpiresIn        time.Duration
	RefreshExpiresIn time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// AppConfig 業務相關設定，TimeZone 用於計算「一天」的起訖與報表時間顯示
type AppConfig struct {
	TimeZone string
}

// Location 回傳設定的時區，無法解析時退回 UTC
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.corsorigin", "http://localhost:3001")
	v.SetDefault("server.trustedproxies", []string{})
	v.SetDefault("server.ratelimit.requests", 100)
	v.SetDefault("server.ratelimit.window", "15m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "fleet_tracker")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Jakarta")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.refreshsecret", "")
	v.SetDefault("jwt.expiresin", "15m")
	v.SetDefault("jwt.refreshexpiresin", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("app.timezone", "Asia/Jakarta")
}

// Load 讀取 config.yaml，環境變數（FLEET_ 前綴）可覆蓋任何設定
// 找不到設定檔時只使用預設值與環境變數
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./pkg/config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("FLEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("jwt.refreshsecret is required")
	}
	if c.JWT.Secret == c.JWT.RefreshSecret {
		return fmt.Errorf("jwt.secret and jwt.refreshsecret must differ")
	}
	if c.JWT.ExpiresIn <= 0 || c.JWT.RefreshExpiresIn <= 0 {
		return fmt.Errorf("jwt token lifetimes must be positive")
	}
	if c.Server.RateLimit.Requests <= 0 || c.Server.RateLimit.Window <= 0 {
		return fmt.Errorf("server.ratelimit requests and window must be positive")
	}
	return nil
}
