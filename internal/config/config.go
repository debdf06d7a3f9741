package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env"
	"github.com/spf13/pflag"
)

type Arguments struct {
	ListenAddr            string        `env:"SERVER_ADDRESS" envDefault:"localhost:8080"`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret             string        `env:"JWT_SECRET" envDefault:"secret"`
	SessionTTL            time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	DashboardUser         string        `env:"DASHBOARD_USER" envDefault:""`
	DashboardPasswordHash string        `env:"DASHBOARD_PASSWORD_HASH" envDefault:""`
	RefreshToken          string        `env:"TAKEAWAY_REFRESH_TOKEN" envDefault:""`
	ClientID              string        `env:"TAKEAWAY_CLIENT_ID" envDefault:"restaurant-portal"`
	ClientSecret          string        `env:"TAKEAWAY_CLIENT_SECRET" envDefault:""`
	AuthURL               string        `env:"TAKEAWAY_AUTH_URL" envDefault:"https://partner-hub.justeattakeaway.com/auth/realms/restaurant/protocol/openid-connect/token"`
	PortalURL             string        `env:"TAKEAWAY_PORTAL_URL" envDefault:"https://restaurant-portal-api.takeaway.com"`
	LiveURL               string        `env:"TAKEAWAY_LIVE_URL" envDefault:"https://live-orders-api.takeaway.com"`
	Timezone              string        `env:"TAKEAWAY_TIMEZONE" envDefault:"Europe/Berlin"`
	TokenBuffer           time.Duration `env:"TOKEN_EXPIRY_BUFFER" envDefault:"5m"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RetryAttempts         int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay        time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`
	FetchConcurrency      int           `env:"FETCH_CONCURRENCY" envDefault:"8"`
	LivePollInterval      time.Duration `env:"LIVE_POLL_INTERVAL" envDefault:"30s"`
}

// ServerConfig модель настроек HTTP-сервера панели
type ServerConfig struct {
	ListenAddr            string
	LogLevel              string
	JWTSecret             string
	SessionTTL            time.Duration
	DashboardUser         string
	DashboardPasswordHash string
}

// TakeawayConfig модель настроек работы с API платформы Takeaway.com
type TakeawayConfig struct {
	AuthURL          string
	PortalURL        string
	LiveURL          string
	ClientID         string
	ClientSecret     string
	RefreshToken     string
	Timezone         string
	TokenBuffer      time.Duration
	RequestTimeout   time.Duration
	RetryAttempts    int
	RetryBaseDelay   time.Duration
	FetchConcurrency int
	LivePollInterval time.Duration
}

// Config модель настроек сервиса
type Config struct {
	Server   ServerConfig
	Takeaway TakeawayConfig
}

func NewConfig() Config {

	var args Arguments
	if err := env.Parse(&args); err != nil {
		panic(fmt.Sprintf("Failed to parse enviroment var: %s", err.Error()))
	}

	var (
		server   = pflag.StringP("server", "a", args.ListenAddr, "Server listen address in a form host:port.")
		logLevel = pflag.StringP("log_level", "l", args.LogLevel, "Log level.")
		secret   = pflag.StringP("secret", "s", args.JWTSecret, "Secret to dashboard JWT")
		refresh  = pflag.StringP("refresh_token", "t", args.RefreshToken, "Takeaway.com refresh token")
		authURL  = pflag.String("auth_url", args.AuthURL, "Takeaway.com OAuth2 token endpoint")
		portal   = pflag.String("portal_url", args.PortalURL, "Takeaway.com restaurant portal API base URL")
		live     = pflag.String("live_url", args.LiveURL, "Takeaway.com live orders API base URL")
		timezone = pflag.StringP("timezone", "z", args.Timezone, "Venue timezone, IANA name")
		poll     = pflag.DurationP("poll_interval", "p", args.LivePollInterval, "Live orders poll interval")
	)
	pflag.Parse()

	return Config{
		Server: ServerConfig{
			ListenAddr:            *server,
			LogLevel:              *logLevel,
			JWTSecret:             *secret,
			SessionTTL:            args.SessionTTL,
			DashboardUser:         args.DashboardUser,
			DashboardPasswordHash: args.DashboardPasswordHash,
		},
		Takeaway: TakeawayConfig{
			AuthURL:          *authURL,
			PortalURL:        *portal,
			LiveURL:          *live,
			ClientID:         args.ClientID,
			ClientSecret:     args.ClientSecret,
			RefreshToken:     *refresh,
			Timezone:         *timezone,
			TokenBuffer:      args.TokenBuffer,
			RequestTimeout:   args.RequestTimeout,
			RetryAttempts:    args.RetryAttempts,
			RetryBaseDelay:   args.RetryBaseDelay,
			FetchConcurrency: args.FetchConcurrency,
			LivePollInterval: *poll,
		},
	}
}

// Validate проверяет обязательные параметры перед запуском сервиса
func (c Config) Validate() error {
	if c.Takeaway.RefreshToken == "" {
		return errors.New("missing Takeaway.com refresh token, set TAKEAWAY_REFRESH_TOKEN")
	}
	if c.Takeaway.RetryAttempts < 1 {
		return errors.New("retry attempts must be at least 1")
	}
	if c.Takeaway.FetchConcurrency < 1 {
		return errors.New("fetch concurrency must be at least 1")
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: "localhost:8080",
			LogLevel:   "info",
			JWTSecret:  "secret",
			SessionTTL: 168 * time.Hour,
		},
		Takeaway: TakeawayConfig{
			AuthURL:          "https://partner-hub.justeattakeaway.com/auth/realms/restaurant/protocol/openid-connect/token",
			PortalURL:        "https://restaurant-portal-api.takeaway.com",
			LiveURL:          "https://live-orders-api.takeaway.com",
			ClientID:         "restaurant-portal",
			RefreshToken:     "",
			Timezone:         "Europe/Berlin",
			TokenBuffer:      5 * time.Minute,
			RequestTimeout:   15 * time.Second,
			RetryAttempts:    3,
			RetryBaseDelay:   time.Second,
			FetchConcurrency: 8,
			LivePollInterval: 30 * time.Second,
		},
	}
}
