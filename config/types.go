package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Nats           NatsConfig           `mapstructure:"nats"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Client         ClientConfig         `mapstructure:"client"`
}

type ServerConfig struct {
	Port        int        `mapstructure:"port"`
	Environment string     `mapstructure:"environment"`
	CORS        CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Host     string             `mapstructure:"host"`
	Port     int                `mapstructure:"port"`
	User     string             `mapstructure:"user"`
	Password string             `mapstructure:"password"`
	DBName   string             `mapstructure:"dbname"`
	SSLMode  string             `mapstructure:"sslmode"`
	Pool     DatabasePoolConfig `mapstructure:"pool"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

// DSN builds a postgres connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslmode)
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type NatsConfig struct {
	URL string `mapstructure:"url"`
}

type AuthenticationConfig struct {
	// JWTSecret signs access tokens. Must be set outside development.
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
	Issuer          string `mapstructure:"issuer"`
}

func (a AuthenticationConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	Output LoggingOutput `mapstructure:"output"`
}

type LoggingOutput struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiLogConfig `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiLogConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ClientConfig drives the synchronization SDK when it is embedded in a
// process (demo shell, tests, tooling).
type ClientConfig struct {
	Mode                  string `mapstructure:"mode"` // remote | fixture
	BaseURL               string `mapstructure:"base_url"`
	CacheDir              string `mapstructure:"cache_dir"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	AutoRefreshSeconds    int    `mapstructure:"auto_refresh_seconds"`
}

func (c ClientConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		c.Server.Port = 5000
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.Environment == "production" && c.Authentication.JWTSecret == "" {
		return fmt.Errorf("authentication.jwt_secret is required in production")
	}
	if c.Client.Mode == "" {
		c.Client.Mode = "remote"
	}
	if c.Client.Mode != "remote" && c.Client.Mode != "fixture" {
		return fmt.Errorf("client.mode must be remote or fixture, got %q", c.Client.Mode)
	}
	return nil
}
