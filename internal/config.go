package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/timeclock/internal/core/calendar"
	"github.com/sethvargo/go-envconfig"
)

const DefaultTimezone = "America/Cuiaba"

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server" env:",prefix=HTTP_SERVER_"`
	Database      DatabaseConfig      `mapstructure:"database" env:",prefix=DATABASE_"`
	Clock         ClockConfig         `mapstructure:"clock" env:",prefix=CLOCK_"`
	Kiosk         KioskConfig         `mapstructure:"kiosk" env:",prefix=KIOSK_"`
	Observability ObservabilityConfig `mapstructure:"observability" env:",prefix=OBSERVABILITY_"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" env:"PORT, default=3001"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" env:"ALLOWED_ORIGINS, default=*"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" env:"READ_HEADER_TIMEOUT, default=5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" env:"READ_TIMEOUT, default=15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" env:"IDLE_TIMEOUT, default=60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" env:"WRITE_TIMEOUT, default=15s"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" env:"MAX_OPEN_CONNS, default=10"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" env:"MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" env:"CONN_MAX_LIFETIME, default=30m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME, default=5m"`
	Source          string        `mapstructure:"source" env:"SOURCE, required"`
}

// ClockConfig holds the civil zone every punch date is derived in.
type ClockConfig struct {
	Timezone string `mapstructure:"timezone" env:"TIMEZONE, default=America/Cuiaba"`
}

type KioskConfig struct {
	APIURL  string        `mapstructure:"api_url" env:"API_URL, default=http://localhost:3001"`
	Timeout time.Duration `mapstructure:"timeout" env:"TIMEOUT"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging" env:",prefix=LOGGING_"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL, default=info"`
	Format string `mapstructure:"format" env:"FORMAT, default=json"`
}

// LoadConfigFromEnv builds the configuration purely from environment variables.
func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	return LoadConfigWithLookuper(ctx, envconfig.OsLookuper())
}

func LoadConfigWithLookuper(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Clock.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("clock config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for _, origin := range c.Origins() {
		if origin == "*" {
			continue
		}
		if _, err := url.Parse(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *ClockConfig) Validate() error {
	if _, err := calendar.New(c.Zone()); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Zone returns the configured zone name, falling back to DefaultTimezone.
func (c *ClockConfig) Zone() string {
	if c.Timezone == "" {
		return DefaultTimezone
	}
	return c.Timezone
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error; got %q", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("format must be json or text; got %q", c.Format)
	}
	return nil
}
