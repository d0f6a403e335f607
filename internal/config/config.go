// Package config loads the site configuration from defaults, an optional
// config file and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CKP_FIELD_COUNT.
const EnvPrefix = "CKP"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Field   FieldConfig   `mapstructure:"field"`
	Contact ContactConfig `mapstructure:"contact"`
	Store   StoreConfig   `mapstructure:"store"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means the peer address is always the client.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	AddSource   bool   `mapstructure:"add_source"`
	ServiceName string `mapstructure:"service_name"`
	LogFile     string `mapstructure:"log_file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
}

// FieldConfig controls the streamed particle background.
type FieldConfig struct {
	Count        int     `mapstructure:"count"`
	MaxCount     int     `mapstructure:"max_count"`
	FPS          int     `mapstructure:"fps"`
	MaxStreams   int64   `mapstructure:"max_streams"`
	PointerRate  float64 `mapstructure:"pointer_rate"`
	PointerBurst int     `mapstructure:"pointer_burst"`
	Seed         int64   `mapstructure:"seed"`
}

// ContactConfig controls the simulated contact form.
type ContactConfig struct {
	Delay time.Duration `mapstructure:"delay"`
	Rate  float64       `mapstructure:"rate"`
	Burst int           `mapstructure:"burst"`
}

// StoreConfig controls visitor metrics persistence.
type StoreConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Path            string        `mapstructure:"path"`
	Retention       time.Duration `mapstructure:"retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// SetDefaults registers every key with its development default.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "ck-protocol")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)

	v.SetDefault("field.count", 150)
	v.SetDefault("field.max_count", 400)
	v.SetDefault("field.fps", 30)
	v.SetDefault("field.max_streams", 32)
	v.SetDefault("field.pointer_rate", 60)
	v.SetDefault("field.pointer_burst", 30)
	v.SetDefault("field.seed", 0)

	v.SetDefault("contact.delay", "1500ms")
	v.SetDefault("contact.rate", 0.2)
	v.SetDefault("contact.burst", 3)

	v.SetDefault("store.enabled", true)
	v.SetDefault("store.path", "portfolio.db")
	v.SetDefault("store.retention", "8760h")
	v.SetDefault("store.cleanup_interval", "24h")

	v.SetDefault("admin.token", "")
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load builds the configuration. path may be empty; when set the file must
// exist. Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unprefixed names most hosts already set.
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("admin.token", EnvPrefix+"_ADMIN_TOKEN", "ADMIN_TOKEN")
	_ = v.BindEnv("server.mode", EnvPrefix+"_SERVER_MODE", "GIN_MODE")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}
	for _, p := range c.Server.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Errorf("server.trusted_proxies: %q is not an IP or CIDR", p))
			}
		}
	}
	if c.Field.MaxCount < 0 {
		errs = append(errs, errors.New("field.max_count must not be negative"))
	}
	if c.Field.Count < 0 || c.Field.Count > c.Field.MaxCount {
		errs = append(errs, fmt.Errorf("field.count must be between 0 and field.max_count (%d)", c.Field.MaxCount))
	}
	if c.Field.FPS < 1 || c.Field.FPS > 120 {
		errs = append(errs, errors.New("field.fps must be between 1 and 120"))
	}
	if c.Field.MaxStreams < 1 {
		errs = append(errs, errors.New("field.max_streams must be a positive integer"))
	}
	if c.Field.PointerRate <= 0 || c.Field.PointerBurst < 1 {
		errs = append(errs, errors.New("field.pointer_rate and field.pointer_burst must be positive"))
	}
	if c.Contact.Delay < 0 {
		errs = append(errs, errors.New("contact.delay must not be negative"))
	}
	if c.Contact.Rate <= 0 || c.Contact.Burst < 1 {
		errs = append(errs, errors.New("contact.rate and contact.burst must be positive"))
	}
	if c.Store.Enabled && c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required when the store is enabled"))
	}
	return errors.Join(errs...)
}

// FrameInterval is the stream period derived from FPS.
func (f FieldConfig) FrameInterval() time.Duration {
	if f.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(f.FPS)
}
