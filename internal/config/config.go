package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	StalePolicyRemove = "remove"
	StalePolicyKeep   = "keep"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	Secret   string `mapstructure:"secret"`

	ReadLimit  int64         `mapstructure:"read_limit"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	SendBuffer int           `mapstructure:"send_buffer"`

	StalePolicy  string        `mapstructure:"stale_policy"`
	RequireStart bool          `mapstructure:"require_start"`
	RateLimit    int           `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
	IDAttempts   int           `mapstructure:"id_attempts"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 3001)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "pot-dev-secret")
	v.SetDefault("read_limit", 4096)
	v.SetDefault("write_wait", "10s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("stale_policy", StalePolicyRemove)
	v.SetDefault("require_start", false)
	v.SetDefault("rate_limit", 50)
	v.SetDefault("rate_interval", "1s")
	v.SetDefault("id_attempts", 16)
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("POT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("stale_policy", cfg.StalePolicy).
		Bool("require_start", cfg.RequireStart).
		Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StalePolicy {
	case StalePolicyRemove, StalePolicyKeep:
	default:
		return fmt.Errorf("invalid stale_policy %q", c.StalePolicy)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer)
	}
	if c.WriteWait <= 0 || c.PongWait <= 0 || c.PingPeriod <= 0 {
		return fmt.Errorf("write_wait, pong_wait and ping_period must be positive, got %s, %s, %s", c.WriteWait, c.PongWait, c.PingPeriod)
	}
	if c.PingPeriod >= c.PongWait {
		return fmt.Errorf("ping_period (%s) must be shorter than pong_wait (%s)", c.PingPeriod, c.PongWait)
	}
	if c.IDAttempts <= 0 {
		return fmt.Errorf("id_attempts must be positive, got %d", c.IDAttempts)
	}
	return nil
}
