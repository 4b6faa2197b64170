package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	RedFlagCacheTTL time.Duration `mapstructure:"REDFLAG_CACHE_TTL"`
	KafkaBrokers    []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaAlertTopic string        `mapstructure:"KAFKA_ALERT_TOPIC"`
	AuthIssuer      string        `mapstructure:"AUTH_ISSUER"`
	AuthAudience    string        `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey  string        `mapstructure:"AUTH_SIGNING_KEY"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	AlertRecent     int           `mapstructure:"ALERT_RECENT_LIMIT"`
	RiskLocale      string        `mapstructure:"RISK_LOCALE"`

	WeightPain          float64 `mapstructure:"RISK_WEIGHT_PAIN"`
	WeightAdherence     float64 `mapstructure:"RISK_WEIGHT_ADHERENCE"`
	WeightPsychological float64 `mapstructure:"RISK_WEIGHT_PSYCHOLOGICAL"`
	WeightMovement      float64 `mapstructure:"RISK_WEIGHT_MOVEMENT"`
	WeightHealth        float64 `mapstructure:"RISK_WEIGHT_HEALTH"`
	WeightProgression   float64 `mapstructure:"RISK_WEIGHT_PROGRESSION"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"REDIS_URL", "REDFLAG_CACHE_TTL", "KAFKA_BROKERS", "KAFKA_ALERT_TOPIC",
	"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_SIGNING_KEY", "CORS_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT", "ALERT_RECENT_LIMIT",
	"RISK_LOCALE",
	"RISK_WEIGHT_PAIN", "RISK_WEIGHT_ADHERENCE", "RISK_WEIGHT_PSYCHOLOGICAL",
	"RISK_WEIGHT_MOVEMENT", "RISK_WEIGHT_HEALTH", "RISK_WEIGHT_PROGRESSION",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("REDFLAG_CACHE_TTL", "10m")
	v.SetDefault("KAFKA_ALERT_TOPIC", "rehab.risk-alerts")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("ALERT_RECENT_LIMIT", 10)
	v.SetDefault("RISK_LOCALE", "en")
	v.SetDefault("RISK_WEIGHT_PAIN", 0.25)
	v.SetDefault("RISK_WEIGHT_ADHERENCE", 0.15)
	v.SetDefault("RISK_WEIGHT_PSYCHOLOGICAL", 0.20)
	v.SetDefault("RISK_WEIGHT_MOVEMENT", 0.15)
	v.SetDefault("RISK_WEIGHT_HEALTH", 0.10)
	v.SetDefault("RISK_WEIGHT_PROGRESSION", 0.15)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins, v.GetString("CORS_ORIGINS"))
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers, v.GetString("KAFKA_BROKERS"))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// splitList normalizes a comma separated list that may arrive either already
// split or as a single string.
func splitList(parsed []string, raw string) []string {
	if len(parsed) == 1 {
		raw, parsed = parsed[0], nil
	}
	if len(parsed) == 0 {
		parsed = strings.Split(raw, ",")
	}
	out := make([]string, 0, len(parsed))
	for _, s := range parsed {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the zerolog level for LOG_LEVEL.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Weights returns the configured domain weights in scorer order:
// pain, adherence, psychological, movement, health, progression.
func (c *Config) Weights() [6]float64 {
	return [6]float64{
		c.WeightPain, c.WeightAdherence, c.WeightPsychological,
		c.WeightMovement, c.WeightHealth, c.WeightProgression,
	}
}

// Validate checks that the configuration is safe to run. Outside development
// real JWT validation must be configured.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.AuthIssuer == "" {
			return fmt.Errorf("AUTH_ISSUER must be set when ENV=%q", c.Env)
		}
		if len(c.AuthSigningKey) < 32 {
			return fmt.Errorf("AUTH_SIGNING_KEY must be at least 32 characters when ENV=%q", c.Env)
		}
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel)
		}
	}
	if c.RedFlagCacheTTL <= 0 {
		return fmt.Errorf("REDFLAG_CACHE_TTL must be positive, got %s", c.RedFlagCacheTTL)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}

	names := [6]string{"PAIN", "ADHERENCE", "PSYCHOLOGICAL", "MOVEMENT", "HEALTH", "PROGRESSION"}
	sum := 0.0
	for i, w := range c.Weights() {
		if w < 0 {
			return fmt.Errorf("RISK_WEIGHT_%s must not be negative, got %v", names[i], w)
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("at least one RISK_WEIGHT_* must be positive")
	}
	return nil
}
