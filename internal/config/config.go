package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string `mapstructure:"PORT"`
	Env             string `mapstructure:"ENV"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32  `mapstructure:"DB_MIN_CONNS"`
	OwnerPrincipal  string `mapstructure:"OWNER_PRINCIPAL"`
	PlatformFeeBps  int64  `mapstructure:"PLATFORM_FEE_BPS"`
	MinContribution int64  `mapstructure:"MIN_CONTRIBUTION"`
	JWTSigningKey   string `mapstructure:"JWT_SIGNING_KEY"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults mirror the platform's launch parameters: 2% fee and a
	// 0.01-unit contribution floor at 9-decimal base units.
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("PLATFORM_FEE_BPS", 200)
	v.SetDefault("MIN_CONTRIBUTION", 10_000_000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("OWNER_PRINCIPAL")
	v.BindEnv("PLATFORM_FEE_BPS")
	v.BindEnv("MIN_CONTRIBUTION")
	v.BindEnv("JWT_SIGNING_KEY")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: The X-Principal header is trusted as the caller identity.")
		log.Println("WARNING: Set ENV=production and JWT_SIGNING_KEY for real deployments.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. The owner principal
// is required everywhere (owner-only commands are unreachable without it),
// and production refuses to start without a token signing key.
func (c *Config) Validate() error {
	if c.OwnerPrincipal == "" {
		return fmt.Errorf("OWNER_PRINCIPAL is required")
	}
	if c.PlatformFeeBps < 0 || c.PlatformFeeBps > 500 {
		return fmt.Errorf("PLATFORM_FEE_BPS must be between 0 and 500, got %d", c.PlatformFeeBps)
	}
	if c.MinContribution <= 0 {
		return fmt.Errorf("MIN_CONTRIBUTION must be positive, got %d", c.MinContribution)
	}
	if !c.IsDev() && c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required outside development")
	}
	return nil
}
