package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RENOMATCH"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "RENOMATCH_APP_ENV"
	EnvPort   = "RENOMATCH_APP_PORT"
	EnvDBDSN  = "RENOMATCH_DB_DSN"
	EnvDBHost = "RENOMATCH_DB_HOST"
	EnvDBUser = "RENOMATCH_DB_USER"
	EnvDBName = "RENOMATCH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Credits      CreditsConfig
	Pricing      PricingConfig
	Matching     MatchingConfig
	RateLimit    RateLimitConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RENOMATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"RENOMATCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENOMATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENOMATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RENOMATCH_DB_DSN"`
	Driver string `envconfig:"RENOMATCH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENOMATCH_DB_HOST"`
	LegacyPort     int    `envconfig:"RENOMATCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENOMATCH_DB_USER"`
	LegacyPassword string `envconfig:"RENOMATCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENOMATCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENOMATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENOMATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENOMATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENOMATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENOMATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENOMATCH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENOMATCH_REDIS_ADDR"`
	Password     string        `envconfig:"RENOMATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENOMATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENOMATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENOMATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENOMATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENOMATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENOMATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig governs the anonymous visitor cookie. The token is a
// usage-counting key, not an authentication credential.
type SessionConfig struct {
	CookieName string        `envconfig:"RENOMATCH_SESSION_COOKIE_NAME" default:"rm_session"`
	TTL        time.Duration `envconfig:"RENOMATCH_SESSION_TTL" default:"720h"`
	Secure     bool          `envconfig:"RENOMATCH_SESSION_COOKIE_SECURE" default:"true"`
}

type CreditsConfig struct {
	PerSession int `envconfig:"RENOMATCH_CREDITS_PER_SESSION" default:"1"`
}

// PricingConfig exposes the scalar pricing knobs. The base range and
// multiplier tables live with the engine so they stay total over the closed
// enum domains.
type PricingConfig struct {
	Currency           string `envconfig:"RENOMATCH_PRICING_CURRENCY" default:"EUR"`
	RoundTo            int    `envconfig:"RENOMATCH_PRICING_ROUND_TO" default:"100"`
	DefaultBuildingAge int    `envconfig:"RENOMATCH_PRICING_DEFAULT_BUILDING_AGE" default:"30"`

	MaterialsPercent      float64 `envconfig:"RENOMATCH_PRICING_MATERIALS_PERCENT" default:"0.40"`
	LaborPercent          float64 `envconfig:"RENOMATCH_PRICING_LABOR_PERCENT" default:"0.35"`
	ScaffoldingPercent    float64 `envconfig:"RENOMATCH_PRICING_SCAFFOLDING_PERCENT" default:"0.15"`
	ScaffoldingLowPercent float64 `envconfig:"RENOMATCH_PRICING_SCAFFOLDING_LOW_PERCENT" default:"0.05"`
	InsulationPercent     float64 `envconfig:"RENOMATCH_PRICING_INSULATION_PERCENT" default:"0.10"`
	InsulationLowPercent  float64 `envconfig:"RENOMATCH_PRICING_INSULATION_LOW_PERCENT" default:"0.05"`
}

type MatchingConfig struct {
	MaxResults             int     `envconfig:"RENOMATCH_MATCHING_MAX_RESULTS" default:"3"`
	DefaultRegion          string  `envconfig:"RENOMATCH_MATCHING_DEFAULT_REGION" default:"België"`
	BaseScore              float64 `envconfig:"RENOMATCH_MATCHING_BASE_SCORE" default:"10"`
	PremiumGuidanceBonus   float64 `envconfig:"RENOMATCH_MATCHING_PREMIUM_GUIDANCE_BONUS" default:"5"`
	BudgetFitBonus         float64 `envconfig:"RENOMATCH_MATCHING_BUDGET_FIT_BONUS" default:"5"`
	RatingWeight           float64 `envconfig:"RENOMATCH_MATCHING_RATING_WEIGHT" default:"2"`
	QualityBonus           float64 `envconfig:"RENOMATCH_MATCHING_QUALITY_BONUS" default:"3"`
	QualityRatingThreshold float64 `envconfig:"RENOMATCH_MATCHING_QUALITY_RATING_THRESHOLD" default:"4.5"`
}

type RateLimitConfig struct {
	SubmitWindow  time.Duration `envconfig:"RENOMATCH_RATE_LIMIT_SUBMIT_WINDOW" default:"1m"`
	SubmitIPLimit int           `envconfig:"RENOMATCH_RATE_LIMIT_SUBMIT_IP_LIMIT" default:"5"`
	CreditWindow  time.Duration `envconfig:"RENOMATCH_RATE_LIMIT_CREDIT_WINDOW" default:"1m"`
	CreditIPLimit int           `envconfig:"RENOMATCH_RATE_LIMIT_CREDIT_IP_LIMIT" default:"30"`
}

type IdempotencyConfig struct {
	SubmitTTL time.Duration `envconfig:"RENOMATCH_IDEMPOTENCY_SUBMIT_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENOMATCH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
