package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	App      App      `mapstructure:"app"`
	DB       DB       `mapstructure:"database"`
	Redis    Redis    `mapstructure:"redis"`
	Auth     Auth     `mapstructure:"auth"`
	Tracing  Tracing  `mapstructure:"tracing"`
	Goals    Goals    `mapstructure:"goals"`
	Practice Practice `mapstructure:"practice"`
	Jobs     Jobs     `mapstructure:"jobs"`
}

type App struct {
	Env         string   `mapstructure:"env"`      // local, dev, production
	Port        string   `mapstructure:"port"`
	Timezone    string   `mapstructure:"timezone"` // IANA name used for calendar days
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Location resolves the configured time zone.
func (a App) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

type DB struct {
	DSN             string        `mapstructure:"-"` // loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

type Redis struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"-"`
	DB         int           `mapstructure:"db"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type Auth struct {
	JWTSecret string `mapstructure:"-"` // loaded from environment
	Issuer    string `mapstructure:"issuer"`
}

type Tracing struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // stdout or otlp
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type Goals struct {
	Beginner     models.GoalProfile `mapstructure:"beginner"`
	Intermediate models.GoalProfile `mapstructure:"intermediate"`
	Advanced     models.GoalProfile `mapstructure:"advanced"`
}

// Profiles returns the goal profiles keyed by name.
func (g Goals) Profiles() map[models.GoalProfileName]models.GoalProfile {
	g.Beginner.Name = models.ProfileBeginner
	g.Intermediate.Name = models.ProfileIntermediate
	g.Advanced.Name = models.ProfileAdvanced
	return map[models.GoalProfileName]models.GoalProfile{
		models.ProfileBeginner:     g.Beginner,
		models.ProfileIntermediate: g.Intermediate,
		models.ProfileAdvanced:     g.Advanced,
	}
}

type Practice struct {
	DailyExerciseCap int `mapstructure:"daily_exercise_cap"`
}

type Jobs struct {
	StreakSweepCron string `mapstructure:"streak_sweep_cron"` // empty disables the job
}

// Load reads the server configuration. The database DSN and JWT secret are required.
func Load() (*Config, error) {
	return load(true)
}

// LoadForCLI reads the configuration for admin commands, which only need the database.
func LoadForCLI() (*Config, error) {
	return load(false)
}

func load(requireAuth bool) (*Config, error) {
	// A local .env is optional.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.DB.DSN = v.GetString("database_url")
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	if requireAuth && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingEnvironmentVariables)
	}

	cfg.Redis.Password = v.GetString("redis_password")

	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("invalid app.timezone: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "local")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("app.cors_origins", []string{"*"})

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl", "2h")

	v.SetDefault("auth.issuer", "")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("goals.beginner.exercises", 5)
	v.SetDefault("goals.beginner.srs_reviews", 3)
	v.SetDefault("goals.beginner.study_time", 10)
	v.SetDefault("goals.intermediate.exercises", 10)
	v.SetDefault("goals.intermediate.srs_reviews", 5)
	v.SetDefault("goals.intermediate.study_time", 20)
	v.SetDefault("goals.advanced.exercises", 15)
	v.SetDefault("goals.advanced.srs_reviews", 8)
	v.SetDefault("goals.advanced.study_time", 30)

	v.SetDefault("practice.daily_exercise_cap", 50)

	v.SetDefault("jobs.streak_sweep_cron", "5 0 * * *")
}
