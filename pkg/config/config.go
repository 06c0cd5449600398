package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database (run history)
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (enrichment fact cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Roster rules
	ContestPreset  string `mapstructure:"CONTEST_PRESET"` // "classic", "showdown"
	SalaryCap      int    `mapstructure:"SALARY_CAP"`
	MinSalaryUsage float64 `mapstructure:"MIN_SALARY_USAGE"`

	// Eligibility
	EligibilityMode string `mapstructure:"ELIGIBILITY_MODE"` // "union", "manual_only", "confirmed_only"

	// Team constraints
	MaxPerTeam         int      `mapstructure:"MAX_PER_TEAM"`
	MinStackSize       int      `mapstructure:"MIN_STACK_SIZE"`
	StackTeams         []string `mapstructure:"STACK_TEAMS"`
	MaxOpposingHitters int      `mapstructure:"MAX_OPPOSING_HITTERS"`

	// Solver
	SolverTimeout time.Duration `mapstructure:"SOLVER_TIMEOUT"`
	UseExactSolver bool         `mapstructure:"USE_EXACT_SOLVER"`

	// Scoring category weights
	RecentFormWeight float64 `mapstructure:"RECENT_FORM_WEIGHT"`
	VegasWeight      float64 `mapstructure:"VEGAS_WEIGHT"`
	MatchupWeight    float64 `mapstructure:"MATCHUP_WEIGHT"`
	ParkWeight       float64 `mapstructure:"PARK_WEIGHT"`

	// Enrichment providers
	ProviderTimeout       time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	ProviderRateLimit     int           `mapstructure:"PROVIDER_RATE_LIMIT"`
	FactCacheExpiration   time.Duration `mapstructure:"FACT_CACHE_EXPIRATION"`
	ConfirmationFeedURL   string        `mapstructure:"CONFIRMATION_FEED_URL"`
	OddsFeedURL           string        `mapstructure:"ODDS_FEED_URL"`
	StatcastFeedURL       string        `mapstructure:"STATCAST_FEED_URL"`
	RecentFormFeedURL     string        `mapstructure:"RECENT_FORM_FEED_URL"`
	ConfirmationSchedule  string        `mapstructure:"CONFIRMATION_SCHEDULE"`
	CircuitBreakerMaxFail uint32        `mapstructure:"CIRCUIT_BREAKER_MAX_FAIL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "dfs_optimizer.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")

	viper.SetDefault("CONTEST_PRESET", "classic")
	viper.SetDefault("SALARY_CAP", 50000)
	viper.SetDefault("MIN_SALARY_USAGE", 0.0)

	viper.SetDefault("ELIGIBILITY_MODE", "union")

	viper.SetDefault("MAX_PER_TEAM", 4)
	viper.SetDefault("MIN_STACK_SIZE", 0)
	viper.SetDefault("STACK_TEAMS", "")
	viper.SetDefault("MAX_OPPOSING_HITTERS", 1)

	viper.SetDefault("SOLVER_TIMEOUT", "30s")
	viper.SetDefault("USE_EXACT_SOLVER", true)

	viper.SetDefault("RECENT_FORM_WEIGHT", 0.35)
	viper.SetDefault("VEGAS_WEIGHT", 0.30)
	viper.SetDefault("MATCHUP_WEIGHT", 0.20)
	viper.SetDefault("PARK_WEIGHT", 0.15)

	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("PROVIDER_RATE_LIMIT", 10)
	viper.SetDefault("FACT_CACHE_EXPIRATION", "1h")
	viper.SetDefault("CONFIRMATION_FEED_URL", "https://statsapi.mlb.com/api/v1/schedule")
	viper.SetDefault("ODDS_FEED_URL", "")
	viper.SetDefault("STATCAST_FEED_URL", "")
	viper.SetDefault("RECENT_FORM_FEED_URL", "")
	viper.SetDefault("CONFIRMATION_SCHEDULE", "@every 15m")
	viper.SetDefault("CIRCUIT_BREAKER_MAX_FAIL", 5)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse stack teams from comma-separated string
	if teamsStr := viper.GetString("STACK_TEAMS"); teamsStr != "" {
		config.StackTeams = strings.Split(teamsStr, ",")
		for i := range config.StackTeams {
			config.StackTeams[i] = strings.ToUpper(strings.TrimSpace(config.StackTeams[i]))
		}
	} else {
		config.StackTeams = nil
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
