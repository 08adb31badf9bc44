package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking flow.
	SessionBackend string        `mapstructure:"SESSION_BACKEND"`
	SessionExpiry  time.Duration `mapstructure:"SESSION_EXPIRY"`
	StepOrder      string        `mapstructure:"STEP_ORDER"`

	// Pricing.
	DepotPostcode         string  `mapstructure:"DEPOT_POSTCODE"`
	FreeTravelRadiusMiles float64 `mapstructure:"FREE_TRAVEL_RADIUS_MILES"`
	PostcodeAPIURL        string  `mapstructure:"POSTCODE_API_URL"`
	Currency              string  `mapstructure:"CURRENCY"`

	// APIBaseURL points the booking flow at a remote booking API. Empty means
	// the flow talks to the services in this process.
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	HTTPClientTimeout time.Duration `mapstructure:"HTTP_CLIENT_TIMEOUT"`

	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	PasswordSetupTTL  time.Duration `mapstructure:"PASSWORD_SETUP_TTL"`
	ReminderLeadTime  time.Duration `mapstructure:"REMINDER_LEAD_TIME"`
	ReminderQueueName string        `mapstructure:"REMINDER_QUEUE"`

	// Catalogue and slot generation.
	CatalogSeedFile        string        `mapstructure:"CATALOG_SEED_FILE"`
	Timezone               string        `mapstructure:"TIMEZONE"`
	SlotTemplate           string        `mapstructure:"SLOT_TEMPLATE"`
	SlotCapacity           int           `mapstructure:"SLOT_CAPACITY"`
	SlotHorizonDays        int           `mapstructure:"SLOT_HORIZON_DAYS"`
	SlotClosedDays         string        `mapstructure:"SLOT_CLOSED_DAYS"`
	SlotGenerationInterval time.Duration `mapstructure:"SLOT_GENERATION_INTERVAL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "detailbook")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("SESSION_BACKEND", "redis")
	viper.SetDefault("SESSION_EXPIRY", "30m")
	viper.SetDefault("STEP_ORDER", "standard")
	viper.SetDefault("DEPOT_POSTCODE", "GU1 1AA")
	viper.SetDefault("FREE_TRAVEL_RADIUS_MILES", 17.5)
	viper.SetDefault("POSTCODE_API_URL", "https://api.postcodes.io")
	viper.SetDefault("CURRENCY", "GBP")
	viper.SetDefault("API_BASE_URL", "")
	viper.SetDefault("HTTP_CLIENT_TIMEOUT", "10s")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("PASSWORD_SETUP_TTL", "48h")
	viper.SetDefault("REMINDER_LEAD_TIME", "24h")
	viper.SetDefault("REMINDER_QUEUE", "default")
	viper.SetDefault("CATALOG_SEED_FILE", "")
	viper.SetDefault("TIMEZONE", "Europe/London")
	viper.SetDefault("SLOT_TEMPLATE", "08:00-10:00,10:00-12:00,13:00-15:00,15:00-17:00")
	viper.SetDefault("SLOT_CAPACITY", 1)
	viper.SetDefault("SLOT_HORIZON_DAYS", 28)
	viper.SetDefault("SLOT_CLOSED_DAYS", "sunday")
	viper.SetDefault("SLOT_GENERATION_INTERVAL", "6h")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to UTC when it is unknown.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil || AppConfig.Timezone == "" {
		return time.UTC
	}
	return loc
}
