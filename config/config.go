package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Remote booking service.
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	CircuitBreaker bool          `mapstructure:"CIRCUIT_BREAKER"`

	// Credential storage.
	EncryptionKey     string `mapstructure:"ENCRYPTION_KEY"`
	CredentialBackend string `mapstructure:"CREDENTIAL_BACKEND"`
	CredentialPath    string `mapstructure:"CREDENTIAL_PATH"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisCredentialDB int    `mapstructure:"REDIS_CREDENTIAL_DB"`
	RedisPaymentDB    int    `mapstructure:"REDIS_PAYMENT_DB"`

	// Payment provider and page notices.
	StripePublishableKey  string        `mapstructure:"STRIPE_PUBLISHABLE_KEY"`
	PaymentSessionBackend string        `mapstructure:"PAYMENT_SESSION_BACKEND"`
	PaymentSessionTTL     time.Duration `mapstructure:"PAYMENT_SESSION_TTL"`
	NoticeClearDelay      time.Duration `mapstructure:"NOTICE_CLEAR_DELAY"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 600)
	viper.SetDefault("API_BASE_URL", "http://localhost:9090/api")
	viper.SetDefault("HTTP_TIMEOUT", "0s")
	viper.SetDefault("CIRCUIT_BREAKER", false)
	viper.SetDefault("ENCRYPTION_KEY", "hotelbook-secret-key")
	viper.SetDefault("CREDENTIAL_BACKEND", "file")
	viper.SetDefault("CREDENTIAL_PATH", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CREDENTIAL_DB", 0)
	viper.SetDefault("REDIS_PAYMENT_DB", 1)
	viper.SetDefault("STRIPE_PUBLISHABLE_KEY", "")
	viper.SetDefault("PAYMENT_SESSION_BACKEND", "memory")
	viper.SetDefault("PAYMENT_SESSION_TTL", "30m")
	viper.SetDefault("NOTICE_CLEAR_DELAY", "5s")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
