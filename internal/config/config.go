package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Attendance   AttendanceConfig
	MQTT         MQTTConfig
	OAuth2Google OAuth2GoogleConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	DeviceExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
}

// AttendanceConfig holds geofence and stale-record sweep tuning
type AttendanceConfig struct {
	AccuracyBufferMeters float64
	StaleOpenMaxAge      time.Duration
}

// MQTTConfig holds the device location ingest settings. An empty BrokerURL
// disables the ingestor.
type MQTTConfig struct {
	BrokerURL string
	ClientID  string
	Topic     string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-presensi"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{"http://localhost:3000"}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		DeviceExpiration: getEnv("JWT_DEVICE_EXPIRATION_TIME", "8760h"),
	}

	// Attendance configuration
	accuracyBuffer, err := strconv.ParseFloat(getEnv("GEOFENCE_ACCURACY_BUFFER_METERS", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_ACCURACY_BUFFER_METERS: %w", err)
	}

	staleOpenMaxAge, err := time.ParseDuration(getEnv("STALE_ATTENDANCE_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_ATTENDANCE_MAX_AGE: %w", err)
	}

	config.Attendance = AttendanceConfig{
		AccuracyBufferMeters: accuracyBuffer,
		StaleOpenMaxAge:      staleOpenMaxAge,
	}

	// MQTT configuration
	config.MQTT = MQTTConfig{
		BrokerURL: getEnv("MQTT_BROKER_URL", ""),
		ClientID:  getEnv("MQTT_CLIENT_ID", "presensi-backend"),
		Topic:     getEnv("MQTT_LOCATION_TOPIC", "presensi/location"),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.AccuracyBufferMeters < 0 {
		return fmt.Errorf("GEOFENCE_ACCURACY_BUFFER_METERS must not be negative")
	}
	if c.Attendance.StaleOpenMaxAge <= 0 {
		return fmt.Errorf("STALE_ATTENDANCE_MAX_AGE must be positive")
	}

	// Google sign-in is optional, but a partial configuration is a mistake.
	if c.OAuth2Google.Enabled() {
		if len(c.OAuth2Google.Scopes) == 0 {
			return fmt.Errorf("SCOPES is required when Google sign-in is configured")
		}
	} else if c.OAuth2Google.ClientID != "" || c.OAuth2Google.ClientSecret != "" || c.OAuth2Google.RedirectURL != "" {
		return fmt.Errorf("CLIENT_ID, CLIENT_SECRET and REDIRECT_URL must all be set to enable Google sign-in")
	}

	return nil
}

// Enabled reports whether Google sign-in is fully configured.
func (c *OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
