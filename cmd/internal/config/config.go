package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	EnvProduction = "production"

	devJWTSecret = "development-only-secret-change-me"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	CorsAllowedOrigins []string
	BodyLimit          string
	SSMParameterPath   string
	SeedDemoUsers      bool
	MachineID          int64
}

type DatabaseConfig struct {
	Driver     string
	Connection string
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
	Expiry    time.Duration
}

type StorageConfig struct {
	Driver         string
	UploadsDir     string
	S3Bucket       string
	S3Region       string
	MaxUploadBytes int64
}

type RedisConfig struct {
	URL string
}

// GatewayConfig points at the API Gateway websocket management endpoint.
// An empty endpoint disables realtime notifications.
type GatewayConfig struct {
	Endpoint string
	Region   string
}

func (g GatewayConfig) Enabled() bool {
	return g.Endpoint != ""
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == EnvProduction
}

// Load reads the environment. Production pulls its variables from SSM
// Parameter Store first, other environments read an optional .env file.
func Load() (*Config, error) {
	if os.Getenv("GO_ENV") == EnvProduction {
		if err := loadProdEnv(getEnv("SSM_PARAMETER_PATH", "/coursenotes/prod/")); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system environment")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds the configuration from the current process environment.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "7070"),
			Environment:        getEnv("GO_ENV", "development"),
			CorsAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			BodyLimit:          getEnv("BODY_LIMIT", "10M"),
			SSMParameterPath:   getEnv("SSM_PARAMETER_PATH", "/coursenotes/prod/"),
			SeedDemoUsers:      getEnvAsBool("SEED_DEMO_USERS", false),
			MachineID:          int64(getEnvAsInt("MACHINE_ID", 1)),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Connection: getEnv("DB_CONNECTION_STRING", "database.db"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
			Issuer:    getEnv("JWT_ISSUER", "coursenotes"),
			Audience:  getEnv("JWT_AUDIENCE", "coursenotes-client"),
			Expiry:    time.Duration(getEnvAsInt("JWT_EXPIRY_MINUTES", 24*60)) * time.Minute,
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			UploadsDir:     getEnv("UPLOADS_DIR", "wwwroot/uploads"),
			S3Bucket:       getEnv("S3_BUCKET_NAME", ""),
			S3Region:       getEnv("AWS_S3_REGION", ""),
			MaxUploadBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Gateway: GatewayConfig{
			Endpoint: getEnv("WS_GATEWAY_ENDPOINT", ""),
			Region:   getEnv("WS_GATEWAY_REGION", ""),
		},
	}
}

// Validate rejects combinations the server cannot start with. Outside
// production a missing JWT secret falls back to a development key.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.SecretKey == "" {
		if c.App.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET_KEY is required in production"))
		} else {
			log.Warn("JWT_SECRET_KEY not set, using the development fallback key")
			c.JWT.SecretKey = devJWTSecret
		}
	}

	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_MINUTES must be positive"))
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.Database.Driver))
	}

	if c.Database.Connection == "" {
		errs = append(errs, errors.New("DB_CONNECTION_STRING is required"))
	}

	switch c.Storage.Driver {
	case "local":
		if c.Storage.UploadsDir == "" {
			errs = append(errs, errors.New("UPLOADS_DIR is required for local storage"))
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET_NAME is required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q is not supported", c.Storage.Driver))
	}

	if c.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

// getEnv treats empty variables as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
