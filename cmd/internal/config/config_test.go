package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "DB_CONNECTION_STRING", "JWT_EXPIRY_MINUTES", "STORAGE_DRIVER", "UPLOADS_DIR", "UPLOAD_MAX_BYTES", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, []string{"*"}, cfg.App.CorsAllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.EqualValues(t, 5*1024*1024, cfg.Storage.MaxUploadBytes)
	assert.Equal(t, "wwwroot/uploads", cfg.Storage.UploadsDir)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("JWT_EXPIRY_MINUTES", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://notes.example.com")
	t.Setenv("SEED_DEMO_USERS", "true")
	t.Setenv("WS_GATEWAY_ENDPOINT", "https://abc.execute-api.us-east-2.amazonaws.com/prod")

	cfg := FromEnv()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiry)
	assert.Equal(t, []string{"http://localhost:3000", "https://notes.example.com"}, cfg.App.CorsAllowedOrigins)
	assert.True(t, cfg.App.SeedDemoUsers)
	assert.True(t, cfg.Gateway.Enabled())
}

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Database: DatabaseConfig{Driver: "sqlite", Connection: "database.db"},
		JWT:      JWTConfig{SecretKey: "secret", Expiry: time.Hour},
		Storage:  StorageConfig{Driver: "local", UploadsDir: "uploads", MaxUploadBytes: 1},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	t.Run("development falls back to a secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.SecretKey = ""
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.JWT.SecretKey)
	})

	t.Run("production requires a secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = EnvProduction
		cfg.JWT.SecretKey = ""
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET_KEY")
	})

	t.Run("unknown drivers", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "mysql"
		cfg.Storage.Driver = "ftp"
		err := cfg.Validate()
		assert.ErrorContains(t, err, "DB_DRIVER")
		assert.ErrorContains(t, err, "STORAGE_DRIVER")
	})

	t.Run("s3 needs a bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = "s3"
		assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET_NAME")
	})
}
