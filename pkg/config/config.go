package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
)

type DbConfig struct {
	Host     string `env:"PORTAL_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"PORTAL_PG_PORT" env-default:"5432"`
	Database string `env:"PORTAL_PG_DATABASE" env-default:"portal_db"`
	User     string `env:"PORTAL_PG_USER" env-default:"portal"`
	Password string `env:"PORTAL_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"PORTAL_PG_SCHEMA" env-default:"public"`
}

func (d DbConfig) ToDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

func (d DbConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

type JwtConfig struct {
	Secret         string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer         string `env:"JWT_ISSUER" env-default:"campus-portal"`
	Audience       string `env:"JWT_AUDIENCE" env-default:"campus-portal"`
	CookieHttpOnly bool   `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure   bool   `env:"COOKIE_SECURE" env-default:"true"`
	// Token expiry durations
	AccessTokenExpiry string `env:"ACCESS_TOKEN_EXPIRY" env-default:"15m"`
}

type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:"noreply@example.com"`
	Password string `env:"EMAIL_PASSWORD" env-default:"pwd"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

type BlobConfig struct {
	// Directory for uploaded files; empty keeps uploads in memory.
	Dir     string `env:"BLOB_DIR" env-default:""`
	BaseURL string `env:"BLOB_BASE_URL" env-default:"http://localhost:4000/files"`
}

type Config struct {
	BaseUrl     string `env:"BASE_URL" env-default:"http://localhost:4000"`
	FrontendUrl string `env:"FRONTEND_URL" env-default:"http://localhost:3000"`
	DbConfig    DbConfig
	AppConfig   app.AppConfig
	JwtConfig   JwtConfig
	EmailConfig EmailConfig
	BlobConfig  BlobConfig
}

// LoadEnvFile loads environment variables from a .env file if one exists
// next to the executable or in the working directory. Variables already
// set in the environment are kept.
func LoadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Error("Failed to get executable path", "error", err)
		return
	}

	envFile := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to get current working directory", "error", err)
			return
		}
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found", "path", envFile)
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "error", err, "path", envFile)
	}
}
