package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	MetricsPort string
	Database    DatabaseConfig
	Drive       DriveConfig
	Migration   MigrationConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type DriveConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RefreshToken string
	RootFolderID string
	FolderPolicy string
}

type MigrationConfig struct {
	// CutoffDays is the rolling window: only records created within the
	// last N days are candidates. Required, no implicit default.
	CutoffDays int
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getenvDefault("PORT", "3005"),
		MetricsPort: getenvDefault("METRICS_PORT", "9100"),
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getenvDefault("DB_PORT", "1433"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
		Drive: DriveConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
			RefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
			RootFolderID: os.Getenv("GOOGLE_FOLDER_ID"),
			FolderPolicy: getenvDefault("DRIVE_FOLDER_POLICY", "first"),
		},
	}

	cutoff := os.Getenv("UPLOAD_CUTOFF_DAYS")
	if cutoff == "" {
		return nil, fmt.Errorf("UPLOAD_CUTOFF_DAYS is required (number of days back to look for pending blobs)")
	}
	days, err := strconv.Atoi(cutoff)
	if err != nil || days < 0 {
		return nil, fmt.Errorf("UPLOAD_CUTOFF_DAYS must be a non-negative integer, got %q", cutoff)
	}
	cfg.Migration.CutoffDays = days

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"DB_HOST":              c.Database.Host,
		"DB_USER":              c.Database.User,
		"DB_PASSWORD":          c.Database.Password,
		"DB_NAME":              c.Database.Name,
		"GOOGLE_CLIENT_ID":     c.Drive.ClientID,
		"GOOGLE_CLIENT_SECRET": c.Drive.ClientSecret,
		"GOOGLE_REDIRECT_URI":  c.Drive.RedirectURL,
		"GOOGLE_FOLDER_ID":     c.Drive.RootFolderID,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("missing required environment variable %s", name)
		}
	}
	switch c.Drive.FolderPolicy {
	case "first", "newest", "fail":
	default:
		return fmt.Errorf("DRIVE_FOLDER_POLICY must be first, newest or fail, got %q", c.Drive.FolderPolicy)
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
