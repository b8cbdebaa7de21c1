package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ErrConfigurationMissing is returned when a required setting has no value.
var ErrConfigurationMissing = errors.New("required configuration missing")

// Config holds all runtime settings for the service.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// SecretKey signs session tokens. Required.
	SecretKey string

	// AdminPanelSecret gates the admin panel login. May be empty; the
	// panel login operation fails until it is set.
	AdminPanelSecret string

	// DatabasePath is the sqlite database file.
	DatabasePath string

	// UploadDir is where uploaded files are written.
	UploadDir string

	Debug bool
}

// Load reads settings from an optional .env file and the process
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8000)
	v.SetDefault("DATABASE_PATH", "blogsite.db")
	v.SetDefault("UPLOAD_DIR", "static/uploads")
	v.SetDefault("DEBUG", false)

	if err := v.ReadInConfig(); err != nil {
		// The .env file is optional; anything else is a real error.
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:             v.GetInt("PORT"),
		SecretKey:        v.GetString("SECRET_KEY"),
		AdminPanelSecret: v.GetString("ADMIN_PANEL_SECRET"),
		DatabasePath:     v.GetString("DATABASE_PATH"),
		UploadDir:        v.GetString("UPLOAD_DIR"),
		Debug:            v.GetBool("DEBUG"),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: SECRET_KEY", ErrConfigurationMissing)
	}

	return cfg, nil
}
