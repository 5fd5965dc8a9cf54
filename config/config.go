package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. EDA_ADDR.
const EnvPrefix = "EDA"

type Config struct {
	Addr        string
	MaxUploadMB   int64
	MaxUnpackedMB int64
	MaxRows       int
	PreviewRows   int
	SessionTTL    time.Duration
	LogLevel      string
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// MaxUnpackedBytes caps what an archive or workbook may decompress to.
func (c *Config) MaxUnpackedBytes() int64 {
	return c.MaxUnpackedMB << 20
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the process-wide configuration, loading it on first use.
func GetConfig() *Config {
	once.Do(func() {
		c, err := Load(".env")
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		config = c
	})
	return config
}

// Load reads envFile into the environment when it exists, then resolves the
// settings from EDA_* variables with defaults for anything unset.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("addr", ":8005")
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("max_unpacked_mb", 256)
	v.SetDefault("max_rows", 0)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("log_level", "INFO")

	c := &Config{
		Addr:          v.GetString("addr"),
		MaxUploadMB:   v.GetInt64("max_upload_mb"),
		MaxUnpackedMB: v.GetInt64("max_unpacked_mb"),
		MaxRows:       v.GetInt("max_rows"),
		PreviewRows:   v.GetInt("preview_rows"),
		SessionTTL:    v.GetDuration("session_ttl"),
		LogLevel:      v.GetString("log_level"),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return errors.New("config: EDA_ADDR must not be empty")
	case c.MaxUploadMB <= 0:
		return fmt.Errorf("config: EDA_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	case c.MaxUnpackedMB <= 0:
		return fmt.Errorf("config: EDA_MAX_UNPACKED_MB must be positive, got %d", c.MaxUnpackedMB)
	case c.MaxRows < 0:
		return fmt.Errorf("config: EDA_MAX_ROWS must not be negative, got %d", c.MaxRows)
	case c.PreviewRows <= 0:
		return fmt.Errorf("config: EDA_PREVIEW_ROWS must be positive, got %d", c.PreviewRows)
	case c.SessionTTL <= 0:
		return fmt.Errorf("config: EDA_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
