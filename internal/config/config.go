package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings for the aura CLI.
type Config struct {
	DatabasePath string

	LogFile   string
	LogLevel  string
	LogFormat string

	SessionTTL            time.Duration
	ReminderCheckInterval time.Duration

	GeminiAPIKey     string
	GeminiModel      string
	EstimatorTimeout time.Duration
	EstimatorRetries uint64

	BackupDir      string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "aura.db"
	c.LogFile = "aura.log"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.SessionTTL = 30 * 24 * time.Hour
	c.ReminderCheckInterval = time.Minute
	c.GeminiModel = "gemini-1.5-flash"
	c.EstimatorTimeout = 30 * time.Second
	c.EstimatorRetries = 2
	c.BackupDir = "backups"
	c.S3Region = "us-east-1"
}

// S3Enabled reports whether backups should also go to S3.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and the flags registered on fs with RegisterFlags. fs must be parsed.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, _ := fs.GetString(flagConfig)
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}

	envFile, _ := fs.GetString(flagEnvFile)
	if err := parseEnv(cfg, envFile); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs); err != nil {
		return nil, err
	}
	return cfg, nil
}
