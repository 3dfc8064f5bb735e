package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/aura/internal/timex"
)

// JSONConfig is a DTO used only for unmarshalling. Absent or zero fields
// leave the current value untouched.
type JSONConfig struct {
	DatabasePath          string         `json:"database_path"`
	LogFile               string         `json:"log_file"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
	SessionTTL            timex.Duration `json:"session_ttl"`
	ReminderCheckInterval timex.Duration `json:"reminder_check_interval"`
	GeminiModel           string         `json:"gemini_model"`
	EstimatorTimeout      timex.Duration `json:"estimator_timeout"`
	EstimatorRetries      *uint64        `json:"estimator_retries"`
	BackupDir             string         `json:"backup_dir"`
	S3                    struct {
		Bucket       string `json:"bucket"`
		Region       string `json:"region"`
		BaseEndpoint string `json:"base_endpoint"`
		Prefix       string `json:"prefix"`
	} `json:"s3"`
}

func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.GeminiModel, jc.GeminiModel)
	setString(&cfg.BackupDir, jc.BackupDir)
	setString(&cfg.S3Bucket, jc.S3.Bucket)
	setString(&cfg.S3Region, jc.S3.Region)
	setString(&cfg.S3BaseEndpoint, jc.S3.BaseEndpoint)
	setString(&cfg.S3Prefix, jc.S3.Prefix)

	if jc.SessionTTL.Duration > 0 {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.ReminderCheckInterval.Duration > 0 {
		cfg.ReminderCheckInterval = jc.ReminderCheckInterval.Duration
	}
	if jc.EstimatorTimeout.Duration > 0 {
		cfg.EstimatorTimeout = jc.EstimatorTimeout.Duration
	}
	if jc.EstimatorRetries != nil {
		cfg.EstimatorRetries = *jc.EstimatorRetries
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
