package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	flagConfig           = "config"
	flagEnvFile          = "env-file"
	flagDB               = "db"
	flagLogFile          = "log-file"
	flagLogLevel         = "log-level"
	flagLogFormat        = "log-format"
	flagBackupDir        = "backup-dir"
	flagGeminiModel      = "gemini-model"
	flagEstimatorTimeout = "estimator-timeout"
	flagReminderInterval = "reminder-interval"
)

// RegisterFlags defines the configuration flags on fs. Defaults shown in help
// are the built-in ones; only flags set on the command line override the
// JSON file and environment.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "path to a JSON config file")
	fs.String(flagEnvFile, "", "path to a .env file (default .env when present)")
	fs.StringP(flagDB, "d", d.DatabasePath, "SQLite database path")
	fs.String(flagLogFile, d.LogFile, "log file, empty logs to stderr")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.String(flagLogFormat, d.LogFormat, "log format: json or text")
	fs.String(flagBackupDir, d.BackupDir, "directory for backup exports")
	fs.String(flagGeminiModel, d.GeminiModel, "Gemini model used for meal estimates")
	fs.Duration(flagEstimatorTimeout, d.EstimatorTimeout, "timeout of one estimator attempt")
	fs.Duration(flagReminderInterval, d.ReminderCheckInterval, "how often reminders are checked")
}

func parseFlags(cfg *Config, fs *pflag.FlagSet) error {
	strs := map[string]*string{
		flagDB:          &cfg.DatabasePath,
		flagLogFile:     &cfg.LogFile,
		flagLogLevel:    &cfg.LogLevel,
		flagLogFormat:   &cfg.LogFormat,
		flagBackupDir:   &cfg.BackupDir,
		flagGeminiModel: &cfg.GeminiModel,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
		*dst = v
	}

	if fs.Changed(flagEstimatorTimeout) {
		v, err := fs.GetDuration(flagEstimatorTimeout)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", flagEstimatorTimeout, err)
		}
		cfg.EstimatorTimeout = v
	}
	if fs.Changed(flagReminderInterval) {
		v, err := fs.GetDuration(flagReminderInterval)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", flagReminderInterval, err)
		}
		cfg.ReminderCheckInterval = v
	}
	return nil
}
