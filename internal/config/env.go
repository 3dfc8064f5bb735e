package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays cfg with environment variables. Values from envFile are
// used only when the process environment does not set the same name. A
// missing default .env is not an error.
func parseEnv(cfg *Config, envFile string) error {
	file := envFile
	if file == "" {
		file = defaultEnvFile
	}

	fileVars, err := godotenv.Read(file)
	if err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read env file %s: %w", file, err)
		}
		fileVars = map[string]string{}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}

	setString(&cfg.DatabasePath, lookup("AURA_DB"))
	setString(&cfg.LogFile, lookup("AURA_LOG_FILE"))
	setString(&cfg.LogLevel, lookup("AURA_LOG_LEVEL"))
	setString(&cfg.LogFormat, lookup("AURA_LOG_FORMAT"))
	setString(&cfg.BackupDir, lookup("AURA_BACKUP_DIR"))
	setString(&cfg.GeminiModel, lookup("AURA_GEMINI_MODEL"))

	setString(&cfg.GeminiAPIKey, lookup("API_KEY"))
	setString(&cfg.GeminiAPIKey, lookup("GEMINI_API_KEY"))

	setString(&cfg.S3Bucket, lookup("AURA_S3_BUCKET"))
	setString(&cfg.S3Region, lookup("AURA_S3_REGION"))
	setString(&cfg.S3BaseEndpoint, lookup("AURA_S3_ENDPOINT"))
	setString(&cfg.S3AccessKey, lookup("AURA_S3_ACCESS_KEY"))
	setString(&cfg.S3SecretKey, lookup("AURA_S3_SECRET_KEY"))
	setString(&cfg.S3Prefix, lookup("AURA_S3_PREFIX"))

	if v := lookup("AURA_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AURA_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	return nil
}
