// Package config loads runtime configuration for the aura CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. Environment, including a .env file (see --env-file).
//  4. Command-line flags that were set explicitly.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "database_path": "aura.db",
//	  "log_file": "aura.log",
//	  "log_level": "info",
//	  "session_ttl": "720h",
//	  "reminder_check_interval": "1m",
//	  "gemini_model": "gemini-1.5-flash",
//	  "estimator_timeout": "30s",
//	  "estimator_retries": 2,
//	  "backup_dir": "backups",
//	  "s3": {"bucket": "aura", "region": "us-east-1", "base_endpoint": "http://localhost:9000"}
//	}
//
// # Environment
//
//	AURA_DB, AURA_LOG_FILE, AURA_LOG_LEVEL, AURA_LOG_FORMAT, AURA_SESSION_TTL,
//	AURA_BACKUP_DIR, AURA_GEMINI_MODEL, GEMINI_API_KEY (or API_KEY),
//	AURA_S3_BUCKET, AURA_S3_REGION, AURA_S3_ENDPOINT, AURA_S3_ACCESS_KEY,
//	AURA_S3_SECRET_KEY, AURA_S3_PREFIX
package config
