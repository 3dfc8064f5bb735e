package services

// Storage keys. Per-account records are namespaced by the account id; the
// legacy keys are fixed so migration finds them exactly once.
const (
	keyPrefix = "aura_"

	accountsKey      = "aura_accounts"
	sessionKey       = "aura_session"
	sessionSecretKey = "aura_session_secret"

	legacyProfileKey = "aura_user_profile"
	legacyLogsKey    = "aura_daily_logs"

	accountKeyPrefix = "aura_user_"
)

func profileKey(accountID string) string {
	return accountKeyPrefix + accountID + "_profile"
}

func logsKey(accountID string) string {
	return accountKeyPrefix + accountID + "_logs"
}
