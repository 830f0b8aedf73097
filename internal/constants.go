package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "revive_access_token"

	DB_SCHEMA = "revive"

	NOTIFICATION_INBOX_LIMIT = 50
)
