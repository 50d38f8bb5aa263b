package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Object storage for uploaded profile documents
	S3BucketName        string `envconfig:"S3_BUCKET_NAME" default:"profile-documents"`
	S3PresignExpirySec  uint   `envconfig:"S3_PRESIGN_EXPIRY_SEC" default:"900"`
	MaxUploadSizeMB     int64  `envconfig:"MAX_UPLOAD_SIZE_MB" default:"32"`

	// Document service endpoint consumed by the docs CLI commands
	DocumentServiceURL   string `envconfig:"DOCUMENT_SERVICE_URL" default:"http://localhost:8080"`
	DocumentServiceToken string `envconfig:"DOCUMENT_SERVICE_TOKEN"`

	// Auth Configuration
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"session_id"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"604800"` // 7 days

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
