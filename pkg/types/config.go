package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseSchema  string `envconfig:"DATABASE_SCHEMA" default:"sponsors"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Where the route groups are mounted on the host mux
	MountPrefix string `envconfig:"MOUNT_PREFIX" default:"/sponsors"`
	MediaPrefix string `envconfig:"MEDIA_PREFIX" default:"/media"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// RolesClaim names the JWT claim carrying the caller's capabilities.
	// When the claim is absent the groups are looked up in Cognito.
	RolesClaim string `envconfig:"ROLES_CLAIM" default:"cognito:groups"`
	AdminRole  string `envconfig:"ADMIN_ROLE" default:"admin"`

	// Access token cookie set by the host application
	CookieName string `envconfig:"ACCESS_TOKEN_COOKIE" default:"access_token"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Media storage
	S3BucketName   string `envconfig:"S3_BUCKET_NAME"`
	S3KeyPrefix    string `envconfig:"S3_KEY_PREFIX" default:"sponsors/"`
	MediaURLTTLSec uint   `envconfig:"MEDIA_URL_TTL_SEC" default:"900"`
}
