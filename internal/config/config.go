package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Images   ImagesConfig   `mapstructure:"images"   validate:"required"`
	Comments CommentsConfig `mapstructure:"comments"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSAllowedOrigins is passed to the CORS middleware as-is.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	// AuthRateLimit is the number of auth requests allowed per IP per minute.
	AuthRateLimit int `mapstructure:"auth_rate_limit" validate:"gte=0"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// ImagesConfig selects where image payloads live and how uploads are bounded.
//
// With Backend "database" the bytes are stored inline in the images table.
// With "s3" or "gcs" only the object key is stored and the bytes go to Bucket.
type ImagesConfig struct {
	Backend  string `mapstructure:"backend"   validate:"required,oneof=database s3 gcs"`
	MaxBytes int64  `mapstructure:"max_bytes" validate:"gt=0"`

	Bucket string `mapstructure:"bucket" validate:"required_unless=Backend database"`
	Prefix string `mapstructure:"prefix"`

	// S3 and S3-compatible (R2, MinIO) settings.
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`

	// CredentialsFile is a GCS service account JSON file. Empty means ADC.
	CredentialsFile string `mapstructure:"credentials_file"`

	// DefaultAvatarPath points at the image served for users without an avatar.
	// When empty or unreadable a generated placeholder is served instead.
	DefaultAvatarPath string `mapstructure:"default_avatar_path"`
}

// CommentsConfig holds comment listing policy.
type CommentsConfig struct {
	// StrictAdLookup makes listing comments of a missing ad fail with
	// a not-found error instead of returning an empty list.
	StrictAdLookup bool `mapstructure:"strict_ad_lookup"`
}
