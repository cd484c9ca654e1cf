package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported identity providers.
const (
	AuthProviderJWKS     = "jwks"
	AuthProviderOIDC     = "oidc"
	AuthProviderFirebase = "firebase"
)

// Supported database drivers.
const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"`
	CORSOrigins   []string      `mapstructure:"-"`

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"`
	DBQueryTimeout    time.Duration `mapstructure:"-"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Identity provider
	AuthProvider          string        `mapstructure:"AUTH_PROVIDER"`
	AuthVerifyTimeout     time.Duration `mapstructure:"-"`
	AuthJWKSURL           string        `mapstructure:"AUTH_JWKS_URL"`
	AuthIssuer            string        `mapstructure:"AUTH_ISSUER"`
	AuthAudience          string        `mapstructure:"AUTH_AUDIENCE"`
	AuthAuthorizedParties []string      `mapstructure:"-"`
	OIDCIssuerURL         string        `mapstructure:"OIDC_ISSUER_URL"`
	OIDCClientID          string        `mapstructure:"OIDC_CLIENT_ID"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Cron Jobs
	ProjectStatusJobSchedule string `mapstructure:"PROJECT_STATUS_JOB_SCHEDULE"`

	// Elasticsearch Configuration
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.DBQueryTimeout = time.Duration(v.GetInt("DB_QUERY_TIMEOUT_SECONDS")) * time.Second
	cfg.AuthVerifyTimeout = time.Duration(v.GetInt("AUTH_VERIFY_TIMEOUT_SECONDS")) * time.Second
	cfg.CORSOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.AuthAuthorizedParties = splitList(v.GetString("AUTH_AUTHORIZED_PARTIES"))

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.AuthProvider = strings.ToLower(strings.TrimSpace(cfg.AuthProvider))

	// DB_SOURCE wins when set explicitly; otherwise postgres gets a DSN built from parts.
	if cfg.DBDriver == DBDriverPostgres && strings.TrimSpace(cfg.DBSource) == "" {
		cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("DB_DRIVER", DBDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "portfolio_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_QUERY_TIMEOUT_SECONDS", 5)
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("AUTH_PROVIDER", AuthProviderJWKS)
	v.SetDefault("AUTH_VERIFY_TIMEOUT_SECONDS", 5)
	v.SetDefault("AUTH_JWKS_URL", "")
	v.SetDefault("AUTH_ISSUER", "")
	v.SetDefault("AUTH_AUDIENCE", "")
	v.SetDefault("AUTH_AUTHORIZED_PARTIES", "")
	v.SetDefault("OIDC_ISSUER_URL", "")
	v.SetDefault("OIDC_CLIENT_ID", "")

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("PROJECT_STATUS_JOB_SCHEDULE", "@daily")

	// Empty disables search indexing; project search then falls back to the database.
	v.SetDefault("ELASTICSEARCH_URL", "")
}

// Validate checks the settings the selected drivers and providers depend on.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver == DBDriverSQLite && strings.TrimSpace(c.DBSource) == "" {
		return fmt.Errorf("DB_SOURCE is required when DB_DRIVER is %s", DBDriverSQLite)
	}

	switch c.AuthProvider {
	case AuthProviderJWKS:
		if strings.TrimSpace(c.AuthJWKSURL) == "" {
			return fmt.Errorf("AUTH_JWKS_URL is required when AUTH_PROVIDER is %s", AuthProviderJWKS)
		}
	case AuthProviderOIDC:
		if strings.TrimSpace(c.OIDCIssuerURL) == "" {
			return fmt.Errorf("OIDC_ISSUER_URL is required when AUTH_PROVIDER is %s", AuthProviderOIDC)
		}
	case AuthProviderFirebase:
		if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
			return fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_KEY_PATH is required when AUTH_PROVIDER is %s", AuthProviderFirebase)
		}
		if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
			return fmt.Errorf("firebase service account key file %s not found", c.FirebaseServiceAccountKeyPath)
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
