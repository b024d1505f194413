package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	LocalDB   DatabaseConfig
	MasterDB  DatabaseConfig
	Master    MasterSchema
	Signing   SigningConfig
	SSO       SSOConfig
	Email     EmailConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	App       AppConfig
	Log       LogConfig
	Vault     VaultConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	Pincode   PincodeConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string
	Port         string
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
	TimeoutIdle  time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Label           string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Configured reports whether a host was supplied for this connection.
func (c DatabaseConfig) Configured() bool {
	return strings.TrimSpace(c.Host) != ""
}

// SigningConfig holds the secret and lifetimes used for signed payloads
type SigningConfig struct {
	Secret              string
	PatientLinkMaxAge   time.Duration
	PasswordSetupMaxAge time.Duration
}

// SSOConfig holds the shared-secret JWT handoff settings
type SSOConfig struct {
	SharedSecret     string
	ExpectedIssuer   string
	ExpectedAudience string
	CookieName       string
	CookieSecure     bool
}

// EmailConfig holds email-related configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	Subject      string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Duration time.Duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	Env                 string
	Name                string
	Version             string
	SiteBaseURL         string
	WhatsAppCountryCode string
	MigrationsPath      string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// VaultConfig holds Vault-related configuration
type VaultConfig struct {
	Address    string
	Token      string
	KVMount    string
	SecretPath string
	Enabled    bool
}

// RedisConfig holds the catalog cache connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CatalogConfig holds catalog cache settings
type CatalogConfig struct {
	CacheTTL  time.Duration
	KeyPrefix string
}

// PincodeConfig holds PIN directory and district lookup settings
type PincodeConfig struct {
	DirectoryPath       string
	DistrictLookupURL   string
	DistrictLookupOn    bool
	DistrictLookupLimit time.Duration
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	MirrorResyncEnabled  bool
	MirrorResyncInterval time.Duration
	TaskTimeout          time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// godotenv doesn't override already-set variables, so order matters
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnv("SERVER_PORT", "8080"),
			TimeoutRead:  getDurationEnv("SERVER_TIMEOUT_READ", 15*time.Second),
			TimeoutWrite: getDurationEnv("SERVER_TIMEOUT_WRITE", 15*time.Second),
			TimeoutIdle:  getDurationEnv("SERVER_TIMEOUT_IDLE", 60*time.Second),
		},
		LocalDB: loadDatabase("local", "DB_", "localhost", "portal", "portal_db"),
		MasterDB: loadDatabase("master", "MASTER_DB_", "", "master", "master_db"),
		Master:   LoadMasterSchema(),
		Signing: SigningConfig{
			Secret:              getEnv("SIGNING_SECRET", ""),
			PatientLinkMaxAge:   getDurationEnv("PATIENT_LINK_MAX_AGE", 7*24*time.Hour),
			PasswordSetupMaxAge: getDurationEnv("PASSWORD_SETUP_MAX_AGE", 72*time.Hour),
		},
		SSO: SSOConfig{
			SharedSecret:     getEnv("SSO_SHARED_SECRET", ""),
			ExpectedIssuer:   getEnv("SSO_EXPECTED_ISSUER", "project1"),
			ExpectedAudience: getEnv("SSO_EXPECTED_AUDIENCE", "project2"),
			CookieName:       getEnv("SSO_COOKIE_NAME", "sso_token"),
			CookieSecure:     getBoolEnv("SSO_COOKIE_SECURE", true),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
			Subject:      getEnv("EMAIL_DOCTOR_LINKS_SUBJECT", "CPD in Clinic portal access"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "OPTIONS"}),
			AllowedHeaders:   getSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
			ExposedHeaders:   getSliceEnv("CORS_EXPOSED_HEADERS", []string{"Location"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getIntEnv("CORS_MAX_AGE", 300),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getBoolEnv("RATE_LIMIT_ENABLED", true),
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			Duration: getDurationEnv("RATE_LIMIT_DURATION", 1*time.Minute),
		},
		App: AppConfig{
			Env:                 getEnv("APP_ENV", "development"),
			Name:                getEnv("APP_NAME", "ClinicPortal"),
			Version:             getEnv("APP_VERSION", "1.0.0"),
			SiteBaseURL:         strings.TrimRight(getEnv("SITE_BASE_URL", "http://localhost:8080"), "/"),
			WhatsAppCountryCode: getEnv("WHATSAPP_COUNTRY_CODE", "91"),
			MigrationsPath:      getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Vault: VaultConfig{
			Address:    getEnv("VAULT_ADDR", "http://localhost:8200"),
			Token:      getEnv("VAULT_TOKEN", ""),
			KVMount:    getEnv("VAULT_KV_MOUNT", "secret"),
			SecretPath: getEnv("VAULT_SECRET_PATH", "clinic-portal"),
			Enabled:    getBoolEnv("VAULT_ENABLED", false),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Catalog: CatalogConfig{
			CacheTTL:  time.Duration(getIntEnv("CATALOG_CACHE_SECONDS", 3600)) * time.Second,
			KeyPrefix: getEnv("CATALOG_CACHE_PREFIX", "clinic-portal:catalog:"),
		},
		Pincode: PincodeConfig{
			DirectoryPath:       getEnv("PINCODE_DIRECTORY_PATH", "./data/india_pincode_directory.json"),
			DistrictLookupURL:   getEnv("PINCODE_DISTRICT_LOOKUP_URL", "https://api.postalpincode.in"),
			DistrictLookupOn:    getEnv("PINCODE_DISTRICT_LOOKUP_MODE", "india_post_api") != "none",
			DistrictLookupLimit: getDurationEnv("PINCODE_DISTRICT_LOOKUP_TIMEOUT", 3*time.Second),
		},
		Scheduler: SchedulerConfig{
			MirrorResyncEnabled:  getBoolEnv("SCHEDULER_MIRROR_RESYNC_ENABLED", true),
			MirrorResyncInterval: getDurationEnv("SCHEDULER_MIRROR_RESYNC_INTERVAL", 15*time.Minute),
			TaskTimeout:          getDurationEnv("SCHEDULER_TASK_TIMEOUT", 2*time.Minute),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDatabase(label, prefix, defaultHost, defaultUser, defaultName string) DatabaseConfig {
	return DatabaseConfig{
		Label:           label,
		Host:            getEnv(prefix+"HOST", defaultHost),
		Port:            getEnv(prefix+"PORT", "5432"),
		User:            getEnv(prefix+"USER", defaultUser),
		Password:        getEnv(prefix+"PASSWORD", ""),
		Name:            getEnv(prefix+"NAME", defaultName),
		SSLMode:         getEnv(prefix+"SSLMODE", "disable"),
		MaxOpenConns:    getIntEnv(prefix+"MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getIntEnv(prefix+"MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getDurationEnv(prefix+"CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Signing.Secret == "" && !c.Vault.Enabled {
		return fmt.Errorf("SIGNING_SECRET is required when Vault is disabled")
	}
	if c.LocalDB.Password == "" && c.App.Env == "production" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}
	if c.Vault.Enabled && c.Vault.Token == "" {
		return fmt.Errorf("VAULT_TOKEN is required when VAULT_ENABLED is set")
	}
	if err := c.Master.Validate(); err != nil {
		return fmt.Errorf("invalid master schema: %w", err)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, v := range parts {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
