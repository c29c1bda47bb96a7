package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported storage backends.
const (
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

const defaultJWTSecret = "dev_secret"

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Server   ServerConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Features FeatureConfig
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

// MongoConfig holds the document store connection settings used when Driver is mongodb.
type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig groups session cookie and credential hashing options.
type AuthConfig struct {
	CookieName      string
	CookieDomain    string
	HardenedSetup   bool
	StrictAdminRole bool
	HashAlgorithm   string
	BcryptCost      int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FeatureConfig toggles operational endpoints.
type FeatureConfig struct {
	Metrics bool
	Docs    bool
}

// IsDevelopment reports whether the process runs on a developer machine.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// ServerMode is the gin mode for the environment. Only development runs in
// debug mode, where error responses carry the wrapped cause.
func (c *Config) ServerMode() string {
	if c.IsDevelopment() {
		return "debug"
	}
	return "release"
}

// IsProduction reports whether the deployment is hardened.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = strings.ToLower(v.GetString("ENV"))
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Server = ServerConfig{
		ReadTimeout:     parseDuration(v.GetString("SERVER_READ_TIMEOUT"), 15*time.Second),
		WriteTimeout:    parseDuration(v.GetString("SERVER_WRITE_TIMEOUT"), 15*time.Second),
		ShutdownTimeout: parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 15*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Mongo = MongoConfig{
		URI:      v.GetString("MONGODB_URI"),
		Database: v.GetString("MONGODB_DATABASE"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	hardened := cfg.IsProduction()
	if v.IsSet("AUTH_HARDENED_SETUP") && v.GetString("AUTH_HARDENED_SETUP") != "" {
		hardened = v.GetBool("AUTH_HARDENED_SETUP")
	}
	cfg.Auth = AuthConfig{
		CookieName:      v.GetString("AUTH_COOKIE_NAME"),
		CookieDomain:    v.GetString("AUTH_COOKIE_DOMAIN"),
		HardenedSetup:   hardened,
		StrictAdminRole: v.GetBool("AUTH_STRICT_ADMIN_ROLE"),
		HashAlgorithm:   strings.ToLower(v.GetString("PASSWORD_HASH_ALGORITHM")),
		BcryptCost:      v.GetInt("BCRYPT_COST"),
	}

	origins := splitAndTrim(v.GetString("ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = defaultOrigins(cfg.IsProduction(), v.GetString("FRONTEND_URL"))
	}
	cfg.CORS = CORSConfig{AllowedOrigins: origins}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Features = FeatureConfig{
		Metrics: v.GetBool("ENABLE_METRICS"),
		Docs:    v.GetBool("ENABLE_DOCS") && !cfg.IsProduction(),
	}

	return cfg
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMongoDB:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Auth.HashAlgorithm {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("config: unsupported PASSWORD_HASH_ALGORITHM %q", c.Auth.HashAlgorithm)
	}
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("config: JWT_SECRET must be overridden in production")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("config: JWT_EXPIRATION must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "centerkech")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "centerkech")

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "centerkech-api")

	v.SetDefault("AUTH_COOKIE_NAME", "token")
	v.SetDefault("AUTH_COOKIE_DOMAIN", "")
	v.SetDefault("AUTH_STRICT_ADMIN_ROLE", false)
	v.SetDefault("PASSWORD_HASH_ALGORITHM", "bcrypt")
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_DOCS", true)
}

func defaultOrigins(production bool, frontendURL string) []string {
	if production {
		return splitAndTrim(frontendURL)
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
