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

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int           `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	StaticDir      string        `mapstructure:"static_dir"`
	BasePath       string        `mapstructure:"base_path"`
}

// IsProduction reports whether the API runs with production defaults.
func (a APIConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(a.Environment), "production")
}

// DatabaseConfig contains connection options for the relational store.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// MySQLDSN builds a go-sql-driver/mysql connection string (MariaDB compatible).
func (d DatabaseConfig) MySQLDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

// RedisConfig 包含 Redis 连接配置，Host 为空时禁用登录限流。
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

// Enabled reports whether a redis host is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != ""
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// AuthConfig 包含令牌签名密钥与登录保护参数。
type AuthConfig struct {
	PrivateKeyPath        string        `mapstructure:"private_key_path"`
	PublicKeyPath         string        `mapstructure:"public_key_path"`
	TokenTTL              time.Duration `mapstructure:"token_ttl"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
	RegistrationRoles     []string      `mapstructure:"registration_roles"`
}

// UploadConfig contains limits for multipart uploads.
type UploadConfig struct {
	MaxBytes  int64  `mapstructure:"max_bytes"`
	ClamdAddr string `mapstructure:"clamd_addr"`
}

// Load reads configuration from an optional .env file and environment variables (with defaults).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.API.CORSOrigins = splitList(cfg.API.CORSOrigins)
	cfg.Auth.RegistrationRoles = splitList(cfg.Auth.RegistrationRoles)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDatabase 只读取数据库配置，供 CLI 工具使用，不要求存储或密钥配置。
func LoadDatabase() (DatabaseConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return DatabaseConfig{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return DatabaseConfig{}, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DatabaseConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return DatabaseConfig{}, err
	}
	return cfg.Database, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.request_timeout", 15*time.Second)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.static_dir", "")
	v.SetDefault("api.base_path", "/")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "hkexpatjobs")
	v.SetDefault("database.user", "hkexpatjobs")
	v.SetDefault("database.password", "hkexpatjobs")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "uploads")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("auth.private_key_path", "keys/jwt_private.pem")
	v.SetDefault("auth.public_key_path", "keys/jwt_public.pem")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.login_rate_limit_per_hour", 20)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl", 15*time.Minute)
	v.SetDefault("auth.registration_roles", []string{"applicant", "recruiter", "admin"})
	v.SetDefault("upload.max_bytes", 10*1024*1024)
	v.SetDefault("upload.clamd_addr", "")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
		"api.environment":                "APP_ENV",
		"api.request_timeout":            "API_REQUEST_TIMEOUT",
		"api.cors_origins":               "API_CORS_ORIGINS",
		"api.static_dir":                 "API_STATIC_DIR",
		"api.base_path":                  "API_BASE_PATH",
		"database.driver":                "DATABASE_DRIVER",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"redis.password":                 "REDIS_PASSWORD",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.public_endpoint":          "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":            "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":        "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.bucket":                   "MINIO_BUCKET",
		"minio.region":                   "MINIO_REGION",
		"minio.bucket_lookup":            "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":       "MINIO_AUTO_CREATE_BUCKET",
		"auth.private_key_path":          "AUTH_PRIVATE_KEY_PATH",
		"auth.public_key_path":           "AUTH_PUBLIC_KEY_PATH",
		"auth.token_ttl":                 "AUTH_TOKEN_TTL",
		"auth.login_rate_limit_per_hour": "AUTH_LOGIN_RATE_LIMIT_PER_HOUR",
		"auth.login_lock_threshold":      "AUTH_LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl":            "AUTH_LOGIN_LOCK_TTL",
		"auth.registration_roles":        "AUTH_REGISTRATION_ROLES",
		"upload.max_bytes":               "UPLOAD_MAX_BYTES",
		"upload.clamd_addr":              "UPLOAD_CLAMD_ADDR",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

// splitList flattens comma separated entries; env vars arrive as a single element.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.RequestTimeout <= 0 {
		return errors.New("api request timeout must be positive")
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return err
	}
	if cfg.Redis.Enabled() && cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Auth.PrivateKeyPath == "" || cfg.Auth.PublicKeyPath == "" {
		return errors.New("auth key paths are required")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	if len(cfg.Auth.RegistrationRoles) == 0 {
		return errors.New("at least one registration role is required")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	switch strings.ToLower(d.Driver) {
	case "postgres", "mysql", "mariadb":
	default:
		return fmt.Errorf("unsupported database driver %q", d.Driver)
	}
	if d.Host == "" {
		return errors.New("database host is required")
	}
	if d.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if d.Name == "" {
		return errors.New("database name is required")
	}
	if d.User == "" {
		return errors.New("database user is required")
	}
	if d.Password == "" {
		return errors.New("database password is required")
	}
	return nil
}
