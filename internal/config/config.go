package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Logger     LoggerConfig
	Seed       SeedConfig
	CacheTTLs  CacheTTLConfig
	BcryptCost int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DBConfig selects the SQL driver. Driver is either "sqlite" or "postgres".
type DBConfig struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

type LoggerConfig struct {
	Env   string
	Level string
}

// SeedConfig holds the passwords given to the three demo accounts.
type SeedConfig struct {
	Enabled         bool
	AdminPassword   string
	TeacherPassword string
	StudentPassword string
}

type CacheTTLConfig struct {
	Stats time.Duration
	Draft time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.access_token_ttl", "12h")

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.admin_password", "admin123")
	v.SetDefault("seed.teacher_password", "teacher123")
	v.SetDefault("seed.student_password", "student123")

	v.SetDefault("cache_ttls.stats", "30s")
	v.SetDefault("cache_ttls.draft", "1h")

	v.SetDefault("bcrypt_cost", 10)
}

// LoadConfig reads config.yaml (if present) and environment overrides.
// DB_DRIVER overrides db.driver, JWT_SECRET_KEY overrides jwt.secret_key and so on.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		DB: DBConfig{
			Driver:      strings.ToLower(v.GetString("db.driver")),
			DSN:         v.GetString("db.dsn"),
			AutoMigrate: v.GetBool("db.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:      v.GetString("jwt.secret_key"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		Seed: SeedConfig{
			Enabled:         v.GetBool("seed.enabled"),
			AdminPassword:   v.GetString("seed.admin_password"),
			TeacherPassword: v.GetString("seed.teacher_password"),
			StudentPassword: v.GetString("seed.student_password"),
		},
		CacheTTLs: CacheTTLConfig{
			Stats: v.GetDuration("cache_ttls.stats"),
			Draft: v.GetDuration("cache_ttls.draft"),
		},
		BcryptCost: v.GetInt("bcrypt_cost"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db.driver %q (expected sqlite or postgres)", c.DB.Driver)
	}
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secret_key must be set")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return errors.New("jwt.access_token_ttl must be positive")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address must be set when redis is enabled")
	}
	return nil
}
