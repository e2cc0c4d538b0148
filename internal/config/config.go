package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	defaultConfigPath = "config/config.yaml"
	defaultPort       = 4000
	defaultJWTTTL     = 60
	defaultJobsTTL    = 60
)

type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
	Env  string `yaml:"env" env:"SERVER_ENV"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"` // postgres, mysql, sqlite
	DSN    string `yaml:"url" env:"DATABASE_URL"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret" env:"JWT_SECRET"`
	TTLMinutes int    `yaml:"ttl" env:"JWT_TTL_MINUTES"`
}

type RedisConfig struct {
	Addr          string `yaml:"addr" env:"REDIS_ADDR"`
	Password      string `yaml:"password" env:"REDIS_PASSWORD"`
	DB            int    `yaml:"db" env:"REDIS_DB"`
	JobsTTLSecond int    `yaml:"jobs_ttl" env:"REDIS_JOBS_TTL"`
	// WarmSecond is how often the listing cache is rebuilt; 0 disables.
	WarmSecond int `yaml:"jobs_warm_interval" env:"REDIS_JOBS_WARM_INTERVAL"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type RateLimitConfig struct {
	LoginPerSecond float64 `yaml:"login_per_second" env:"RATE_LIMIT_LOGIN_RPS"`
	LoginBurst     int     `yaml:"login_burst" env:"RATE_LIMIT_LOGIN_BURST"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

var AppConfig *Config

// Load reads .env, then the YAML file, then environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	if err := readYAML(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("config file %s not found, using environment and defaults", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Sanitize applies defaults and guardrails.
func (c *Config) Sanitize() {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = defaultPort
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}

	if c.JWT.TTLMinutes <= 0 {
		c.JWT.TTLMinutes = defaultJWTTTL
	}
	if c.Redis.JobsTTLSecond <= 0 {
		c.Redis.JobsTTLSecond = defaultJobsTTL
	}
	if c.Redis.WarmSecond < 0 {
		c.Redis.WarmSecond = 0
	}

	if c.RateLimit.LoginPerSecond <= 0 {
		c.RateLimit.LoginPerSecond = 1
	}
	if c.RateLimit.LoginBurst <= 0 {
		c.RateLimit.LoginBurst = 5
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database url is required (database.url or DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (jwt.secret or JWT_SECRET)")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.TTLMinutes) * time.Minute
}

func (c *Config) JobsCacheTTL() time.Duration {
	return time.Duration(c.Redis.JobsTTLSecond) * time.Second
}

func (c *Config) JobsWarmInterval() time.Duration {
	return time.Duration(c.Redis.WarmSecond) * time.Second
}

// LoadConfig loads into AppConfig and exits on failure.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
