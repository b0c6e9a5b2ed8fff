package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/leonid6372/trades-pager/internal/pagerrs"
	"github.com/leonid6372/trades-pager/pkg/log"
)

const (
	EnvProd = "prod"
	EnvTest = "test"
)

type Config struct {
	Env string `yaml:"env" env:"ENV" env-upd:""`

	Log Log `yaml:"log"`

	Postgres Postgres `yaml:"postgres"`

	Redis Redis `yaml:"redis"`

	Pagination Pagination `yaml:"pagination"`

	Bot Bot `yaml:"bot"`

	API API `yaml:"api"`
}

type Log struct {
	Level    string `yaml:"level" env:"LOG_LEVEL" env-upd:"" env-default:"info"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-upd:"" env-default:"console"`
}

type Postgres struct {
	Database string `yaml:"database" env:"POSTGRES_DATABASE" env-upd:""`
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-upd:""`
	Schema   string `yaml:"schema" env:"POSTGRES_SCHEMA" env-upd:"" env-default:"trades_pager"`
	Username string `yaml:"username" env:"POSTGRES_USER" env-upd:""`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-upd:""`
	Port     int64  `yaml:"port" env:"POSTGRES_PORT" env-upd:"" env-default:"5432"`
}

// Redis keeps the loaded trade windows when enabled; otherwise they live in process memory.
type Redis struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-upd:""`
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-upd:""`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-upd:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-upd:""`
}

type Pagination struct {
	ItemsPerPage int `yaml:"items_per_page" env:"PAGINATION_ITEMS_PER_PAGE" env-upd:"" env-default:"10"`
	// BatchSize of 0 means one page per fetch.
	BatchSize   int           `yaml:"batch_size" env:"PAGINATION_BATCH_SIZE" env-upd:"" env-default:"30"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"PAGINATION_SESSION_TTL" env-upd:"" env-default:"30m"`
	LoadTimeout time.Duration `yaml:"load_timeout" env:"PAGINATION_LOAD_TIMEOUT" env-upd:"" env-default:"10s"`
}

type Bot struct {
	APIKey         string        `yaml:"api_key" env:"BOT_API_KEY" env-upd:""`
	Timeout        time.Duration `yaml:"timeout" env:"BOT_TIMEOUT" env-upd:"" env-default:"10s"`
	HandlerTimeout time.Duration `yaml:"handler_timeout" env:"BOT_HANDLER_TIMEOUT" env-upd:"" env-default:"15s"`
	Languages      []string      `yaml:"languages" env:"BOT_LANGUAGES" env-upd:"" env-default:"en,ru"`
}

type API struct {
	Port           string   `yaml:"port" env:"PORT" env-upd:"" env-default:"3000"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"API_ALLOWED_ORIGINS" env-upd:"" env-default:"http://localhost:3000"`
}

func (c *Config) GetPostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Postgres.Username, c.Postgres.Password, c.Postgres.Host, c.Postgres.Port, c.Postgres.Database)
}

func (c *Config) Validate() error {
	if c.Pagination.ItemsPerPage <= 0 {
		return fmt.Errorf("%w: items_per_page must be positive, got %d",
			pagerrs.ErrInvalidConfig, c.Pagination.ItemsPerPage)
	}

	if c.Pagination.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must not be negative, got %d",
			pagerrs.ErrInvalidConfig, c.Pagination.BatchSize)
	}

	if c.Pagination.SessionTTL <= 0 {
		return fmt.Errorf("%w: session_ttl must be positive", pagerrs.ErrInvalidConfig)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis addr is required when redis is enabled", pagerrs.ErrInvalidConfig)
	}

	return nil
}

// Load reads the YAML file at configPath, applies environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("%w: config path is required", pagerrs.ErrInvalidConfig)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := cleanenv.UpdateEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func GetConfig(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
