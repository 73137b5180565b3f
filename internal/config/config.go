package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	RepositoryInMemory = "inmemory"
	RepositoryPostgres = "postgres"
	RepositorySQLite   = "sqlite"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Pagination PaginationConfig `yaml:"pagination"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int32         `yaml:"max_connections"`
	MinConnections int32         `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "inmemory", "postgres" или "sqlite"
}

type PaginationConfig struct {
	DefaultSize int `yaml:"default_size"`
	MaxSize     int `yaml:"max_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"` // 0 - без ограничения
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 1,
			IdleTimeout:    5 * time.Minute,
		},
		SQLite:     SQLiteConfig{Path: "todos.db"},
		Repository: RepositoryConfig{Type: RepositoryInMemory},
		Pagination: PaginationConfig{DefaultSize: 20, MaxSize: 100},
		CORS:       CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit:  RateLimitConfig{RequestsPerMinute: 100},
	}
}

// Load читает yaml поверх значений по умолчанию, затем применяет переменные окружения.
// Отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if value, ok := os.LookupEnv("TODO_SERVER_PORT"); ok {
		c.Server.Port = value
	}
	if value, ok := os.LookupEnv("TODO_REPOSITORY_TYPE"); ok {
		c.Repository.Type = value
	}
	if value, ok := os.LookupEnv("TODO_DATABASE_URL"); ok {
		c.Database.URL = value
	}
	if value, ok := os.LookupEnv("TODO_SQLITE_PATH"); ok {
		c.SQLite.Path = value
	}
	if value, ok := os.LookupEnv("TODO_LOG_DEVELOPMENT"); ok {
		development, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("TODO_LOG_DEVELOPMENT: %w", err)
		}
		c.Logging.Development = development
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("для postgres нужен database.url")
		}
	case RepositorySQLite:
		if c.SQLite.Path == "" {
			return errors.New("для sqlite нужен sqlite.path")
		}
	default:
		return fmt.Errorf("неизвестный тип репозитория: %q", c.Repository.Type)
	}

	if c.Server.Port == "" {
		return errors.New("не задан server.port")
	}
	if c.Pagination.DefaultSize <= 0 || c.Pagination.MaxSize <= 0 {
		return errors.New("размеры страницы должны быть положительными")
	}
	if c.Pagination.DefaultSize > c.Pagination.MaxSize {
		return fmt.Errorf("pagination.default_size (%d) больше max_size (%d)",
			c.Pagination.DefaultSize, c.Pagination.MaxSize)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return errors.New("rate_limit.requests_per_minute не может быть отрицательным")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
