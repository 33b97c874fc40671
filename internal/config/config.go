// Package config предоставляет структуры и функции для загрузки конфига companion-сервиса.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Backend         `yaml:"backend"`
	Identity        `yaml:"identity"`
	RedisConnection `yaml:"redis_connection"`
	Analytics       `yaml:"analytics"`
	Form            `yaml:"form"`
	Notice          `yaml:"notice"`
	Session         `yaml:"session"`
	RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Backend адрес внешнего API генератора резюме.
// Нулевой BackendTimeout означает таймаут транспорта по умолчанию.
type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:5000/api"`
	BackendTimeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT"`
}

// Identity хранилище email пользователя: "file" или "redis".
type Identity struct {
	Store    string `yaml:"store" env:"IDENTITY_STORE" env-default:"file"`
	FilePath string `yaml:"file_path" env:"IDENTITY_FILE" env-default:"./data/identity.json"`
	Key      string `yaml:"key" env-default:"resume-builder:user_email"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// Analytics настройки трекинга. AMQPURL включает зеркалирование событий в RabbitMQ.
type Analytics struct {
	Enabled    bool   `yaml:"enabled" env:"ANALYTICS_ENABLED"`
	AMQPURL    string `yaml:"amqp_url" env:"ANALYTICS_AMQP_URL"`
	Exchange   string `yaml:"exchange" env-default:"analytics"`
	RoutingKey string `yaml:"routing_key" env-default:"resume.events"`
}

// Form количество пустых записей, которыми засевается форма.
type Form struct {
	WorkDefaults      int `yaml:"work_defaults" env-default:"4"`
	EducationDefaults int `yaml:"education_defaults" env-default:"2"`
}

// Notice время показа пользовательского сообщения.
type Notice struct {
	TTL time.Duration `yaml:"ttl" env-default:"5s"`
}

// Session параметры жизненного цикла сессии.
type Session struct {
	ReloadDelay time.Duration `yaml:"reload_delay" env-default:"500ms"`
	PagePath    string        `yaml:"page_path" env-default:"/"`
}

// RateLimit ограничение частоты запросов к companion API.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// Load читает конфиг из YAML-файла по пути path. Перед чтением подгружается .env,
// если он есть в рабочей директории.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Backend:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Identity:\n"+
			"  Store: %s\n"+
			"  FilePath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Analytics:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.BaseURL,
		c.BackendTimeout,
		c.Store,
		c.FilePath,
		c.AddressRedis,
		c.DB,
		c.Analytics.Enabled,
		c.Exchange,
	)
}
