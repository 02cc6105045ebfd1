// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CatalogTTL   time.Duration `yaml:"catalog_ttl" env-default:"1h"`
}

// RabbitMQ структура для настройки входящего потока уведомлений.
// Потребитель по умолчанию выключен и включается явно в конфиге.
type RabbitMQ struct {
	Enabled           bool          `yaml:"enabled" env-default:"false"`
	AddressRabbitMQ   string        `yaml:"addressrabbitmq"`
	ConnectRetries    int           `yaml:"connect_retries" env-default:"5"`
	ConnectRetryDelay time.Duration `yaml:"connect_retry_delay" env-default:"3s"`
}

// RateLimit структура для настройки ограничения частоты запросов.
// Rules задают полосы для префиксов путей, Default применяется к остальным путям.
type RateLimit struct {
	Default RateLimitRule   `yaml:"default"`
	Rules   []RateLimitRule `yaml:"rules"`
}

// RateLimitRule — полоса пропускания для префикса пути:
// Tokens запросов на окно Window с одного адреса клиента.
type RateLimitRule struct {
	Prefix string        `yaml:"prefix"`
	Tokens int           `yaml:"tokens" env-default:"50"`
	Window time.Duration `yaml:"window" env-default:"1m"`
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из переменной CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"  CatalogTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Addr: %s\n"+
			"RateLimit:\n"+
			"  Default: %d per %s\n"+
			"  Rules: %d\n",
		c.Env,
		c.StorageConnectionString,
		c.MigrationsPath,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.CatalogTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.Enabled,
		c.AddressRabbitMQ,
		c.RateLimit.Default.Tokens,
		c.RateLimit.Default.Window,
		len(c.RateLimit.Rules),
	)
}
