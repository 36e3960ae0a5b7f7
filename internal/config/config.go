// Package config предоставялет структуры и функции для парсинга и загрузки конфига.
//
// Конфиг читается из YAML-файла (путь в CONFIG_PATH), а все секреты
// (строка подключения к БД, ключ JWT, пароли redis/smtp, адрес RabbitMQ)
// могут и должны переопределяться переменными окружения.
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
	Env                     string        `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AdminEmails             []string      `yaml:"admin_emails" env:"ADMIN_EMAILS" env-separator:","`
	CacheTTL                time.Duration `yaml:"cache_ttl" env-default:"1h"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWTToken                `yaml:"jwttoken"`
	RateLimit               `yaml:"rate_limit"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP    string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP    time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"5s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeout"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RateLimit настройки ограничения попыток входа и общего потока запросов.
type RateLimit struct {
	Backend           string        `yaml:"backend" env:"RATE_LIMIT_BACKEND" env-default:"memory"`
	Window            time.Duration `yaml:"window" env-default:"300s"`
	MaxAttempts       int           `yaml:"max_attempts" env-default:"5"`
	MaxKeys           int           `yaml:"max_keys" env-default:"100000"`
	SweepInterval     time.Duration `yaml:"sweep_interval" env-default:"1m"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env-default:"50"`
	Burst             int           `yaml:"burst" env-default:"100"`
}

// RabbitMQ настройки подключения к брокеру. Пустой URL отключает публикацию событий.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	MaxRetries int           `yaml:"max_retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP настройки почтового сервера для отправки подтверждений бронирования.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
	// ImplicitTLS включает TLS сразу при подключении (SMTPS), порт 465 включает его всегда.
	ImplicitTLS bool          `yaml:"implicit_tls" env:"SMTP_IMPLICIT_TLS"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
}

// Load читает конфиг из файла path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.RateLimit.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// validate отклоняет значения, при которых ограничитель попыток входа
// блокировал бы всех или никого.
func (r RateLimit) validate() error {
	switch {
	case r.Window <= 0:
		return fmt.Errorf("rate_limit.window must be positive, got %s", r.Window)
	case r.MaxAttempts <= 0:
		return fmt.Errorf("rate_limit.max_attempts must be positive, got %d", r.MaxAttempts)
	case r.SweepInterval <= 0:
		return fmt.Errorf("rate_limit.sweep_interval must be positive, got %s", r.SweepInterval)
	}
	return nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH, завершает процесс при ошибке.
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

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  RequestTimeout: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RateLimit:\n"+
			"  Backend: %s\n"+
			"  Window: %s\n"+
			"  MaxAttempts: %d\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RequestTimeout,
		c.AddressRedis,
		c.DB,
		c.Backend,
		c.Window,
		c.MaxAttempts,
		c.TokenTTL,
	)
}
