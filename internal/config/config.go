// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitConnection        `yaml:"rabbit_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Admin                   `yaml:"admin"`
	SMSGateway              `yaml:"sms_gateway"`
	PaymentProvider         `yaml:"payment_provider"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitConnection структура для настройки подключения к RabbitMQ.
type RabbitConnection struct {
	RabbitURL        string        `yaml:"rabbit_url" env:"RABBIT_URL"`
	OrderExchange    string        `yaml:"order_exchange" env-default:"orders"`
	OrderQueue       string        `yaml:"order_queue" env-default:"orders.created"`
	RabbitMaxRetries int           `yaml:"rabbit_max_retries" env-default:"5"`
	RabbitRetryDelay time.Duration `yaml:"rabbit_retry_delay" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Admin учетные данные администратора ресторана.
type Admin struct {
	AdminUsername     string `yaml:"admin_username" env:"ADMIN_USERNAME" env-default:"admin"`
	AdminPasswordHash string `yaml:"admin_password_hash" env:"ADMIN_PASSWORD_HASH"`
	AdminEmail        string `yaml:"admin_email" env:"ADMIN_EMAIL"`
}

// SMSGateway структура для настройки внешнего SMS-шлюза.
// В демо-режиме сообщения не отправляются, код пишется в лог.
type SMSGateway struct {
	SMSAPIURL   string        `yaml:"sms_api_url" env:"SMS_API_URL"`
	SMSAPIKey   string        `yaml:"sms_api_key" env:"SMS_API_KEY"`
	SMSSender   string        `yaml:"sms_sender" env-default:"RESTORAN"`
	SMSDemoMode bool          `yaml:"sms_demo_mode" env:"SMS_DEMO_MODE" env-default:"true"`
	SMSTimeout  time.Duration `yaml:"sms_timeout" env-default:"10s"`
	CodeTTL     time.Duration `yaml:"code_ttl" env-default:"5m"`
}

// PaymentProvider структура для настройки платёжного провайдера ЮKassa.
type PaymentProvider struct {
	ShopID        string `yaml:"shop_id" env:"PAYMENT_SHOP_ID"`
	SecretKey     string `yaml:"secret_key" env:"PAYMENT_SECRET_KEY"`
	PaymentAPIURL string `yaml:"payment_api_url" env-default:"https://api.yookassa.ru/v3"`
	WebhookSecret string `yaml:"webhook_secret" env:"PAYMENT_WEBHOOK_SECRET"`
	ReturnURL     string `yaml:"return_url"`
}

// SMTP структура для настройки отправки почтовых уведомлений.
type SMTP struct {
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     string `yaml:"smtp_port" env-default:"587"`
	SMTPUser     string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
// Строка подключения к базе обязательна, остальные секции имеют значения по умолчанию.
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
	if cfg.StorageConnectionString == "" {
		log.Fatal("storage_connection_string is not set")
	}
	return &cfg
}
