package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer    HTTPServer    `yaml:"http_server"`
	DB            DB            `yaml:"db"`
	Redis         Redis         `yaml:"redis"`
	FileStorage   FileStorage   `yaml:"file_storage"`
	RemoteStorage RemoteStorage `yaml:"remote_storage"`
	Permissions   Permissions   `yaml:"permissions"`
	Editor        Editor        `yaml:"editor"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
	DB       string `yaml:"database" env:"DB_NAME" env-required:"true"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type FileStorage struct {
	Path string `yaml:"path" env:"FILE_STORAGE_PATH" env-required:"true"`
}

type RemoteStorage struct {
	BaseURL string        `yaml:"base_url" env:"REMOTE_STORAGE_URL" env-required:"true"`
	Token   string        `yaml:"token" env:"REMOTE_STORAGE_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

type Permissions struct {
	BaseURL string        `yaml:"base_url" env:"PERMISSIONS_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// Editor carries everything the lifecycle manager and the payload builder
// need: the public base URL the editing service can reach us on, the signing
// options, and the key-rotation policy.
type Editor struct {
	PublicBaseURL       string        `yaml:"public_base_url" env:"EDITOR_PUBLIC_BASE_URL" env-required:"true"`
	RotateOnRedownload  bool          `yaml:"rotate_on_redownload" env:"EDITOR_ROTATE_ON_REDOWNLOAD" env-default:"false"`
	SigningEnabled      bool          `yaml:"signing_enabled" env:"EDITOR_SIGNING_ENABLED" env-default:"false"`
	SigningSecret       string        `yaml:"signing_secret" env:"EDITOR_SIGNING_SECRET"`
	SigningAlgorithm    string        `yaml:"signing_algorithm" env:"EDITOR_SIGNING_ALGORITHM" env-default:"HS256"`
	SigningTokenExpires time.Duration `yaml:"signing_token_expires" env:"EDITOR_SIGNING_TOKEN_EXPIRES" env-default:"5m"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}
