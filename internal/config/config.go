package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"boletimCampo/internal/app"
	grpcapp "boletimCampo/internal/app/grpc"
	httpapp "boletimCampo/internal/app/http"
	mailerclient "boletimCampo/internal/pkg/mailer-client"
	tg_client "boletimCampo/internal/pkg/tg"
	"boletimCampo/internal/repository/postgres"
	redisRepository "boletimCampo/internal/repository/redis"
	"boletimCampo/internal/repository/s3minio"
	accountservice "boletimCampo/internal/service/account"
	"boletimCampo/internal/service/seed"
)

type Config struct {
	Env           string                     `yaml:"env" env:"ENV" env-default:"local"`
	App           app.Config                 `yaml:"app"`
	HTTP          httpapp.Config             `yaml:"http_server"`
	GRPC          grpcapp.Config             `yaml:"grpc_server"`
	Postgres      postgres.Config            `yaml:"postgres"`
	Redis         redisRepository.Config     `yaml:"redis"`
	S3minio       s3minio.Config             `yaml:"s3minio"`
	PasswordReset accountservice.ResetConfig `yaml:"password_reset"`
	Mailer        mailerclient.Config        `yaml:"mailer"`
	Tg            tg_client.Config           `yaml:"tg_client"`
	Seed          seed.Config                `yaml:"seed"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
