package config

import "github.com/ilyakaznacheev/cleanenv"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env         string `env:"ENV" env-default:"dev"`
	HTTPAddr    string `env:"HTTP_ADDR" env-default:":8080"`
	GinMode     string `env:"GIN_MODE" env-default:"debug"`
	TokenSecret string `env:"TOKEN_SECRET" env-required:"true"`
	DB          DBConfig
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"mysql"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"3306"`
	User     string `env:"DB_USER" env-default:"collab"`
	Password string `env:"DB_PASSWORD" env-default:"collab"`
	Name     string `env:"DB_NAME" env-default:"project_collab"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
