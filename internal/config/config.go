package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown directory driver")

type Config struct {
	LogLevel       string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort     string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"5005"`
	AllowedOrigins []string  `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	Game           Game      `yaml:"game"`
	Directory      Directory `yaml:"directory"`
	Redis          Redis     `yaml:"redis"`
	Postgres       Postgres  `yaml:"postgres"`
	Push           Push      `yaml:"push"`
	Transport      Transport `yaml:"transport"`
}

// Game - the variant every room is played with.
type Game struct {
	BoardSize    int           `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"3"`
	Seats        int           `yaml:"seats" env:"GAME_SEATS" env-default:"2"`
	Symbols      []string      `yaml:"symbols" env:"GAME_SYMBOLS" env-separator:","`
	StartingSeat int           `yaml:"starting-seat" env:"GAME_STARTING_SEAT" env-default:"0"`
	TurnTimeout  time.Duration `yaml:"turn-timeout" env:"GAME_TURN_TIMEOUT" env-default:"3s"`
	MaxIdleTurns int           `yaml:"max-idle-turns" env:"GAME_MAX_IDLE_TURNS" env-default:"0"`
}

type Directory struct {
	Driver string `yaml:"driver" env:"DIRECTORY_DRIVER" env-default:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Postgres struct {
	DSN string `yaml:"dsn" env:"PG_DSN"`
}

type Push struct {
	Enabled     bool          `yaml:"enabled" env:"PUSH_ENABLED" env-default:"false"`
	Endpoint    string        `yaml:"endpoint" env:"PUSH_ENDPOINT" env-default:"https://exp.host/--/api/v2/push/send"`
	AccessToken string        `yaml:"access-token" env:"PUSH_ACCESS_TOKEN"`
	Timeout     time.Duration `yaml:"timeout" env:"PUSH_TIMEOUT" env-default:"5s"`
}

type Transport struct {
	SendQueue    int           `yaml:"send-queue" env:"TRANSPORT_SEND_QUEUE" env-default:"64"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"TRANSPORT_WRITE_TIMEOUT" env-default:"5s"`
}

// Load - reads path when it exists, the environment otherwise. Environment values win over the file.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from environment: %w", err)
		}
	}

	if config.Directory.Driver != DriverRedis && config.Directory.Driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, config.Directory.Driver)
	}

	if _, err := config.GameRules(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) GameRules() (*entity.Rules, error) {
	rules, err := entity.NewRules(that.Game.BoardSize, that.Game.Seats, that.Game.Symbols, that.Game.StartingSeat)
	if err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	return rules, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
