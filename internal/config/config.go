package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidPort = errors.New("invalid port (must be between 1-65535 inclusive)")

type Config struct {
	LogLevel           string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPHost           string `yaml:"http-host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	HTTPPort           string `yaml:"http-port" env:"HTTP_PORT" env-default:"5000"`
	EventLogPath       string `yaml:"event-log-path" env:"EVENT_LOG_PATH" env-default:"game.log"`
	IgnoreForwardedFor bool   `yaml:"ignore-forwarded-for" env:"IGNORE_FORWARDED_FOR"`
	KeepMarksOnReset   bool   `yaml:"keep-marks-on-reset" env:"KEEP_MARKS_ON_RESET"`
	Redis              Redis  `yaml:"redis"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Key     string `yaml:"key" env:"REDIS_KEY" env-default:"tictactoe:events"`
}

// Load reads the config file at path, falling back to environment variables
// and defaults when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Config) Validate() error {
	port, err := strconv.Atoi(that.HTTPPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %s", ErrInvalidPort, that.HTTPPort)
	}

	return nil
}

func (that *Config) GetHTTPAddr() string {
	return net.JoinHostPort(that.HTTPHost, that.HTTPPort)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
