package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel         string `yaml:"log-level" env-default:"info"`
	StatsStoragePath string `yaml:"stats-storage-path" env-default:"stats.db"`
	Redis            Redis  `yaml:"redis"`
	Game             Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Game struct {
	Difficulty         string `yaml:"difficulty" env-default:"medium"`
	SeriesLength       int    `yaml:"series-length" env-default:"3"`
	TurnTimeoutSeconds int    `yaml:"turn-timeout-seconds" env-default:"30"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Game) TurnTimeout() time.Duration {
	return time.Duration(that.TurnTimeoutSeconds) * time.Second
}
