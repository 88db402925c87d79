package config

import (
	"os"

	"github.com/xorcare/pointer"
	"gopkg.in/yaml.v3"

	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

type Config struct {
	Port int     `yaml:"Port"`
	Host *string `yaml:"Host,omitempty"` // leave empty for localhost

	Logger *logger.Config `yaml:"Logger,omitempty"`

	DB     DBConfig     `yaml:"DB"`
	Broker BrokerConfig `yaml:"Broker"`

	Judge *JudgeConfig `yaml:"Judge,omitempty"`

	StorageConnection *Connection `yaml:"StorageConnection,omitempty"`
}

// Connection describes how to reach another service over http.
type Connection struct {
	Address string `yaml:"Address"`
}

func ReadConfig(configPath string) *Config {
	content, err := os.ReadFile(configPath)
	if err != nil {
		panic(err)
	}

	config := new(Config)
	err = yaml.Unmarshal(content, config)
	if err != nil {
		panic(err)
	}

	fillInConfig(config)

	return config
}

func fillInConfig(config *Config) {
	if config.Host == nil {
		config.Host = pointer.String("localhost")
	}

	fillInBrokerConfig(&config.Broker)
	if config.Judge != nil {
		fillInJudgeConfig(config.Judge)
	}
}
