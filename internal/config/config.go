package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileEnvKey  = "CONFIG_FILE"
	defaultConfigFile = "data/config.yaml"
)

type config struct {
	App       AppConfig       `yaml:"app"`
	Storage   StorageConfig   `yaml:"storage"`
	Memcached MemcachedConfig `yaml:"memcached"`
}

type Service struct {
	config config
}

func New() (*Service, error) {
	s := &Service{
		config: defaultConfig(),
	}

	path := os.Getenv(configFileEnvKey)
	if path == "" {
		path = defaultConfigFile
	}

	rawYAML, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}

	return s, nil
}

func defaultConfig() config {
	return config{
		App: AppConfig{
			Precision:           1,
			ConfigurableWaiting: true,
		},
		Storage: StorageConfig{
			FilePath: "data/siplog.db",
		},
	}
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) Storage() *StorageConfig {
	return &s.config.Storage
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}
