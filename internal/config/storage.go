package config

type StorageConfig struct {
	FilePath string `yaml:"path"`
}

func (s *StorageConfig) Path() string {
	return s.FilePath
}
