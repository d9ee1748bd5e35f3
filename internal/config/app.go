package config

// AppConfig selects between the two supported setups: integer amounts with a
// fixed cooldown, or tenth-of-a-unit amounts with a configurable one.
type AppConfig struct {
	Precision           int  `yaml:"amount-precision"`
	ConfigurableWaiting bool `yaml:"configurable-wait"`
	OverwriteUsers      bool `yaml:"overwrite-on-create"`
}

func (s *AppConfig) AmountPrecision() int {
	return s.Precision
}

func (s *AppConfig) ConfigurableWait() bool {
	return s.ConfigurableWaiting
}

func (s *AppConfig) OverwriteOnCreate() bool {
	return s.OverwriteUsers
}
