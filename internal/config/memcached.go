package config

type MemcachedConfig struct {
	NodeHosts []string `yaml:"hosts"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}

// Enabled reports whether a memcached export cache is configured at all; the
// in-process cache is used otherwise.
func (s *MemcachedConfig) Enabled() bool {
	return len(s.NodeHosts) > 0
}
