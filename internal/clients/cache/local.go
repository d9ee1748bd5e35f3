package cache

import (
	"github.com/pkg/errors"
)

// ErrMiss is returned by LocalCache on a missing key, mirroring the miss
// error the memcache client produces.
var ErrMiss = errors.New("cache miss")

// LocalCache is the in-process fallback used when no memcached hosts are
// configured. Same interface, process lifetime only.
type LocalCache struct {
	reports map[string]string
}

func NewLocal() *LocalCache {
	return &LocalCache{
		reports: make(map[string]string),
	}
}

func (c *LocalCache) CacheReport(userID, option, report string) error {
	c.reports[formatKey(userID, option)] = report
	return nil
}

func (c *LocalCache) GetReport(userID, option string) (string, error) {
	report, ok := c.reports[formatKey(userID, option)]
	if !ok {
		return "", ErrMiss
	}
	return report, nil
}

func (c *LocalCache) InvalidateCache(userID string, options []string) error {
	for _, opt := range options {
		delete(c.reports, formatKey(userID, opt))
	}
	return nil
}
