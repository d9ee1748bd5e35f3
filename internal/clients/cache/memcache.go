package cache

import (
	"net/url"

	"github.com/pkg/errors"

	"go.uber.org/zap"
	"siplog/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

// User IDs are free text; memcache keys cannot contain spaces or control
// characters, so the ID part is escaped.
func formatKey(userID string, option string) string {
	return url.QueryEscape(userID) + ":" + option
}

func (mc *MemcacheClient) CacheReport(userID, option, report string) error {
	logger.Info("cache report", zap.String("userID", userID), zap.String("option", option))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(userID, option),
		Value: []byte(report)},
	)
}

func (mc *MemcacheClient) GetReport(userID, option string) (string, error) {
	logger.Info("get report from cache", zap.String("userID", userID), zap.String("option", option))
	item, err := mc.client.Get(formatKey(userID, option))
	if err != nil {
		return "", err
	}
	return string(item.Value), nil
}

func (mc *MemcacheClient) InvalidateCache(userID string, options []string) error {
	logger.Info("invalidate cache", zap.String("userID", userID))

	for _, opt := range options {
		err := mc.client.Delete(formatKey(userID, opt))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
