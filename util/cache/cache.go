// Package cache is a small persistent key/value store backed by one json
// file. Keys are case insensitive.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

type FileCache struct {
	path string
	mu   sync.Mutex
	data *simpleCache
}

type simpleCache struct {
	Data map[string]string `json:"Data"`
}

// NewFileCache returns a cache persisted at path. The file is read lazily on
// first access. An empty path keeps the cache in memory only.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) persist() error {
	if c.path == "" {
		return nil
	}
	jsonData, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	return os.WriteFile(c.path, jsonData, 0o644)
}

func (c *FileCache) load() *simpleCache {
	if c.data != nil {
		return c.data
	}
	c.data = &simpleCache{
		Data: map[string]string{},
	}
	if c.path == "" {
		return c.data
	}
	content, err := os.ReadFile(c.path)
	if err != nil {
		return c.data
	}
	if err := json.Unmarshal(content, c.data); err != nil {
		log.WithError(err).WithField("path", c.path).Warn("cache file is corrupted, starting empty")
		c.data = &simpleCache{Data: map[string]string{}}
	}
	if c.data.Data == nil {
		c.data.Data = map[string]string{}
	}
	return c.data
}

func (c *FileCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, found := c.load().Data[strings.ToLower(key)]
	return value, found
}

func (c *FileCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load().Data[strings.ToLower(key)] = value
	return c.persist()
}
