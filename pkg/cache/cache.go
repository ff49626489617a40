// Package cache stores judge completions on disk so repeated evaluations of
// the same inputs do not re-spend remote calls.
package cache

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const defaultTTL = 7 * 24 * time.Hour

type Cache struct {
	Dir string
	TTL time.Duration
}

func New(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".sumeval", "cache")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{Dir: dir, TTL: ttl}, nil
}

type entry struct {
	Response string    `json:"response"`
	Model    string    `json:"model"`
	CachedAt time.Time `json:"cached_at"`
}

func key(modelName, prompt string) string {
	h := sha256.Sum256([]byte(modelName + "\x00" + prompt))
	return hex.EncodeToString(h[:])
}

func (c *Cache) path(k string) string {
	return filepath.Join(c.Dir, k+".json.gz")
}

// Get returns a cached completion for (model, prompt) if present and fresh.
func (c *Cache) Get(modelName, prompt string) (string, bool) {
	p := c.path(key(modelName, prompt))
	f, err := os.Open(p)
	if err != nil {
		return "", false
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", false
	}
	defer gz.Close()
	var e entry
	if err := json.NewDecoder(gz).Decode(&e); err != nil {
		return "", false
	}
	if c.TTL > 0 && time.Since(e.CachedAt) > c.TTL {
		_ = os.Remove(p)
		return "", false
	}
	return e.Response, true
}

// Set stores a completion atomically (write to temp file, then rename).
func (c *Cache) Set(modelName, prompt, response string) error {
	e := entry{Response: response, Model: modelName, CachedAt: time.Now()}
	f, err := os.CreateTemp(c.Dir, "tmp-*.json.gz")
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(e); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := gz.Close(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), c.path(key(modelName, prompt))); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}
