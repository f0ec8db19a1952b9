// Package assets finds and decodes the files a scene needs: images, glTF
// meshes and shader overrides.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/logger"
)

// ErrNotFound is returned when no root contains the requested file.
var ErrNotFound = errors.New("assets: file not found")

// Library resolves asset names against a list of directories.
// Roots are searched in reverse order (last added = highest priority).
type Library struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewLibrary creates a library searching roots.
func NewLibrary(roots ...string) *Library {
	l := &Library{cache: NewCache()}
	for _, r := range roots {
		l.AddRoot(r)
	}
	return l
}

// AddRoot adds a directory to search. Missing directories are skipped
// with a warning.
func (l *Library) AddRoot(dir string) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn("asset root not found", zap.String("dir", dir))
		return
	}

	l.mu.Lock()
	l.roots = append(l.roots, dir)
	l.mu.Unlock()
}

// Roots returns the search directories in priority order, lowest first.
func (l *Library) Roots() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.roots...)
}

// Resolve returns the path of name in the highest-priority root holding it.
// Absolute paths are returned unchanged when they exist.
func (l *Library) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := len(l.roots) - 1; i >= 0; i-- {
		p := filepath.Join(l.roots[i], filepath.FromSlash(name))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Load reads a file from the roots.
func (l *Library) Load(name string) ([]byte, error) {
	if data, ok := l.cache.Get(name); ok {
		return data, nil
	}

	p, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	l.cache.Set(name, data)
	return data, nil
}

// Close drops cached file contents.
func (l *Library) Close() {
	hits, misses := l.cache.Stats()
	logger.Debug("asset cache closed", zap.Int("hits", hits), zap.Int("misses", misses))
	l.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
