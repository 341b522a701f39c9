// Package assets keeps versioned copies of the static bundle, the way an
// offline-first web app caches its shell.
//
// Install pre-fetches a fixed list of assets into a cache named by version.
// Activate makes one version current and evicts all others. Fetch answers
// from the current version and falls back to the network on a miss; fallback
// responses are not cached.
package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"sort"
	"sync"

	"budgetapp/internal/cache"
	"budgetapp/internal/log"
)

// DefaultVersion is the cache name used when none is configured.
const DefaultVersion = "budgetapp-cache-v1"

// Precache lists the assets fetched on install: the app shell, its manifest
// and the icons the manifest declares.
func Precache() []string {
	return []string{"/", "/index.html", "/app.js", "/manifest.json", "/icon-192.png", "/icon-512.png"}
}

// ErrUnknownVersion is returned when activating a version that was never installed.
var ErrUnknownVersion = errors.New("asset cache version not installed")

type Cache struct {
	mu       sync.RWMutex
	versions map[string]cache.Cache[Asset]
	current  string
	source   Fetcher
	network  Fetcher
	logger   *log.Logger
}

// New creates an empty cache. source feeds Install, network serves misses.
func New(source, network Fetcher, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default(log.ComponentAssets)
	}
	if network == nil {
		network = source
	}
	return &Cache{
		versions: make(map[string]cache.Cache[Asset]),
		source:   source,
		network:  network,
		logger:   logger.WithComponent(log.ComponentAssets),
	}
}

// Install fetches every precache asset into the named version. Either all
// assets are stored or the version is left uninstalled.
func (c *Cache) Install(ctx context.Context, version string) error {
	paths := Precache()
	var store cache.Cache[Asset] = cache.NewLRUCache[Asset](len(paths), 0)
	for _, p := range paths {
		a, err := c.source.Fetch(ctx, p)
		if err != nil {
			c.logger.ErrorContext(ctx, "Asset install failed",
				log.FieldVersion, version, log.FieldAsset, p, log.FieldError, err.Error())
			return fmt.Errorf("install %s: %w", version, err)
		}
		store.Set(p, a)
	}

	c.mu.Lock()
	c.versions[version] = store
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Asset cache installed",
		log.FieldOperation, log.OpInstall, log.FieldVersion, version, log.FieldCount, len(paths))
	return nil
}

// Activate makes version current and evicts every other version. It returns
// the evicted version names.
func (c *Cache) Activate(version string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.versions[version]; !ok {
		return nil, fmt.Errorf("%s: %w", version, ErrUnknownVersion)
	}
	var evicted []string
	for name, store := range c.versions {
		if name == version {
			continue
		}
		store.Purge()
		delete(c.versions, name)
		evicted = append(evicted, name)
	}
	sort.Strings(evicted)
	c.current = version

	c.logger.Info("Asset cache activated",
		log.FieldOperation, log.OpActivate, log.FieldVersion, version, "evicted", evicted)
	return evicted, nil
}

// Versions lists installed versions.
func (c *Cache) Versions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.versions))
	for name := range c.versions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Current returns the active version, empty before the first activation.
func (c *Cache) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Fetch answers from the current version, falling back to the network.
// The boolean reports a cache hit.
func (c *Cache) Fetch(ctx context.Context, urlPath string) (Asset, bool, error) {
	urlPath = path.Clean("/" + urlPath)

	c.mu.RLock()
	store := c.versions[c.current]
	c.mu.RUnlock()

	if store != nil {
		if a, ok := store.Get(urlPath); ok {
			return a, true, nil
		}
	}
	a, err := c.network.Fetch(ctx, urlPath)
	if err != nil {
		return Asset{}, false, err
	}
	return a, false, nil
}

// ServeHTTP serves GET and HEAD requests for assets.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a, hit, err := c.Fetch(r.Context(), r.URL.Path)
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		c.logger.WarnContext(r.Context(), "Asset fetch failed",
			log.FieldOperation, log.OpFetch, log.FieldAsset, r.URL.Path, log.FieldError, err.Error())
		http.Error(w, "asset unavailable", http.StatusBadGateway)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		w.Write(a.Body)
	}
}
