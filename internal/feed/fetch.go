// Package feed fetches and decodes the rotation feed: a JSON array of
// {event, date:"HH:mm"} rows published by the wiki scraper. Fetching uses
// HTTP validators (ETag / Last-Modified) with a disk-backed cache so a flaky
// upstream degrades to the last good body instead of an empty schedule.
package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	appLog "wildtrack/internal/log"
)

// Source identifies one rotation feed. URL may also be a plain filesystem
// path (no scheme), typically the events.json written by wildscrape on the
// same host.
type Source struct {
	ID  string
	URL string
}

// FetchResult is the outcome of fetching a single source.
type FetchResult struct {
	Source    Source
	Body      []byte
	FromCache bool // true when the body came from the disk cache (304 or network failure)
}

// cacheEntry holds HTTP cache metadata for a single feed URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher fetches the rotation feed with validator-based HTTP caching.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher creates a feed Fetcher. cacheDir holds per-URL cache
// subdirectories, e.g. "/var/lib/wildtrack/feed-cache".
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		// Fall back to a relative dir so development runs without root.
		cacheDir = "./var/feed-cache"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheDir: cacheDir,
	}
}

// Fetch retrieves the feed body for src, honoring ETag and Last-Modified
// for HTTP sources and reading local paths directly.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (FetchResult, error) {
	if src.URL == "" {
		return FetchResult{}, errors.New("feed: source URL is empty")
	}

	if !strings.Contains(src.URL, "://") {
		body, err := os.ReadFile(src.URL)
		if err != nil {
			return FetchResult{}, err
		}
		return FetchResult{Source: src, Body: body}, nil
	}

	cachePath := f.cachePathForURL(src.URL)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return FetchResult{}, err
	}

	meta, _ := f.loadCacheMeta(cachePath)
	cachedBody, _ := os.ReadFile(filepath.Join(cachePath, "body.json"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Info("feed fetch start", "id", src.ID, "url", src.URL)

	resp, err := f.client.Do(req)
	if err != nil {
		// Network error; fall back to the cached body when we have one.
		if len(cachedBody) > 0 {
			appLog.Error("feed fetch network error, using cached body", err, "id", src.ID)
			return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return FetchResult{}, readErr
		}

		newMeta := cacheEntry{
			URL:          src.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := f.saveCache(cachePath, newMeta, body); err != nil {
			appLog.Error("feed cache save failed", err, "id", src.ID)
		}

		appLog.Info("feed fetch success", "id", src.ID, "bytes", len(body), "from_cache", false)
		return FetchResult{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return FetchResult{}, errors.New("feed: 304 Not Modified but no cached body available")
		}
		appLog.Info("feed fetch not modified; using cache", "id", src.ID)
		return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("feed fetch non-OK, using cached body", errors.New(resp.Status), "id", src.ID, "status", resp.StatusCode)
			return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return FetchResult{}, errors.New(resp.Status)
	}
}

func (f *Fetcher) cachePathForURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func (f *Fetcher) loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func (f *Fetcher) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.json"), body, 0o600); err != nil {
		return err
	}

	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}
