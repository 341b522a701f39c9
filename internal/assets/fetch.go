package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when no source has the requested asset.
var ErrNotFound = errors.New("asset not found")

// Asset is a fetched static file.
type Asset struct {
	Path        string
	ContentType string
	Body        []byte
}

// Fetcher retrieves an asset by URL path.
type Fetcher interface {
	Fetch(ctx context.Context, urlPath string) (Asset, error)
}

// FSFetcher serves assets from a filesystem; "/" maps to index.html.
type FSFetcher struct {
	FS fs.FS
}

func (f FSFetcher) Fetch(_ context.Context, urlPath string) (Asset, error) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "index.html"
	}
	body, err := fs.ReadFile(f.FS, name)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return Asset{}, fmt.Errorf("%s: %w", urlPath, ErrNotFound)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("read %s: %w", name, err)
	}
	return Asset{Path: urlPath, ContentType: contentType(name, body), Body: body}, nil
}

// HTTPFetcher fetches assets from an upstream origin.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string) HTTPFetcher {
	return HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f HTTPFetcher) Fetch(ctx context.Context, urlPath string) (Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path.Clean("/"+urlPath), nil)
	if err != nil {
		return Asset{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("fetch %s: %w", urlPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Asset{}, fmt.Errorf("%s: %w", urlPath, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return Asset{}, fmt.Errorf("fetch %s: upstream status %d", urlPath, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return Asset{}, fmt.Errorf("read %s: %w", urlPath, err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = contentType(urlPath, body)
	}
	return Asset{Path: urlPath, ContentType: ct, Body: body}, nil
}

func contentType(name string, body []byte) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(body)
}
