package gazette

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/doe-tools/doe-scan/internal/config"
)

// Origin indicates where a document's bytes came from
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginMemory Origin = "memory"
	OriginRemote Origin = "remote"
)

// ErrPartNotFound signals that the probed part does not exist on the
// file server. It is the end-of-data condition for a date's part loop,
// not a failure.
var ErrPartNotFound = errors.New("gazette part not found")

// FetchResult holds the raw bytes of one retrieved document
type FetchResult struct {
	Identifier Identifier
	Origin     Origin
	Data       []byte
}

// Fetcher retrieves gazette documents, preferring a local cache file
// over the network. Network access is rate limited and honors the
// remote host's robots.txt if one exists.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	memory     *gocache.Cache
	robots     *robotsGate

	baseURL     string
	userAgent   string
	cacheDir    string
	maxFileSize int64
	saveLocal   bool
}

// NewFetcher creates a Fetcher from the given configuration
func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// The file server answers missing parts with a
				// redirect-class status in one mode; surface it
				// instead of following it.
				return http.ErrUseLastResponse
			},
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		memory:      gocache.New(30*time.Minute, 10*time.Minute),
		robots:      newRobotsGate(cfg.UserAgent, cfg.Timeout),
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		cacheDir:    cfg.CacheDir,
		maxFileSize: cfg.MaxFileSize,
		saveLocal:   cfg.SaveLocal,
	}
}

// Fetch retrieves the raw bytes for one document identifier.
//
// Resolution order: local cache file, in-memory cache of this process,
// then the network. A 404 (or 300) response is returned as
// ErrPartNotFound; any other non-200 status or transport failure is a
// soft failure the caller handles by abandoning the current date.
func (f *Fetcher) Fetch(ctx context.Context, id Identifier) (*FetchResult, error) {
	if id.Part < 1 {
		return nil, fmt.Errorf("part number must be positive, got %d", id.Part)
	}

	localPath := filepath.Join(f.cacheDir, id.FileName())
	if data, ok := f.readLocal(localPath); ok {
		return &FetchResult{Identifier: id, Origin: OriginLocal, Data: data}, nil
	}

	if cached, ok := f.memory.Get(id.FileName()); ok {
		return &FetchResult{Identifier: id, Origin: OriginMemory, Data: cached.([]byte)}, nil
	}

	data, err := f.download(ctx, id)
	if err != nil {
		return nil, err
	}

	f.memory.Set(id.FileName(), data, gocache.DefaultExpiration)
	if f.saveLocal {
		// Best effort; a failed write never fails the fetch.
		if err := os.MkdirAll(f.cacheDir, config.DefaultDirPerm); err == nil {
			_ = os.WriteFile(localPath, data, 0o644)
		}
	}

	return &FetchResult{Identifier: id, Origin: OriginRemote, Data: data}, nil
}

// readLocal returns the bytes of a cached file if present and sane
func (f *Fetcher) readLocal(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 || info.Size() > f.maxFileSize {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// download issues the rate-limited network retrieval
func (f *Fetcher) download(ctx context.Context, id Identifier) ([]byte, error) {
	url := id.URL(f.baseURL)

	if !f.robots.allowed(ctx, url) {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", url)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", id.FileName(), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to body read
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusMultipleChoices:
		return nil, fmt.Errorf("%s: %w", id.FileName(), ErrPartNotFound)
	default:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", id.FileName(), resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, f.maxFileSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", id.FileName(), err)
	}
	if int64(len(data)) > f.maxFileSize {
		return nil, fmt.Errorf("%s exceeds maximum file size of %d bytes", id.FileName(), f.maxFileSize)
	}

	return data, nil
}
