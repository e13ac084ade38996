package gazette

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doe-tools/doe-scan/internal/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.CacheDir = t.TempDir()
	cfg.Rate = 1000 // do not slow the test suite down
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestFetchRemoteAndMemoryCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "robots.txt") {
			http.NotFound(w, r)
			return
		}
		requests++
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	f := NewFetcher(testConfig(t, server.URL))
	id := Identifier{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Part: 1}

	res, err := f.Fetch(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Origin != OriginRemote {
		t.Errorf("expected origin remote but got %s", res.Origin)
	}
	if string(res.Data) != "%PDF-1.4 fake" {
		t.Errorf("unexpected body: %q", res.Data)
	}

	// Second fetch of the same identifier must come from memory.
	res, err = f.Fetch(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Origin != OriginMemory {
		t.Errorf("expected origin memory but got %s", res.Origin)
	}
	if requests != 1 {
		t.Errorf("expected exactly 1 network request but got %d", requests)
	}
}

func TestFetchPrefersLocalFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("network must not be touched when a local file exists")
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	id := Identifier{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Part: 1}

	localPath := filepath.Join(cfg.CacheDir, id.FileName())
	if err := os.WriteFile(localPath, []byte("local bytes"), 0o644); err != nil {
		t.Fatalf("failed to write local file: %v", err)
	}

	f := NewFetcher(cfg)
	res, err := f.Fetch(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Origin != OriginLocal {
		t.Errorf("expected origin local but got %s", res.Origin)
	}
	if string(res.Data) != "local bytes" {
		t.Errorf("unexpected body: %q", res.Data)
	}
}

func TestFetchNotFoundStatuses(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusMultipleChoices} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		f := NewFetcher(testConfig(t, server.URL))
		id := Identifier{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Part: 3}

		_, err := f.Fetch(context.Background(), id)
		if !errors.Is(err, ErrPartNotFound) {
			t.Errorf("status %d: expected ErrPartNotFound but got %v", status, err)
		}

		server.Close()
	}
}

func TestFetchUnexpectedStatusIsSoftFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "robots.txt") {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(testConfig(t, server.URL))
	id := Identifier{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Part: 1}

	_, err := f.Fetch(context.Background(), id)
	if err == nil {
		t.Fatal("expected error for status 500")
	}
	if errors.Is(err, ErrPartNotFound) {
		t.Error("a 500 must not be reported as end of data")
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "robots.txt") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	cfg.MaxFileSize = 1024

	f := NewFetcher(cfg)
	id := Identifier{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Part: 1}

	_, err := f.Fetch(context.Background(), id)
	if err == nil || !strings.Contains(err.Error(), "maximum file size") {
		t.Errorf("expected size error but got %v", err)
	}
}

func TestFetchRejectsInvalidPart(t *testing.T) {
	f := NewFetcher(testConfig(t, "http://unused.test"))

	_, err := f.Fetch(context.Background(), Identifier{Date: time.Now(), Part: 0})
	if err == nil {
		t.Error("expected error for part 0")
	}
}
