package gateways

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetcher_BuildURL(t *testing.T) {
	f := NewFetcher()

	tests := []struct {
		name     string
		template string
		version  string
		want     string
	}{
		{
			name:     "GitHub tag tarball",
			template: "https://github.com/data-apis/array-api-extra/archive/refs/tags/v{version}.tar.gz",
			version:  "0.3.3",
			want:     "https://github.com/data-apis/array-api-extra/archive/refs/tags/v0.3.3.tar.gz",
		},
		{
			name:     "version appears twice",
			template: "https://example.com/{version}/pkg-{version}.tar.gz",
			version:  "1.2.0",
			want:     "https://example.com/1.2.0/pkg-1.2.0.tar.gz",
		},
		{
			name:     "no placeholder",
			template: "https://example.com/pkg.tar.gz",
			version:  "1.2.0",
			want:     "https://example.com/pkg.tar.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.BuildURL(tt.template, tt.version)
			if got != tt.want {
				t.Errorf("BuildURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetcher_FetchArchive(t *testing.T) {
	payload := []byte("archive bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request should carry a User-Agent header")
		}
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.tar.gz")
	if err := NewFetcher().FetchArchive(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("FetchArchive() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("downloaded content = %q, want %q", data, payload)
	}
}

func TestFetcher_FetchArchive_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such release", http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.tar.gz")
	err := NewFetcher().FetchArchive(context.Background(), server.URL, dest)
	if err == nil {
		t.Fatal("FetchArchive() should fail on a 404 response")
	}
}

func TestFetcher_FetchArchive_Unreachable(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.tar.gz")
	err := NewFetcher().FetchArchive(context.Background(), "http://invalid.localhost.invalid/pkg.tar.gz", dest)
	if err == nil {
		t.Fatal("FetchArchive() should fail for an unreachable host")
	}
}
