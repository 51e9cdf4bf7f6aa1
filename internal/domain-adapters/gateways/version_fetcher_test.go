package gateways

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVersionFetcher_LatestVersion_Static(t *testing.T) {
	vf := NewVersionFetcher()

	got, err := vf.LatestVersion(context.Background(), "static:2.1.0")
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if got != "2.1.0" {
		t.Errorf("LatestVersion() = %v, want 2.1.0", got)
	}
}

func TestVersionFetcher_LatestVersion_GitHubRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/data-apis/array-api-extra/releases/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"tag_name": "v0.4.0"}`)
	}))
	defer server.Close()

	vf := NewVersionFetcher()
	vf.APIBase = server.URL

	got, err := vf.LatestVersion(context.Background(), "github-release:data-apis/array-api-extra")
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if got != "0.4.0" {
		t.Errorf("LatestVersion() = %v, want 0.4.0 (v prefix stripped)", got)
	}
}

func TestVersionFetcher_LatestVersion_GitHubError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	vf := NewVersionFetcher()
	vf.APIBase = server.URL

	if _, err := vf.LatestVersion(context.Background(), "github-release:nobody/nothing"); err == nil {
		t.Fatal("LatestVersion() should fail on a 404 from the API")
	}
}

func TestVersionFetcher_LatestVersion_UnsupportedSource(t *testing.T) {
	vf := NewVersionFetcher()

	if _, err := vf.LatestVersion(context.Background(), "gitlab:foo/bar"); err == nil {
		t.Fatal("LatestVersion() should fail for an unsupported source format")
	}
	if _, err := vf.LatestVersion(context.Background(), ""); err == nil {
		t.Fatal("LatestVersion() should fail for an empty source")
	}
}
