package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGitHubAPIBase = "https://api.github.com"

// VersionFetcher handles fetching latest upstream versions from various sources
type VersionFetcher struct {
	httpClient *http.Client

	// APIBase overrides the GitHub API endpoint, mainly for tests.
	APIBase string
}

// NewVersionFetcher creates a new version fetcher
func NewVersionFetcher() *VersionFetcher {
	return &VersionFetcher{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Reasonable timeout for version checks
		},
		APIBase: defaultGitHubAPIBase,
	}
}

// LatestVersion resolves the latest upstream version for a version_check
// source. Supported formats:
//   - github-release:<owner>/<repo>  latest GitHub release tag
//   - static:<version>               fixed value, useful for unhosted upstreams
func (vf *VersionFetcher) LatestVersion(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("version_check.source not specified")
	}

	switch {
	case strings.HasPrefix(source, "github-release:"):
		repo := strings.TrimPrefix(source, "github-release:")
		return vf.fetchGitHubRelease(ctx, repo)
	case strings.HasPrefix(source, "static:"):
		return strings.TrimPrefix(source, "static:"), nil
	default:
		return "", fmt.Errorf("unsupported version_check.source format: %s", source)
	}
}

func (vf *VersionFetcher) fetchGitHubRelease(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(vf.APIBase, "/"), repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "vendorsync/1.0")

	resp, err := vf.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GitHub API request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d for %s", resp.StatusCode, repo)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode release response: %w", err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("no releases found for %s", repo)
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}
