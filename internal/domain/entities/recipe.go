// Package entities defines core domain models and data structures.
package entities

// Recipe describes one vendored dependency: which upstream release archive
// to fetch, which files to copy out of it, and how to verify the download.
type Recipe struct {
	Name         string
	Version      string
	Description  string
	Download     RecipeDownload
	Destination  string
	Include      []string
	Flatten      string
	Marker       string
	Security     RecipeSecurity
	VersionCheck VersionCheckConfig
}

// RecipeDownload holds the download location for a release archive.
// URL may contain a {version} placeholder substituted at fetch time.
type RecipeDownload struct {
	URL string
}

// RecipeSecurity holds optional verification settings for the downloaded
// archive. All checks are off unless configured in the recipe.
type RecipeSecurity struct {
	SHA256          string
	VerifySignature bool
	SignatureURL    string
	GPGKeysURL      string
	GPGKeyIDs       []string
}

// VersionCheckConfig describes where to look up the latest upstream release.
// Supported sources: "github-release:<owner>/<repo>" and "static:<version>".
type VersionCheckConfig struct {
	Source string
}
