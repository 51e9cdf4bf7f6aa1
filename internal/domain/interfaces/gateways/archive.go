// Package gateways defines interfaces for external effect adapters.
package gateways

import (
	"context"

	"github.com/ochairo/vendorsync/internal/domain/entities"
)

// ArchiveFetcher defines the interface for downloading release archives
type ArchiveFetcher interface {
	// BuildURL substitutes the {version} placeholder in a URL template
	BuildURL(template, version string) string

	// FetchArchive downloads the resource at url into dest
	FetchArchive(ctx context.Context, url, dest string) error
}

// ArchiveExtractor defines the interface for allow-list archive extraction
type ArchiveExtractor interface {
	// ExtractAllowList extracts exactly the include members of the tar.gz
	// archive into destDir, returning the written relative paths
	ExtractAllowList(archivePath, destDir string, include []string) ([]string, error)
}

// ArchiveVerifier defines the interface for verifying a downloaded archive
// Implementations should use pure Go (no external gpg/sha256sum binaries)
type ArchiveVerifier interface {
	// VerifyDigest checks the archive against its pinned SHA256 digest
	VerifyDigest(ctx context.Context, filePath, pinned string) error
}

// SignatureVerifier defines the interface for detached signature checks
type SignatureVerifier interface {
	// VerifyArchiveSignature imports the recipe's keys and checks the
	// archive's detached signature fetched from sigURL
	VerifyArchiveSignature(ctx context.Context, archivePath, sigURL string, security entities.RecipeSecurity) error
}

// VersionSource defines the interface for resolving latest upstream versions
type VersionSource interface {
	// LatestVersion resolves a version_check source to the newest release
	LatestVersion(ctx context.Context, source string) (string, error)
}
