// Package services implements the vendoring domain logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ochairo/vendorsync/internal/domain/entities"
	"github.com/ochairo/vendorsync/internal/domain/interfaces"
	"github.com/ochairo/vendorsync/internal/domain/interfaces/gateways"
)

// Step failures of a vendoring job. Every one is fatal; callers can
// distinguish them with errors.Is.
var (
	ErrDestinationReset = errors.New("destination reset failed")
	ErrFetch            = errors.New("archive fetch failed")
	ErrVerification     = errors.New("archive verification failed")
	ErrArchiveFormat    = errors.New("archive extraction failed")
	ErrFlatten          = errors.New("layout flatten failed")
	ErrWriteMarker      = errors.New("provenance marker write failed")
)

// MarkerFile is the name of the generated provenance marker.
const MarkerFile = "README.md"

// SyncOptions adjusts a single vendoring job.
type SyncOptions struct {
	// Version overrides the recipe's pinned version when non-empty.
	Version string

	// SkipVerify disables digest and signature checks.
	SkipVerify bool

	// DryRun runs the whole job against a scratch directory and leaves
	// the real destination untouched.
	DryRun bool
}

// SyncService executes vendoring jobs: reset the destination, fetch the
// release archive, verify it, extract the allow-listed members, flatten the
// upstream layout, and write the provenance marker. Steps run in that order
// and the first failure aborts the rest; after a reset the destination may be
// left partially populated, which a re-run repairs.
type SyncService struct {
	fetcher    gateways.ArchiveFetcher
	extractor  gateways.ArchiveExtractor
	digests    gateways.ArchiveVerifier
	signatures gateways.SignatureVerifier
	logger     interfaces.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(
	fetcher gateways.ArchiveFetcher,
	extractor gateways.ArchiveExtractor,
	digests gateways.ArchiveVerifier,
	signatures gateways.SignatureVerifier,
	logger interfaces.Logger,
) *SyncService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &SyncService{
		fetcher:    fetcher,
		extractor:  extractor,
		digests:    digests,
		signatures: signatures,
		logger:     logger,
	}
}

// Sync runs one vendoring job to completion
func (s *SyncService) Sync(ctx context.Context, recipe *entities.Recipe, opts SyncOptions) (*entities.SyncResult, error) {
	start := time.Now()

	version := recipe.Version
	if opts.Version != "" {
		version = opts.Version
	}

	destDir := recipe.Destination
	if opts.DryRun {
		scratch, err := os.MkdirTemp("", "vendorsync-dryrun-*")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDestinationReset, err)
		}
		//nolint:errcheck // Best-effort scratch cleanup
		defer os.RemoveAll(scratch)
		destDir = scratch
	} else {
		if err := resetDestination(destDir); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDestinationReset, err)
		}
	}

	staging, err := os.MkdirTemp("", "vendorsync-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	//nolint:errcheck // Best-effort staging cleanup
	defer os.RemoveAll(staging)

	url := s.fetcher.BuildURL(recipe.Download.URL, version)
	archivePath := filepath.Join(staging, recipe.Name+"-"+version+".tar.gz")

	s.logger.Info("fetching release archive",
		interfaces.F("recipe", recipe.Name),
		interfaces.F("version", version),
		interfaces.F("url", url))

	if err := s.fetcher.FetchArchive(ctx, url, archivePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if !opts.SkipVerify {
		if err := s.verify(ctx, recipe, version, archivePath); err != nil {
			return nil, err
		}
	}

	written, err := s.extractor.ExtractAllowList(archivePath, destDir, recipe.Include)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveFormat, err)
	}

	if recipe.Flatten != "" {
		if err := flatten(destDir, recipe.Flatten); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFlatten, err)
		}
		written = flattenPaths(written, recipe.Flatten)
	}

	if err := s.writeMarker(destDir, recipe, version); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteMarker, err)
	}

	files := append(written, MarkerFile)
	sort.Strings(files)

	s.logger.Info("vendored",
		interfaces.F("recipe", recipe.Name),
		interfaces.F("version", version),
		interfaces.F("files", len(files)))

	return &entities.SyncResult{
		Name:        recipe.Name,
		Version:     version,
		Destination: recipe.Destination,
		Files:       files,
		Duration:    time.Since(start),
	}, nil
}

func (s *SyncService) verify(ctx context.Context, recipe *entities.Recipe, version, archivePath string) error {
	if recipe.Security.SHA256 != "" {
		if err := s.digests.VerifyDigest(ctx, archivePath, recipe.Security.SHA256); err != nil {
			return fmt.Errorf("%w: %v", ErrVerification, err)
		}
		s.logger.Debug("digest pin verified", interfaces.F("recipe", recipe.Name))
	}

	if recipe.Security.VerifySignature {
		sigURL := s.fetcher.BuildURL(recipe.Security.SignatureURL, version)
		if err := s.signatures.VerifyArchiveSignature(ctx, archivePath, sigURL, recipe.Security); err != nil {
			return fmt.Errorf("%w: %v", ErrVerification, err)
		}
		s.logger.Debug("signature verified", interfaces.F("recipe", recipe.Name))
	}

	return nil
}

// resetDestination empties destDir entirely, creating it if absent, so a sync
// never mixes stale and fresh files.
func resetDestination(destDir string) error {
	if err := os.MkdirAll(destDir, 0750); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return fmt.Errorf("failed to read destination: %w", err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(destDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// flatten moves every entry of destDir/inner up into destDir, then removes
// the emptied directory chain. The inner directory must exist: upstream
// archives change layout between releases, and a silent no-op here would
// vendor files in the wrong place.
func flatten(destDir, inner string) error {
	innerPath := filepath.Join(destDir, filepath.FromSlash(inner))

	info, err := os.Stat(innerPath)
	if err != nil {
		return fmt.Errorf("expected inner directory %s absent after extraction: %w", inner, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("expected inner directory %s is not a directory", inner)
	}

	entries, err := os.ReadDir(innerPath)
	if err != nil {
		return fmt.Errorf("failed to read inner directory: %w", err)
	}

	for _, entry := range entries {
		target := filepath.Join(destDir, entry.Name())
		if _, err := os.Lstat(target); err == nil {
			return fmt.Errorf("flatten collision: %s already exists in destination", entry.Name())
		}
		if err := os.Rename(filepath.Join(innerPath, entry.Name()), target); err != nil {
			return fmt.Errorf("failed to move %s: %w", entry.Name(), err)
		}
	}

	// Remove the emptied inner directory and any emptied parents up to the
	// destination. A parent still holding other vendored files stops the walk.
	cleanDest := filepath.Clean(destDir)
	for dir := innerPath; filepath.Clean(dir) != cleanDest; dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			break
		}
	}

	return nil
}

// flattenPaths rewrites extraction-relative paths to their post-flatten form.
func flattenPaths(paths []string, inner string) []string {
	prefix := inner + "/"
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, strings.TrimPrefix(p, prefix))
	}
	return out
}

func (s *SyncService) writeMarker(destDir string, recipe *entities.Recipe, version string) error {
	content := recipe.Marker
	if content == "" {
		content = fmt.Sprintf("Vendored copy of %s %s. Do not edit; regenerate with `vendorsync sync %s`.",
			recipe.Name, version, recipe.Name)
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	//nolint:gosec // G306: Vendored files are committed to the repository and must be world-readable
	if err := os.WriteFile(filepath.Join(destDir, MarkerFile), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", MarkerFile, err)
	}

	return nil
}
