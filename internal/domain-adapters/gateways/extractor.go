package gateways

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Extractor copies an explicit allow-list of members out of a gzip-compressed
// tar archive. Archive members live under a version-derived root directory;
// that outermost path component is stripped before matching, so allow-list
// entries are written relative to the destination directory.
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractAllowList reads the tar.gz archive at archivePath and extracts into
// destDir exactly the members whose root-stripped path appears in include.
// Members outside the allow-list are ignored. Every include entry must be
// present in the archive; missing entries are an error. Returns the sorted
// destination-relative paths that were written.
func (e *Extractor) ExtractAllowList(archivePath, destDir string, include []string) ([]string, error) {
	//nolint:gosec // G304: File path archivePath is function parameter for extraction
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	//nolint:errcheck // Defer close on gzip reader
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	wanted := make(map[string]bool, len(include))
	for _, p := range include {
		wanted[p] = false
	}

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return nil, fmt.Errorf("tar read error: %w", err)
		}

		rel, ok := stripRoot(header.Name)
		if !ok {
			continue
		}

		seen, matches := wanted[rel]
		if !matches {
			continue
		}
		if header.Typeflag != tar.TypeReg {
			return nil, fmt.Errorf("archive member %s is not a regular file", header.Name)
		}
		if seen {
			return nil, fmt.Errorf("archive member %s appears more than once", header.Name)
		}

		//nolint:gosec // G305: Path traversal validated by HasPrefix check below
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		// Ensure target is within destDir (security check)
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return nil, fmt.Errorf("invalid file path in archive: %s", header.Name)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
			return nil, fmt.Errorf("failed to create parent directory: %w", err)
		}

		//nolint:gosec // G115: Integer overflow from tar header mode is acceptable
		outFile, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(header.Mode))
		if err != nil {
			return nil, fmt.Errorf("failed to create file: %w", err)
		}

		// Copy file contents with size limit (1GB max to prevent decompression bombs)
		if _, err := io.Copy(outFile, io.LimitReader(tr, 1<<30)); err != nil {
			_ = outFile.Close()
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
		if err := outFile.Close(); err != nil {
			return nil, fmt.Errorf("failed to close file: %w", err)
		}

		wanted[rel] = true
	}

	var missing []string
	written := make([]string, 0, len(include))
	for rel, seen := range wanted {
		if seen {
			written = append(written, rel)
		} else {
			missing = append(missing, rel)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("archive is missing requested members: %s", strings.Join(missing, ", "))
	}

	sort.Strings(written)
	return written, nil
}

// stripRoot removes the outermost path component of an archive member name.
// Returns false for the root directory itself and for names that escape it.
func stripRoot(name string) (string, bool) {
	cleaned := path.Clean(strings.TrimPrefix(name, "./"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}

	root, rel, found := strings.Cut(cleaned, "/")
	if !found || root == "" || rel == "" {
		return "", false
	}

	return rel, true
}
