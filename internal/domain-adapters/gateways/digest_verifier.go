package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// digestVerifier implements SHA256 digest pinning using pure Go
type digestVerifier struct{}

// NewDigestVerifier creates a new digest verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewDigestVerifier() *digestVerifier {
	return &digestVerifier{}
}

// VerifyDigest checks a downloaded archive against its pinned SHA256 digest
// Pure Go implementation - no external sha256sum binary needed
func (v *digestVerifier) VerifyDigest(_ context.Context, filePath, pinned string) error {
	actual, err := v.ComputeDigest(filePath)
	if err != nil {
		return err
	}

	if actual != strings.ToLower(pinned) {
		return fmt.Errorf("digest mismatch: pinned %s, got %s", pinned, actual)
	}

	return nil
}

// ComputeDigest calculates the SHA256 digest of a file
func (v *digestVerifier) ComputeDigest(filePath string) (string, error) {
	//nolint:gosec // G304: File path is caller-provided for digest calculation
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
