package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDigestVerifier_ComputeDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload")
	content := []byte("vendored archive bytes")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(content)
	want := hex.EncodeToString(sum[:])

	got, err := NewDigestVerifier().ComputeDigest(path)
	if err != nil {
		t.Fatalf("ComputeDigest() error = %v", err)
	}
	if got != want {
		t.Errorf("ComputeDigest() = %v, want %v", got, want)
	}
}

func TestDigestVerifier_VerifyDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload")
	content := []byte("vendored archive bytes")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(content)
	pinned := hex.EncodeToString(sum[:])

	v := NewDigestVerifier()
	if err := v.VerifyDigest(context.Background(), path, pinned); err != nil {
		t.Errorf("VerifyDigest() error = %v, want nil", err)
	}

	// Pins are accepted case-insensitively
	if err := v.VerifyDigest(context.Background(), path, strings.ToUpper(pinned)); err != nil {
		t.Errorf("VerifyDigest() with uppercase pin error = %v, want nil", err)
	}
}

func TestDigestVerifier_VerifyDigest_Mismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload")
	if err := os.WriteFile(path, []byte("actual content"), 0600); err != nil {
		t.Fatal(err)
	}

	err := NewDigestVerifier().VerifyDigest(context.Background(), path, strings.Repeat("ab", 32))
	if err == nil {
		t.Fatal("VerifyDigest() should fail for a wrong pin")
	}
	if !strings.Contains(err.Error(), "digest mismatch") {
		t.Errorf("Expected 'digest mismatch' error, got: %v", err)
	}
}

func TestDigestVerifier_VerifyDigest_MissingFile(t *testing.T) {
	err := NewDigestVerifier().VerifyDigest(context.Background(), "/nonexistent/file", strings.Repeat("ab", 32))
	if err == nil {
		t.Fatal("VerifyDigest() should fail for a missing file")
	}
}
