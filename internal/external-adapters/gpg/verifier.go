// Package gpg provides GPG signature verification capabilities.
package gpg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
)

const armorPrefix = "-----BEGIN PGP SIGNATURE---"

// Verifier implements detached signature verification using ProtonMail's
// go-crypto, the maintained fork of golang.org/x/crypto/openpgp.
type Verifier struct {
	keyring    openpgp.EntityList
	httpClient *http.Client
}

// NewVerifier creates a new GPG verifier
func NewVerifier() *Verifier {
	return &Verifier{
		keyring: make(openpgp.EntityList, 0),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ImportKeys imports GPG keys by fingerprint from public keyservers,
// trying each keyserver until one succeeds
func (v *Verifier) ImportKeys(ctx context.Context, keyIDs []string) error {
	if len(keyIDs) == 0 {
		return fmt.Errorf("no key IDs provided")
	}

	keyservers := []string{
		"https://keys.openpgp.org",
		"https://keyserver.ubuntu.com",
	}

	for _, keyID := range keyIDs {
		if keyID == "" {
			continue
		}

		var lastErr error
		imported := false

		for _, keyserver := range keyservers {
			urls := []string{
				fmt.Sprintf("%s/vks/v1/by-fingerprint/%s", keyserver, keyID),
				fmt.Sprintf("%s/pks/lookup?op=get&search=0x%s", keyserver, keyID),
			}

			for _, url := range urls {
				entities, err := v.fetchKeyring(ctx, url)
				if err != nil {
					lastErr = err
					continue
				}

				// The keyserver response must actually contain the
				// requested fingerprint, not just any key.
				if !keyringContains(entities, keyID) {
					lastErr = fmt.Errorf("no keys matching fingerprint %s", keyID)
					continue
				}

				v.keyring = append(v.keyring, entities...)
				imported = true
				break
			}

			if imported {
				break
			}
		}

		if !imported {
			return fmt.Errorf("failed to import key %s from all keyservers: %w", keyID, lastErr)
		}
	}

	return nil
}

// ImportKeysFromURL imports all GPG keys from a KEYS file URL, the
// convention used by projects that publish a maintainer keyring
func (v *Verifier) ImportKeysFromURL(ctx context.Context, keysURL string) error {
	entities, err := v.fetchKeyring(ctx, keysURL)
	if err != nil {
		return fmt.Errorf("failed to import KEYS file: %w", err)
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// ImportKeyFromFile imports a GPG key from a local file, accepting both
// armored and binary key material
func (v *Verifier) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is user-provided for GPG key import
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("failed to read key file: %w", err)
	}

	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entities) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// VerifySignature verifies a detached signature downloaded from sigURL
// against the file at filePath
func (v *Verifier) VerifySignature(ctx context.Context, filePath, sigURL string) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no GPG keys imported, import keys first")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sigURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create signature download request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download signature: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signature download failed with status %d", resp.StatusCode)
	}

	// GPG signatures are typically under 1KB; cap the read well above that
	sigData, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024))
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	if len(sigData) < 10 {
		return fmt.Errorf("signature file too small to be a valid GPG signature")
	}

	//nolint:gosec // G304: filePath is caller-provided for GPG verification
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	sig := bytes.NewReader(sigData)
	if bytes.HasPrefix(sigData, []byte(armorPrefix)) {
		_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, f, sig, nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(v.keyring, f, sig, nil)
	}

	if err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	return nil
}

// KeyringSize returns the number of keys in the keyring
func (v *Verifier) KeyringSize() int {
	return len(v.keyring)
}

func (v *Verifier) fetchKeyring(ctx context.Context, url string) (openpgp.EntityList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("key download failed: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("keyserver returned status %d", resp.StatusCode)
	}

	// Some projects publish large keyring files; cap at 10MB
	entities, err := openpgp.ReadArmoredKeyRing(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to parse key material: %w", err)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("no keys found in response")
	}

	return entities, nil
}

func keyringContains(entities openpgp.EntityList, keyID string) bool {
	for _, entity := range entities {
		fingerprint := fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint)
		// Accept the full fingerprint or the short form (last 16 hex chars)
		if fingerprint == keyID || (len(fingerprint) >= 16 && fingerprint[len(fingerprint)-16:] == keyID) {
			return true
		}
	}
	return false
}
