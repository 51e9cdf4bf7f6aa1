package gateways

import (
	"context"
	"fmt"

	"github.com/ochairo/vendorsync/internal/domain/entities"
	"github.com/ochairo/vendorsync/internal/external-adapters/gpg"
)

// gpgVerifier wraps the external GPG adapter behind the domain gateway surface
type gpgVerifier struct {
	verifier *gpg.Verifier
}

// NewGPGVerifier creates a new GPG verifier gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier() *gpgVerifier {
	return &gpgVerifier{
		verifier: gpg.NewVerifier(),
	}
}

// VerifyArchiveSignature imports the keys named by the recipe and checks the
// archive's detached signature. sigURL must already have version placeholders
// resolved.
func (g *gpgVerifier) VerifyArchiveSignature(ctx context.Context, archivePath, sigURL string, security entities.RecipeSecurity) error {
	if security.GPGKeysURL != "" {
		if err := g.verifier.ImportKeysFromURL(ctx, security.GPGKeysURL); err != nil {
			return fmt.Errorf("failed to import GPG keys from URL: %w", err)
		}
	}
	if len(security.GPGKeyIDs) > 0 {
		if err := g.verifier.ImportKeys(ctx, security.GPGKeyIDs); err != nil {
			return fmt.Errorf("failed to import GPG keys: %w", err)
		}
	}

	if g.verifier.KeyringSize() == 0 {
		return fmt.Errorf("signature verification enabled but no GPG keys configured")
	}

	if err := g.verifier.VerifySignature(ctx, archivePath, sigURL); err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}

	return nil
}
