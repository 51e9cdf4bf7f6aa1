// Package yaml provides YAML-based recipe parsing and repository implementations.
package yaml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/vendorsync/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlRecipe represents the raw YAML structure
type yamlRecipe struct {
	Name         string           `yaml:"name"`
	Version      string           `yaml:"version"`
	Description  string           `yaml:"description"`
	Download     yamlDownload     `yaml:"download"`
	Destination  string           `yaml:"destination"`
	Include      []string         `yaml:"include"`
	Flatten      string           `yaml:"flatten"`
	Marker       string           `yaml:"marker"`
	Security     yamlSecurity     `yaml:"security"`
	VersionCheck yamlVersionCheck `yaml:"version_check"`
}

type yamlDownload struct {
	URL string `yaml:"url"`
}

type yamlSecurity struct {
	SHA256          string   `yaml:"sha256"`
	VerifySignature bool     `yaml:"verify_signature"`
	SignatureURL    string   `yaml:"signature_url"`
	GPGKeysURL      string   `yaml:"gpg_keys_url"`
	GPGKeyIDs       []string `yaml:"gpg_key_ids"`
}

type yamlVersionCheck struct {
	Source string `yaml:"source"`
}

// RecipeParser parses YAML vendor recipe files
type RecipeParser struct{}

// NewRecipeParser creates a new YAML parser
func NewRecipeParser() *RecipeParser {
	return &RecipeParser{}
}

// ParseFile parses a YAML recipe file into a Recipe entity
func (p *RecipeParser) ParseFile(filePath string) (*entities.Recipe, error) {
	//nolint:gosec // G304: filePath is recipe definition path from repository
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Recipe entity
func (p *RecipeParser) Parse(data []byte) (*entities.Recipe, error) {
	var yamlDef yamlRecipe
	if err := yaml.Unmarshal(data, &yamlDef); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if yamlDef.Name == "" {
		return nil, fmt.Errorf("recipe must have a name")
	}
	if yamlDef.Version == "" {
		return nil, fmt.Errorf("recipe %s must pin a version", yamlDef.Name)
	}
	if yamlDef.Download.URL == "" {
		return nil, fmt.Errorf("recipe %s must have a download.url", yamlDef.Name)
	}
	if len(yamlDef.Include) == 0 {
		return nil, fmt.Errorf("recipe %s must list at least one include path", yamlDef.Name)
	}
	if yamlDef.Security.VerifySignature && yamlDef.Security.SignatureURL == "" {
		return nil, fmt.Errorf("recipe %s enables signature verification without a signature_url", yamlDef.Name)
	}

	include := make([]string, 0, len(yamlDef.Include))
	for _, inc := range yamlDef.Include {
		cleaned := strings.Trim(filepath.ToSlash(inc), "/")
		if cleaned == "" || cleaned == "." {
			return nil, fmt.Errorf("recipe %s has an empty include path", yamlDef.Name)
		}
		include = append(include, cleaned)
	}

	// Default destination keeps vendored trees under a conventional directory
	destination := yamlDef.Destination
	if destination == "" {
		destination = filepath.Join("vendor", yamlDef.Name)
	}

	def := &entities.Recipe{
		Name:        yamlDef.Name,
		Version:     yamlDef.Version,
		Description: yamlDef.Description,
		Download:    entities.RecipeDownload{URL: yamlDef.Download.URL},
		Destination: destination,
		Include:     include,
		Flatten:     strings.Trim(filepath.ToSlash(yamlDef.Flatten), "/"),
		Marker:      yamlDef.Marker,
		Security: entities.RecipeSecurity{
			SHA256:          yamlDef.Security.SHA256,
			VerifySignature: yamlDef.Security.VerifySignature,
			SignatureURL:    yamlDef.Security.SignatureURL,
			GPGKeysURL:      yamlDef.Security.GPGKeysURL,
			GPGKeyIDs:       yamlDef.Security.GPGKeyIDs,
		},
		VersionCheck: entities.VersionCheckConfig{Source: yamlDef.VersionCheck.Source},
	}

	return def, nil
}
