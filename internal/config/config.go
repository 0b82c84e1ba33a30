// Package config loads the generator's subxt.yaml configuration.
//
// The file carries the user-side half of the substitution table: the crate
// anchor the defaults are rooted under, and the list of extra type
// substitutions to ingest.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/airzhe/subxt/internal/substitutes"
	"github.com/airzhe/subxt/internal/typepath"
)

// DefaultCratePath is the crate anchor used when crate_path is omitted.
const DefaultCratePath = "::subxt"

// Config represents the top-level subxt.yaml configuration.
type Config struct {
	// CratePath is the absolute path of the generated code's own crate,
	// used as the anchor for default substitution targets.
	// Defaults to "::subxt" if omitted.
	CratePath string `yaml:"crate_path,omitempty"`

	// Substitutes lists the user type substitutions, applied on top of the
	// built-in defaults. A later entry for the same source type overrides
	// an earlier one.
	Substitutes []Substitute `yaml:"substitutes"`
}

// Substitute is a single type substitution.
type Substitute struct {
	// Type is the source type path pattern as it appears in the schema
	// (e.g. "sp_runtime::MultiSignature" or "my_pallet::Wrapper<A, B>").
	Type string `yaml:"type"`

	// With is the absolute target type path to emit instead. It must start
	// with the global separator or the self-crate marker.
	With string `yaml:"with"`
}

// LoadConfig reads and parses a subxt.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses subxt.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	if cfg.CratePath == "" {
		cfg.CratePath = DefaultCratePath
	}
	return &cfg, nil
}

// FindConfig searches for subxt.yaml starting from dir and walking up to
// parent directories. Returns the path to the config file and nil error if
// found, or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "subxt.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		// Also check subxt.yml (common alternative)
		candidate = filepath.Join(dir, "subxt.yml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if len(c.Substitutes) == 0 {
		return fmt.Errorf("%s: no substitutes defined", path)
	}
	for i, sub := range c.Substitutes {
		if sub.Type == "" {
			return fmt.Errorf("%s: substitutes[%d]: type is required", path, i)
		}
		if sub.With == "" {
			return fmt.Errorf("%s: substitutes[%d] (%s): with is required", path, i, sub.Type)
		}
	}
	return nil
}

// Anchor parses the configured crate path, which must itself be absolute.
func (c *Config) Anchor() (*typepath.Path, error) {
	anchor, derr := typepath.Parse(c.CratePath)
	if derr != nil {
		return nil, fmt.Errorf("crate_path %q: %w", c.CratePath, derr)
	}
	abs, aerr := substitutes.NewAbsolutePath(anchor)
	if aerr != nil {
		return nil, fmt.Errorf("crate_path %q: %w", c.CratePath, aerr)
	}
	return abs.Path(), nil
}

// EntryError reports which substitutes entry failed and which of its two
// path fields the position-anchored cause points into.
type EntryError struct {
	Index int
	Field string // "type" or "with"
	Text  string // the raw field text the diagnostic anchors into
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("substitutes[%d]: %s %q: %v", e.Index, e.Field, e.Text, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Entries parses the configured substitutions into table entries, validating
// each target through the absolute-path boundary.
func (c *Config) Entries() ([]substitutes.Entry, error) {
	entries := make([]substitutes.Entry, 0, len(c.Substitutes))
	for i, sub := range c.Substitutes {
		source, derr := typepath.Parse(sub.Type)
		if derr != nil {
			return nil, &EntryError{Index: i, Field: "type", Text: sub.Type, Err: derr}
		}
		targetPath, derr := typepath.Parse(sub.With)
		if derr != nil {
			return nil, &EntryError{Index: i, Field: "with", Text: sub.With, Err: derr}
		}
		target, aerr := substitutes.NewAbsolutePath(targetPath)
		if aerr != nil {
			return nil, &EntryError{Index: i, Field: "with", Text: sub.With, Err: aerr}
		}
		entries = append(entries, substitutes.Entry{Source: source, Target: target})
	}
	return entries, nil
}
