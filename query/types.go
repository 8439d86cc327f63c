// Package query defines the read-side messages and handlers: program
// snapshots, rendered preview HTML, artifact lookups, and the theme
// preference.
package query

import (
	"github.com/goliatone/go-errors"
)

// ProgramSnapshot requests a copy of the current program.
type ProgramSnapshot struct{}

func (ProgramSnapshot) Type() string { return "program:snapshot" }

func (ProgramSnapshot) Validate() error { return nil }

// PreviewHTML requests the rendered preview document for the current
// program.
type PreviewHTML struct{}

func (PreviewHTML) Type() string { return "program:preview" }

func (PreviewHTML) Validate() error { return nil }

// ArtifactMetadata requests metadata for a stored artifact.
type ArtifactMetadata struct {
	Key string
}

func (ArtifactMetadata) Type() string { return "export:artifact-metadata" }

func (msg ArtifactMetadata) Validate() error {
	if msg.Key == "" {
		return errors.New("artifact key is required", errors.CategoryValidation).
			WithTextCode("KEY_REQUIRED")
	}
	return nil
}

// ThemePreference requests the persisted dark-mode preference.
type ThemePreference struct{}

func (ThemePreference) Type() string { return "settings:theme" }

func (ThemePreference) Validate() error { return nil }
