// Package command defines the write-side messages and handlers for the
// program editor and the export pipeline.
package command

import (
	"time"

	"github.com/agendacreate/agenda/export"
	"github.com/agendacreate/agenda/program"
	"github.com/goliatone/go-errors"
)

// UpdateProgramField sets a single header field on the program.
type UpdateProgramField struct {
	Field  string
	Value  string
	Result *program.Program
}

func (UpdateProgramField) Type() string { return "program:update-field" }

func (msg UpdateProgramField) Validate() error {
	if msg.Field == "" {
		return errors.New("field name is required", errors.CategoryValidation).
			WithTextCode("FIELD_REQUIRED")
	}
	return nil
}

// UpdateHymn sets the number or title on one of the two hymn slots.
type UpdateHymn struct {
	Slot   program.HymnSlot
	Field  string
	Value  string
	Result *program.Program
}

func (UpdateHymn) Type() string { return "program:update-hymn" }

func (msg UpdateHymn) Validate() error {
	if msg.Slot != program.HymnOpening && msg.Slot != program.HymnClosing {
		return errors.New("hymn slot is invalid", errors.CategoryValidation).
			WithTextCode("HYMN_SLOT_INVALID")
	}
	if msg.Field == "" {
		return errors.New("hymn field is required", errors.CategoryValidation).
			WithTextCode("HYMN_FIELD_REQUIRED")
	}
	return nil
}

// AddPoint appends an empty agenda point.
type AddPoint struct {
	Result *program.Point
}

func (AddPoint) Type() string { return "program:add-point" }

func (AddPoint) Validate() error { return nil }

// UpdatePoint merges the given fields into an existing point.
type UpdatePoint struct {
	ID     string
	Update program.PointUpdate
	Result *program.Program
}

func (UpdatePoint) Type() string { return "program:update-point" }

func (msg UpdatePoint) Validate() error {
	if msg.ID == "" {
		return errors.New("point ID is required", errors.CategoryValidation).
			WithTextCode("POINT_ID_REQUIRED")
	}
	return nil
}

// RemovePoint deletes an agenda point. Removing the last remaining
// point is rejected by the editor.
type RemovePoint struct {
	ID     string
	Result *program.Program
}

func (RemovePoint) Type() string { return "program:remove-point" }

func (msg RemovePoint) Validate() error {
	if msg.ID == "" {
		return errors.New("point ID is required", errors.CategoryValidation).
			WithTextCode("POINT_ID_REQUIRED")
	}
	return nil
}

// ResetProgram discards the current program and seeds a fresh default.
type ResetProgram struct {
	Now    time.Time
	Result *program.Program
}

func (ResetProgram) Type() string { return "program:reset" }

func (ResetProgram) Validate() error { return nil }

// ReplaceProgram swaps in a whole program, last writer wins.
type ReplaceProgram struct {
	Program program.Program
}

func (ReplaceProgram) Type() string { return "program:replace" }

func (msg ReplaceProgram) Validate() error {
	if len(msg.Program.Points) == 0 {
		return errors.New("el programa debe tener al menos un punto", errors.CategoryValidation).
			WithTextCode("LAST_POINT")
	}
	return nil
}

// GenerateExport produces a downloadable artifact from the current
// program. Kind selects PDF or image output.
type GenerateExport struct {
	Kind   export.Kind
	Result *export.Artifact
}

func (GenerateExport) Type() string { return "export:generate" }

func (msg GenerateExport) Validate() error {
	switch msg.Kind {
	case export.KindPDF, export.KindImage:
		return nil
	case export.KindShare:
		return errors.New("share exports use the share command", errors.CategoryValidation).
			WithTextCode("KIND_SHARE")
	default:
		return errors.New("export kind is invalid", errors.CategoryValidation).
			WithTextCode("KIND_INVALID")
	}
}

// ShareProgram produces a share-grade image and resolves how it will
// be handed to the user.
type ShareProgram struct {
	Result *export.SharePlan
}

func (ShareProgram) Type() string { return "export:share" }

func (ShareProgram) Validate() error { return nil }

// SetTheme persists the dark-mode preference.
type SetTheme struct {
	DarkMode bool
}

func (SetTheme) Type() string { return "settings:set-theme" }

func (SetTheme) Validate() error { return nil }

// CleanupArtifacts removes stored artifacts older than the retention
// window.
type CleanupArtifacts struct {
	Now    time.Time
	Result *int
}

func (CleanupArtifacts) Type() string { return "export:cleanup" }

func (CleanupArtifacts) Validate() error { return nil }
