package query

import (
	"context"

	"github.com/agendacreate/agenda/export"
	"github.com/agendacreate/agenda/preview"
	"github.com/agendacreate/agenda/program"
	"github.com/agendacreate/agenda/settings"
	"github.com/goliatone/go-errors"
)

// ProgramSnapshotHandler returns a copy of the current program.
type ProgramSnapshotHandler struct {
	Editor *program.Editor
}

func NewProgramSnapshotHandler(editor *program.Editor) *ProgramSnapshotHandler {
	return &ProgramSnapshotHandler{Editor: editor}
}

func (h *ProgramSnapshotHandler) Query(ctx context.Context, msg ProgramSnapshot) (program.Program, error) {
	if h == nil || h.Editor == nil {
		return program.Program{}, errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	return h.Editor.Snapshot(), nil
}

// PreviewHTMLHandler renders the preview document for the current
// program.
type PreviewHTMLHandler struct {
	Editor   *program.Editor
	Renderer *preview.Renderer
}

func NewPreviewHTMLHandler(editor *program.Editor, renderer *preview.Renderer) *PreviewHTMLHandler {
	return &PreviewHTMLHandler{Editor: editor, Renderer: renderer}
}

func (h *PreviewHTMLHandler) Query(ctx context.Context, msg PreviewHTML) ([]byte, error) {
	if h == nil || h.Editor == nil || h.Renderer == nil {
		return nil, errors.New("preview renderer is required", errors.CategoryInternal).
			WithTextCode("RENDERER_REQUIRED")
	}
	return h.Renderer.Render(h.Editor.Snapshot())
}

// ArtifactMetadataHandler returns stored artifact metadata.
type ArtifactMetadataHandler struct {
	Store export.ArtifactStore
}

func NewArtifactMetadataHandler(store export.ArtifactStore) *ArtifactMetadataHandler {
	return &ArtifactMetadataHandler{Store: store}
}

func (h *ArtifactMetadataHandler) Query(ctx context.Context, msg ArtifactMetadata) (export.ArtifactRef, error) {
	if h == nil || h.Store == nil {
		return export.ArtifactRef{}, errors.New("artifact store is required", errors.CategoryInternal).
			WithTextCode("STORE_REQUIRED")
	}
	rc, meta, err := h.Store.Open(ctx, msg.Key)
	if err != nil {
		return export.ArtifactRef{}, err
	}
	rc.Close()
	return export.ArtifactRef{Key: msg.Key, Meta: meta}, nil
}

// ThemePreferenceHandler returns the persisted dark-mode value,
// falling back to the configured default when nothing is stored.
type ThemePreferenceHandler struct {
	Store   *settings.Store
	Default bool
}

func NewThemePreferenceHandler(store *settings.Store, def bool) *ThemePreferenceHandler {
	return &ThemePreferenceHandler{Store: store, Default: def}
}

func (h *ThemePreferenceHandler) Query(ctx context.Context, msg ThemePreference) (bool, error) {
	if h == nil || h.Store == nil {
		return false, errors.New("settings store is required", errors.CategoryInternal).
			WithTextCode("STORE_REQUIRED")
	}
	value, ok, err := h.Store.DarkMode(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return h.Default, nil
	}
	return value, nil
}
