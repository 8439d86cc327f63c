package command

import (
	"context"
	"time"

	"github.com/agendacreate/agenda/export"
	"github.com/agendacreate/agenda/program"
	"github.com/agendacreate/agenda/settings"
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
)

// UpdateProgramFieldHandler applies header field edits.
type UpdateProgramFieldHandler struct {
	Editor *program.Editor
}

func NewUpdateProgramFieldHandler(editor *program.Editor) *UpdateProgramFieldHandler {
	return &UpdateProgramFieldHandler{Editor: editor}
}

func (h *UpdateProgramFieldHandler) Execute(ctx context.Context, msg UpdateProgramField) error {
	if h == nil || h.Editor == nil {
		return errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	snapshot, err := h.Editor.UpdateField(msg.Field, msg.Value)
	if err != nil {
		return err
	}
	storeProgram(ctx, msg.Result, snapshot)
	return nil
}

// UpdateHymnHandler applies hymn edits.
type UpdateHymnHandler struct {
	Editor *program.Editor
}

func NewUpdateHymnHandler(editor *program.Editor) *UpdateHymnHandler {
	return &UpdateHymnHandler{Editor: editor}
}

func (h *UpdateHymnHandler) Execute(ctx context.Context, msg UpdateHymn) error {
	if h == nil || h.Editor == nil {
		return errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	snapshot, err := h.Editor.UpdateHymn(msg.Slot, msg.Field, msg.Value)
	if err != nil {
		return err
	}
	storeProgram(ctx, msg.Result, snapshot)
	return nil
}

// AddPointHandler appends a new empty point.
type AddPointHandler struct {
	Editor *program.Editor
}

func NewAddPointHandler(editor *program.Editor) *AddPointHandler {
	return &AddPointHandler{Editor: editor}
}

func (h *AddPointHandler) Execute(ctx context.Context, msg AddPoint) error {
	if h == nil || h.Editor == nil {
		return errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	_, point, err := h.Editor.AddPoint()
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = point
	}
	if res := gcmd.ResultFromContext[program.Point](ctx); res != nil {
		res.Store(point)
	}
	return nil
}

// UpdatePointHandler merges point edits.
type UpdatePointHandler struct {
	Editor *program.Editor
}

func NewUpdatePointHandler(editor *program.Editor) *UpdatePointHandler {
	return &UpdatePointHandler{Editor: editor}
}

func (h *UpdatePointHandler) Execute(ctx context.Context, msg UpdatePoint) error {
	if h == nil || h.Editor == nil {
		return errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	snapshot, err := h.Editor.UpdatePoint(msg.ID, msg.Update)
	if err != nil {
		return err
	}
	storeProgram(ctx, msg.Result, snapshot)
	return nil
}

// RemovePointHandler deletes a point.
type RemovePointHandler struct {
	Editor *program.Editor
}

func NewRemovePointHandler(editor *program.Editor) *RemovePointHandler {
	return &RemovePointHandler{Editor: editor}
}

func (h *RemovePointHandler) Execute(ctx context.Context, msg RemovePoint) error {
	if h == nil || h.Editor == nil {
		return errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	snapshot, err := h.Editor.RemovePoint(msg.ID)
	if err != nil {
		return err
	}
	storeProgram(ctx, msg.Result, snapshot)
	return nil
}

// ResetProgramHandler seeds a fresh default program.
type ResetProgramHandler struct {
	Editor *program.Editor
	Clock  func() time.Time
}

func NewResetProgramHandler(editor *program.Editor) *ResetProgramHandler {
	return &ResetProgramHandler{Editor: editor}
}

func (h *ResetProgramHandler) Execute(ctx context.Context, msg ResetProgram) error {
	if h == nil || h.Editor == nil {
		return errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	now := msg.Now
	if now.IsZero() {
		if h.Clock != nil {
			now = h.Clock()
		} else {
			now = time.Now()
		}
	}
	snapshot := h.Editor.Reset(now)
	storeProgram(ctx, msg.Result, snapshot)
	return nil
}

// ReplaceProgramHandler swaps in a full program.
type ReplaceProgramHandler struct {
	Editor *program.Editor
}

func NewReplaceProgramHandler(editor *program.Editor) *ReplaceProgramHandler {
	return &ReplaceProgramHandler{Editor: editor}
}

func (h *ReplaceProgramHandler) Execute(ctx context.Context, msg ReplaceProgram) error {
	if h == nil || h.Editor == nil {
		return errors.New("program editor is required", errors.CategoryInternal).
			WithTextCode("EDITOR_REQUIRED")
	}
	h.Editor.Replace(msg.Program)
	return nil
}

// GenerateExportHandler produces PDF and image artifacts.
type GenerateExportHandler struct {
	Editor  *program.Editor
	Service *export.Service
}

func NewGenerateExportHandler(editor *program.Editor, svc *export.Service) *GenerateExportHandler {
	return &GenerateExportHandler{Editor: editor, Service: svc}
}

func (h *GenerateExportHandler) Execute(ctx context.Context, msg GenerateExport) error {
	if h == nil || h.Editor == nil || h.Service == nil {
		return errors.New("export service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	snapshot := h.Editor.Snapshot()

	var (
		artifact export.Artifact
		err      error
	)
	switch msg.Kind {
	case export.KindPDF:
		artifact, err = h.Service.ExportPDF(ctx, snapshot)
	case export.KindImage:
		artifact, err = h.Service.ExportImage(ctx, snapshot)
	default:
		return errors.New("export kind is invalid", errors.CategoryValidation).
			WithTextCode("KIND_INVALID")
	}
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = artifact
	}
	if res := gcmd.ResultFromContext[export.Artifact](ctx); res != nil {
		res.Store(artifact)
	}
	return nil
}

// ShareProgramHandler produces a share image and resolves delivery.
type ShareProgramHandler struct {
	Editor  *program.Editor
	Service *export.Service
}

func NewShareProgramHandler(editor *program.Editor, svc *export.Service) *ShareProgramHandler {
	return &ShareProgramHandler{Editor: editor, Service: svc}
}

func (h *ShareProgramHandler) Execute(ctx context.Context, msg ShareProgram) error {
	if h == nil || h.Editor == nil || h.Service == nil {
		return errors.New("export service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	plan, err := h.Service.Share(ctx, h.Editor.Snapshot())
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = plan
	}
	if res := gcmd.ResultFromContext[export.SharePlan](ctx); res != nil {
		res.Store(plan)
	}
	return nil
}

// SetThemeHandler persists the dark-mode preference.
type SetThemeHandler struct {
	Store *settings.Store
}

func NewSetThemeHandler(store *settings.Store) *SetThemeHandler {
	return &SetThemeHandler{Store: store}
}

func (h *SetThemeHandler) Execute(ctx context.Context, msg SetTheme) error {
	if h == nil || h.Store == nil {
		return errors.New("settings store is required", errors.CategoryInternal).
			WithTextCode("STORE_REQUIRED")
	}
	return h.Store.SetDarkMode(ctx, msg.DarkMode)
}

// CleanupArtifactsHandler runs the retention sweep.
type CleanupArtifactsHandler struct {
	Retention export.Retention
	Config    gcmd.HandlerConfig
	Clock     func() time.Time
}

func NewCleanupArtifactsHandler(ret export.Retention) *CleanupArtifactsHandler {
	return &CleanupArtifactsHandler{Retention: ret}
}

func (h *CleanupArtifactsHandler) Execute(ctx context.Context, msg CleanupArtifacts) error {
	if h == nil || h.Retention.Store == nil {
		return errors.New("artifact store is required", errors.CategoryInternal).
			WithTextCode("STORE_REQUIRED")
	}
	now := msg.Now
	if now.IsZero() {
		if h.Clock != nil {
			now = h.Clock()
		} else {
			now = time.Now()
		}
	}
	count, err := h.Retention.Cleanup(ctx, now)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = count
	}
	if res := gcmd.ResultFromContext[int](ctx); res != nil {
		res.Store(count)
	}
	return nil
}

func (h *CleanupArtifactsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), CleanupArtifacts{})
	}
}

func (h *CleanupArtifactsHandler) CronOptions() gcmd.HandlerConfig {
	return h.Config
}

func storeProgram(ctx context.Context, dst *program.Program, snapshot program.Program) {
	if dst != nil {
		*dst = snapshot
	}
	if res := gcmd.ResultFromContext[program.Program](ctx); res != nil {
		res.Store(snapshot)
	}
}
