package server

import (
	"io"
	"net/http"
	"time"

	"github.com/agendacreate/agenda/command"
	"github.com/agendacreate/agenda/export"
	"github.com/agendacreate/agenda/program"
	"github.com/agendacreate/agenda/query"
	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ErrorBody is the wire shape of a failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Notice  string `json:"notice,omitempty"`
}

// ErrorResponse wraps an error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Health handles GET /health.
func (a *App) Health(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"busy":   a.Service.Busy(),
	})
}

// PreviewPage serves the rendered preview document. The same HTML is
// what the capture engine rasterizes, so what you see is what exports.
func (a *App) PreviewPage(c router.Context) error {
	handler := query.NewPreviewHTMLHandler(a.Editor, a.Renderer)
	html, err := handler.Query(c.Context(), query.PreviewHTML{})
	if err != nil {
		return writeError(c, err)
	}
	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	return c.Send(html)
}

// GetProgram handles GET /api/program.
func (a *App) GetProgram(c router.Context) error {
	handler := query.NewProgramSnapshotHandler(a.Editor)
	snapshot, err := handler.Query(c.Context(), query.ProgramSnapshot{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// ReplaceProgram handles POST /api/program.
func (a *App) ReplaceProgram(c router.Context) error {
	var payload program.Program
	if err := c.Bind(&payload); err != nil {
		return writeBadRequest(c, "invalid program payload")
	}
	msg := command.ReplaceProgram{Program: payload}
	if err := msg.Validate(); err != nil {
		return writeError(c, err)
	}
	handler := command.NewReplaceProgramHandler(a.Editor)
	if err := handler.Execute(c.Context(), msg); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a.Editor.Snapshot())
}

type fieldUpdatePayload struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateField handles PATCH /api/program.
func (a *App) UpdateField(c router.Context) error {
	var payload fieldUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return writeBadRequest(c, "invalid field payload")
	}
	msg := command.UpdateProgramField{Field: payload.Field, Value: payload.Value}
	if err := msg.Validate(); err != nil {
		return writeError(c, err)
	}
	var result program.Program
	msg.Result = &result
	handler := command.NewUpdateProgramFieldHandler(a.Editor)
	if err := handler.Execute(c.Context(), msg); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ResetProgram handles POST /api/program/reset.
func (a *App) ResetProgram(c router.Context) error {
	var result program.Program
	handler := command.NewResetProgramHandler(a.Editor)
	err := handler.Execute(c.Context(), command.ResetProgram{
		Now:    time.Now(),
		Result: &result,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateHymn handles PATCH /api/program/hymns/:slot.
func (a *App) UpdateHymn(c router.Context) error {
	var payload fieldUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return writeBadRequest(c, "invalid hymn payload")
	}
	msg := command.UpdateHymn{
		Slot:  program.HymnSlot(c.Param("slot")),
		Field: payload.Field,
		Value: payload.Value,
	}
	if err := msg.Validate(); err != nil {
		return writeError(c, err)
	}
	var result program.Program
	msg.Result = &result
	handler := command.NewUpdateHymnHandler(a.Editor)
	if err := handler.Execute(c.Context(), msg); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// AddPoint handles POST /api/program/points.
func (a *App) AddPoint(c router.Context) error {
	var point program.Point
	handler := command.NewAddPointHandler(a.Editor)
	if err := handler.Execute(c.Context(), command.AddPoint{Result: &point}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, point)
}

// UpdatePoint handles PATCH /api/program/points/:id.
func (a *App) UpdatePoint(c router.Context) error {
	var payload program.PointUpdate
	if err := c.Bind(&payload); err != nil {
		return writeBadRequest(c, "invalid point payload")
	}
	msg := command.UpdatePoint{ID: c.Param("id"), Update: payload}
	if err := msg.Validate(); err != nil {
		return writeError(c, err)
	}
	var result program.Program
	msg.Result = &result
	handler := command.NewUpdatePointHandler(a.Editor)
	if err := handler.Execute(c.Context(), msg); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// RemovePoint handles DELETE /api/program/points/:id.
func (a *App) RemovePoint(c router.Context) error {
	msg := command.RemovePoint{ID: c.Param("id")}
	if err := msg.Validate(); err != nil {
		return writeError(c, err)
	}
	var result program.Program
	msg.Result = &result
	handler := command.NewRemovePointHandler(a.Editor)
	if err := handler.Execute(c.Context(), msg); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ExportPDF handles POST /api/export/pdf.
func (a *App) ExportPDF(c router.Context) error {
	return a.generateExport(c, export.KindPDF)
}

// ExportImage handles POST /api/export/image.
func (a *App) ExportImage(c router.Context) error {
	return a.generateExport(c, export.KindImage)
}

func (a *App) generateExport(c router.Context, kind export.Kind) error {
	var artifact export.Artifact
	handler := command.NewGenerateExportHandler(a.Editor, a.Service)
	err := handler.Execute(c.Context(), command.GenerateExport{
		Kind:   kind,
		Result: &artifact,
	})
	if err != nil {
		return writeExportError(c, kind, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"key":         artifact.Key,
		"filename":    artifact.Filename,
		"contentType": artifact.ContentType,
		"size":        artifact.Size,
	})
}

// ShareProgram handles POST /api/export/share.
func (a *App) ShareProgram(c router.Context) error {
	var plan export.SharePlan
	handler := command.NewShareProgramHandler(a.Editor, a.Service)
	err := handler.Execute(c.Context(), command.ShareProgram{Result: &plan})
	if err != nil {
		return writeExportError(c, export.KindShare, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// DownloadArtifact handles GET /api/exports/:name.
func (a *App) DownloadArtifact(c router.Context) error {
	key := "exports/" + c.Param("name")
	rc, meta, err := a.Store.Open(c.Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return writeError(c, export.NewError(export.KindErrInternal, "failed to read artifact", err))
	}

	c.SetHeader("Content-Type", meta.ContentType)
	c.SetHeader("Content-Disposition", `attachment; filename="`+meta.Filename+`"`)
	return c.Send(data)
}

// ArtifactMetadata handles GET /api/exports/:name/meta.
func (a *App) ArtifactMetadata(c router.Context) error {
	handler := query.NewArtifactMetadataHandler(a.Store)
	ref, err := handler.Query(c.Context(), query.ArtifactMetadata{
		Key: "exports/" + c.Param("name"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ref)
}

// GetTheme handles GET /api/settings/theme.
func (a *App) GetTheme(c router.Context) error {
	handler := query.NewThemePreferenceHandler(a.Settings, a.Config.DefaultDarkMode)
	dark, err := handler.Query(c.Context(), query.ThemePreference{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"darkMode": dark})
}

type themePayload struct {
	DarkMode bool `json:"darkMode"`
}

// SetTheme handles POST /api/settings/theme.
func (a *App) SetTheme(c router.Context) error {
	var payload themePayload
	if err := c.Bind(&payload); err != nil {
		return writeBadRequest(c, "invalid theme payload")
	}
	handler := command.NewSetThemeHandler(a.Settings)
	if err := handler.Execute(c.Context(), command.SetTheme{DarkMode: payload.DarkMode}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"darkMode": payload.DarkMode})
}

func writeBadRequest(c router.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorBody{Message: msg, Code: "validation"},
	})
}

func writeError(c router.Context, err error) error {
	ge := export.AsGoError(err)
	return c.JSON(statusForError(ge), ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	})
}

// writeExportError adds the user-facing notice naming the failed
// action; the underlying cause stays in the code and message fields.
func writeExportError(c router.Context, kind export.Kind, err error) error {
	ge := export.AsGoError(err)
	return c.JSON(statusForError(ge), ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
			Notice:  export.UserMessage(kind),
		},
	})
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		switch err.TextCode {
		case "busy":
			return http.StatusConflict
		case "timeout":
			return http.StatusRequestTimeout
		case "canceled":
			return http.StatusConflict
		default:
			return http.StatusUnprocessableEntity
		}
	case errorslib.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
