package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agendacreate/agenda/export"
	"github.com/agendacreate/agenda/program"
)

type fakeRaster struct {
	pdfCalls   int
	imageCalls int
}

func (r *fakeRaster) RenderPDF(ctx context.Context, html []byte, opts export.PDFOptions) ([]byte, error) {
	r.pdfCalls++
	return []byte("%PDF-fake"), nil
}

func (r *fakeRaster) RenderPNG(ctx context.Context, html []byte, opts export.ImageOptions) ([]byte, error) {
	r.imageCalls++
	return []byte("png-fake"), nil
}

func newTestEditor() *program.Editor {
	return program.NewEditor(program.Default(time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)))
}

func newTestService(editor *program.Editor, raster *fakeRaster) *export.Service {
	return export.NewService(export.ServiceConfig{
		Preview: export.PreviewSourceFunc(func() ([]byte, error) {
			return []byte(`<div id="program-preview"></div>`), nil
		}),
		Raster:       raster,
		Store:        export.NewMemoryStore(),
		ReleaseDelay: time.Hour,
	})
}

func TestUpdateProgramFieldHandler(t *testing.T) {
	editor := newTestEditor()
	handler := NewUpdateProgramFieldHandler(editor)

	var result program.Program
	err := handler.Execute(context.Background(), UpdateProgramField{
		Field:  program.FieldPresider,
		Value:  "Hermano Pérez",
		Result: &result,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Presider != "Hermano Pérez" {
		t.Errorf("Presider = %q", result.Presider)
	}
	if editor.Snapshot().Presider != "Hermano Pérez" {
		t.Error("editor state not updated")
	}
}

func TestUpdateProgramFieldValidation(t *testing.T) {
	msg := UpdateProgramField{}
	if err := msg.Validate(); err == nil {
		t.Error("expected validation error for empty field")
	}
}

func TestUpdateHymnHandler(t *testing.T) {
	editor := newTestEditor()
	handler := NewUpdateHymnHandler(editor)

	err := handler.Execute(context.Background(), UpdateHymn{
		Slot:  program.HymnOpening,
		Field: program.HymnFieldNumber,
		Value: "87",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := editor.Snapshot().OpeningHymn.Number; got != "87" {
		t.Errorf("OpeningHymn.Number = %q", got)
	}
}

func TestUpdateHymnValidation(t *testing.T) {
	msg := UpdateHymn{Slot: "intermedio", Field: program.HymnFieldTitle}
	if err := msg.Validate(); err == nil {
		t.Error("expected validation error for unknown slot")
	}
}

func TestAddPointHandler(t *testing.T) {
	editor := newTestEditor()
	handler := NewAddPointHandler(editor)

	var point program.Point
	if err := handler.Execute(context.Background(), AddPoint{Result: &point}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if point.ID == "" {
		t.Error("expected new point to carry an ID")
	}
	if got := len(editor.Snapshot().Points); got != 2 {
		t.Errorf("point count = %d, want 2", got)
	}
}

func TestUpdateAndRemovePointHandlers(t *testing.T) {
	editor := newTestEditor()
	addHandler := NewAddPointHandler(editor)

	var added program.Point
	if err := addHandler.Execute(context.Background(), AddPoint{Result: &added}); err != nil {
		t.Fatalf("AddPoint error = %v", err)
	}

	title := "Asuntos del barrio"
	updateHandler := NewUpdatePointHandler(editor)
	err := updateHandler.Execute(context.Background(), UpdatePoint{
		ID:     added.ID,
		Update: program.PointUpdate{Title: &title},
	})
	if err != nil {
		t.Fatalf("UpdatePoint error = %v", err)
	}

	removeHandler := NewRemovePointHandler(editor)
	if err := removeHandler.Execute(context.Background(), RemovePoint{ID: added.ID}); err != nil {
		t.Fatalf("RemovePoint error = %v", err)
	}
	if got := len(editor.Snapshot().Points); got != 1 {
		t.Errorf("point count = %d, want 1", got)
	}
}

func TestRemovePointHandlerKeepsLastPoint(t *testing.T) {
	editor := newTestEditor()
	handler := NewRemovePointHandler(editor)

	id := editor.Snapshot().Points[0].ID
	err := handler.Execute(context.Background(), RemovePoint{ID: id})
	if !errors.Is(err, program.ErrLastPoint) {
		t.Fatalf("error = %v, want ErrLastPoint", err)
	}
}

func TestResetProgramHandler(t *testing.T) {
	editor := newTestEditor()
	if _, err := editor.UpdateField(program.FieldPresider, "Hermano Ruiz"); err != nil {
		t.Fatal(err)
	}

	handler := NewResetProgramHandler(editor)
	var result program.Program
	err := handler.Execute(context.Background(), ResetProgram{
		Now:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Result: &result,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Presider != "" {
		t.Error("reset should clear the presider")
	}
	if result.Date != "2024-05-01" {
		t.Errorf("Date = %q", result.Date)
	}
}

func TestReplaceProgramValidation(t *testing.T) {
	msg := ReplaceProgram{Program: program.Program{}}
	if err := msg.Validate(); err == nil {
		t.Error("expected validation error for program without points")
	}
}

func TestGenerateExportHandler(t *testing.T) {
	editor := newTestEditor()
	raster := &fakeRaster{}
	handler := NewGenerateExportHandler(editor, newTestService(editor, raster))

	var artifact export.Artifact
	err := handler.Execute(context.Background(), GenerateExport{
		Kind:   export.KindPDF,
		Result: &artifact,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if raster.pdfCalls != 1 {
		t.Errorf("pdfCalls = %d, want 1", raster.pdfCalls)
	}
	if artifact.ContentType != export.ContentTypePDF {
		t.Errorf("ContentType = %q", artifact.ContentType)
	}
}

func TestGenerateExportValidation(t *testing.T) {
	if err := (GenerateExport{Kind: export.KindShare}).Validate(); err == nil {
		t.Error("share kind should be rejected")
	}
	if err := (GenerateExport{Kind: "csv"}).Validate(); err == nil {
		t.Error("unknown kind should be rejected")
	}
	if err := (GenerateExport{Kind: export.KindImage}).Validate(); err != nil {
		t.Errorf("image kind rejected: %v", err)
	}
}

func TestShareProgramHandlerFallsBackToWhatsApp(t *testing.T) {
	editor := newTestEditor()
	raster := &fakeRaster{}
	handler := NewShareProgramHandler(editor, newTestService(editor, raster))

	var plan export.SharePlan
	if err := handler.Execute(context.Background(), ShareProgram{Result: &plan}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// No native sharer configured, so delivery falls back.
	if plan.Mode != export.ShareModeWhatsApp {
		t.Errorf("Mode = %q, want whatsapp", plan.Mode)
	}
	if raster.imageCalls != 1 {
		t.Errorf("imageCalls = %d, want 1", raster.imageCalls)
	}
}

func TestCleanupArtifactsHandler(t *testing.T) {
	store := export.NewMemoryStore()
	handler := NewCleanupArtifactsHandler(export.Retention{
		Store: store,
		TTL:   time.Hour,
	})

	var count int
	err := handler.Execute(context.Background(), CleanupArtifacts{
		Now:    time.Now(),
		Result: &count,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 on empty store", count)
	}
}

func TestNilHandlers(t *testing.T) {
	ctx := context.Background()

	if err := (&UpdateProgramFieldHandler{}).Execute(ctx, UpdateProgramField{Field: "x"}); err == nil {
		t.Error("expected error without editor")
	}
	if err := (&GenerateExportHandler{}).Execute(ctx, GenerateExport{Kind: export.KindPDF}); err == nil {
		t.Error("expected error without service")
	}
	if err := (&SetThemeHandler{}).Execute(ctx, SetTheme{DarkMode: true}); err == nil {
		t.Error("expected error without store")
	}
}
