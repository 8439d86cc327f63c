package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// SetupRoutes registers all application routes.
func (a *App) SetupRoutes(r router.Router[*fiber.App]) {
	r.Get("/health", a.Health)
	r.Get("/", a.PreviewPage)
	r.Get("/preview", a.PreviewPage)

	r.Get("/api/program", a.GetProgram)
	r.Post("/api/program", a.ReplaceProgram)
	r.Patch("/api/program", a.UpdateField)
	r.Post("/api/program/reset", a.ResetProgram)
	r.Patch("/api/program/hymns/:slot", a.UpdateHymn)
	r.Post("/api/program/points", a.AddPoint)
	r.Patch("/api/program/points/:id", a.UpdatePoint)
	r.Delete("/api/program/points/:id", a.RemovePoint)

	r.Post("/api/export/pdf", a.ExportPDF)
	r.Post("/api/export/image", a.ExportImage)
	r.Post("/api/export/share", a.ShareProgram)
	r.Get("/api/exports/:name", a.DownloadArtifact)
	r.Get("/api/exports/:name/meta", a.ArtifactMetadata)

	r.Get("/api/settings/theme", a.GetTheme)
	r.Post("/api/settings/theme", a.SetTheme)
}
