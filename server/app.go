// Package server wires the editor, preview renderer, export pipeline
// and settings store behind an HTTP API.
package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/agendacreate/agenda/adapters/chromium"
	"github.com/agendacreate/agenda/command"
	"github.com/agendacreate/agenda/config"
	"github.com/agendacreate/agenda/export"
	"github.com/agendacreate/agenda/preview"
	"github.com/agendacreate/agenda/program"
	"github.com/agendacreate/agenda/query"
	"github.com/agendacreate/agenda/settings"
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/robfig/cron/v3"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   *SimpleLogger
	Editor   *program.Editor
	Renderer *preview.Renderer
	Engine   *chromium.Engine
	Store    export.ArtifactStore
	Settings *settings.Store
	Service  *export.Service

	cleanup       *command.CleanupArtifactsHandler
	cron          *cron.Cron
	subscriptions []dispatcher.Subscription
}

// NewApp creates and initializes the application.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.Normalize()

	logger := NewSimpleLogger("agenda")

	var store export.ArtifactStore
	if cfg.Export.ArtifactDir != "" {
		if err := os.MkdirAll(cfg.Export.ArtifactDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory: %w", err)
		}
		store = export.NewFSStore(cfg.Export.ArtifactDir)
	} else {
		store = export.NewMemoryStore()
	}

	settingsStore, err := settings.Open(ctx, cfg.SettingsDB)
	if err != nil {
		return nil, err
	}

	editor := program.NewEditor(program.Default(time.Now()))
	renderer := &preview.Renderer{
		WardName: cfg.WardName,
		LogoURL:  cfg.LogoURL,
	}
	engine := &chromium.Engine{
		BrowserPath:         cfg.Browser.Path,
		Headless:            cfg.Browser.Headless,
		Timeout:             cfg.Browser.Timeout,
		Args:                cfg.Browser.Args,
		AllowExternalAssets: cfg.Browser.AllowExternalAssets,
	}

	service := export.NewService(export.ServiceConfig{
		Preview: export.PreviewSourceFunc(func() ([]byte, error) {
			return renderer.Render(editor.Snapshot())
		}),
		Raster:       engine,
		Store:        store,
		Logger:       logger,
		ImageScale:   cfg.Export.ImageScale,
		ShareScale:   cfg.Export.ShareScale,
		ReleaseDelay: cfg.Export.ReleaseDelay,
	})

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Editor:   editor,
		Renderer: renderer,
		Engine:   engine,
		Store:    store,
		Settings: settingsStore,
		Service:  service,
		cleanup: command.NewCleanupArtifactsHandler(export.Retention{
			Store:  store,
			TTL:    cfg.Export.RetentionTTL,
			Logger: logger,
		}),
	}

	subscriptions, err := app.RegisterHandlers(nil)
	if err != nil {
		_ = settingsStore.Close()
		return nil, err
	}
	app.subscriptions = subscriptions

	return app, nil
}

// RegisterHandlers wires the command and query handlers to go-command.
func (a *App) RegisterHandlers(reg *gcmd.Registry) ([]dispatcher.Subscription, error) {
	updateField := command.NewUpdateProgramFieldHandler(a.Editor)
	updateHymn := command.NewUpdateHymnHandler(a.Editor)
	addPoint := command.NewAddPointHandler(a.Editor)
	updatePoint := command.NewUpdatePointHandler(a.Editor)
	removePoint := command.NewRemovePointHandler(a.Editor)
	reset := command.NewResetProgramHandler(a.Editor)
	replace := command.NewReplaceProgramHandler(a.Editor)
	generate := command.NewGenerateExportHandler(a.Editor, a.Service)
	share := command.NewShareProgramHandler(a.Editor, a.Service)
	setTheme := command.NewSetThemeHandler(a.Settings)

	snapshot := query.NewProgramSnapshotHandler(a.Editor)
	previewHTML := query.NewPreviewHTMLHandler(a.Editor, a.Renderer)
	artifactMeta := query.NewArtifactMetadataHandler(a.Store)
	theme := query.NewThemePreferenceHandler(a.Settings, a.Config.DefaultDarkMode)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(updateField),
		dispatcher.SubscribeCommand(updateHymn),
		dispatcher.SubscribeCommand(addPoint),
		dispatcher.SubscribeCommand(updatePoint),
		dispatcher.SubscribeCommand(removePoint),
		dispatcher.SubscribeCommand(reset),
		dispatcher.SubscribeCommand(replace),
		dispatcher.SubscribeCommand(generate),
		dispatcher.SubscribeCommand(share),
		dispatcher.SubscribeCommand(setTheme),
		dispatcher.SubscribeCommand(a.cleanup),
		dispatcher.SubscribeQuery(snapshot),
		dispatcher.SubscribeQuery(previewHTML),
		dispatcher.SubscribeQuery(artifactMeta),
		dispatcher.SubscribeQuery(theme),
	}

	if reg != nil {
		handlers := []any{
			updateField,
			updateHymn,
			addPoint,
			updatePoint,
			removePoint,
			reset,
			replace,
			generate,
			share,
			setTheme,
			a.cleanup,
			snapshot,
			previewHTML,
			artifactMeta,
			theme,
		}
		for _, handler := range handlers {
			if err := reg.RegisterCommand(handler); err != nil {
				return subscriptions, err
			}
		}
	}

	return subscriptions, nil
}

// StartCleanup schedules the retention sweep.
func (a *App) StartCleanup() error {
	if a.cron != nil {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(a.Config.Export.CleanupCron, func() {
		if err := a.cleanup.CronHandler()(); err != nil {
			a.Logger.Errorf("artifact cleanup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}
	c.Start()
	a.cron = c
	return nil
}

// Close releases app resources.
func (a *App) Close() error {
	for _, sub := range a.subscriptions {
		sub.Unsubscribe()
	}
	if a.cron != nil {
		a.cron.Stop()
	}
	if a.Engine != nil {
		a.Engine.Close()
	}
	if a.Settings != nil {
		return a.Settings.Close()
	}
	return nil
}
