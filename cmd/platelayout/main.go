// PlateLayout - Board Layout Planner
//
// A cross-platform desktop application for arranging rectangular pieces
// on a stock board by hand.
//
// Build:
//   go build -o platelayout ./cmd/platelayout
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"context"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	_ "github.com/lib/pq"

	"github.com/piwi3910/platelayout/internal/catalog"
	"github.com/piwi3910/platelayout/internal/log"
	"github.com/piwi3910/platelayout/internal/model"
	"github.com/piwi3910/platelayout/internal/project"
	"github.com/piwi3910/platelayout/internal/session"
	"github.com/piwi3910/platelayout/internal/ui"
)

func main() {
	logger := log.New(os.Stderr, "platelayout ")

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Printf("loading config, using defaults: %v", err)
		cfg = model.DefaultAppConfig()
	}

	application := app.NewWithID("com.piwi3910.platelayout")
	application.Settings().SetTheme(ui.NewPlateLayoutTheme(cfg.Theme))

	window := application.NewWindow("PlateLayout - Board Layout Planner")

	s := session.New(session.Config{
		Log:           logger,
		StrictLookups: cfg.StrictLookups,
	})

	appUI := ui.NewApp(window, s, cfg, logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := catalog.FromConfig(cfg, logger)
	if err != nil {
		logger.Printf("board catalog unavailable, using built-in boards: %v", err)
		provider = catalog.NewStatic(0)
	}
	if c, ok := provider.(interface{ Close() error }); ok {
		defer c.Close()
	}
	appUI.LoadCatalog(ctx, provider)

	window.ShowAndRun()
}
