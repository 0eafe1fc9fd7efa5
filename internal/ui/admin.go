package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/platelayout/internal/model"
	"github.com/piwi3910/platelayout/internal/project"
)

// showSettingsDialog displays the application settings editor. Catalog
// changes take effect on the next start.
func (a *App) showSettingsDialog() {
	cfg := a.config

	sourceSelect := widget.NewSelect([]string{model.CatalogStatic, model.CatalogFile, model.CatalogSQL}, func(selected string) {
		cfg.CatalogSource = selected
	})
	sourceSelect.SetSelected(cfg.CatalogSource)

	fileEntry := widget.NewEntry()
	fileEntry.SetText(cfg.CatalogFile)
	fileEntry.SetPlaceHolder(project.DefaultBoardsPath())
	fileEntry.OnChanged = func(text string) { cfg.CatalogFile = text }

	delayEntry := widget.NewEntry()
	delayEntry.SetText(strconv.Itoa(cfg.CatalogDelayMS))
	delayEntry.OnChanged = func(text string) {
		if v, err := strconv.Atoi(text); err == nil && v >= 0 {
			cfg.CatalogDelayMS = v
		}
	}

	driverEntry := widget.NewEntry()
	driverEntry.SetText(cfg.DatabaseDriver)
	driverEntry.OnChanged = func(text string) { cfg.DatabaseDriver = text }

	urlEntry := widget.NewPasswordEntry()
	urlEntry.SetText(cfg.DatabaseURL)
	urlEntry.OnChanged = func(text string) { cfg.DatabaseURL = text }

	strictCheck := widget.NewCheck("Report unknown pieces and boards", func(on bool) {
		cfg.StrictLookups = on
	})
	strictCheck.SetChecked(cfg.StrictLookups)

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Strict Lookups", strictCheck),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Board Catalog", sourceSelect),
		widget.NewFormItem("Catalog File", fileEntry),
		widget.NewFormItem("Static Delay (ms)", delayEntry),
		widget.NewFormItem("Database Driver", driverEntry),
		widget.NewFormItem("Database URL", urlEntry),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.config = cfg
			fyne.CurrentApp().Settings().SetTheme(NewPlateLayoutTheme(cfg.Theme))
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved",
					"Application settings have been saved.\nCatalog changes apply after a restart.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 450))
	d.Show()
}

// showImportExportDialog displays the backup and restore dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			boards := a.session.Snapshot().Boards
			if err := project.ExportAllData(path, a.config, boards); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and %d boards exported to:\n%s", len(boards), path), a.window)
			}
		}, a.window)
		d.SetFileName("platelayout-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings and board list\nand clear the current board.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.restore(backup)
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings and the board list to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Backup / Restore", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restore applies a backup: config is saved, boards replace the session's
// list and are written to the catalog file when that source is in use.
func (a *App) restore(backup project.BackupData) {
	a.config = backup.Config
	if err := a.saveConfig(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
		return
	}
	if a.config.CatalogSource == model.CatalogFile {
		path := a.config.CatalogFile
		if path == "" {
			path = project.DefaultBoardsPath()
		}
		if err := project.SaveBoards(path, backup.Boards); err != nil {
			a.log.Printf("writing restored boards to %s: %v", path, err)
		}
	}
	a.session.SetBoards(backup.Boards)
	if b, ok := a.session.ActiveBoard(); ok {
		a.session.SelectBoard(b.ID)
	}
	fyne.CurrentApp().Settings().SetTheme(NewPlateLayoutTheme(a.config.Theme))
	a.Refresh()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
