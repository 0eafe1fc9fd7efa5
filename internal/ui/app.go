package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/platelayout/internal/catalog"
	"github.com/piwi3910/platelayout/internal/engine"
	"github.com/piwi3910/platelayout/internal/export"
	pieceimporter "github.com/piwi3910/platelayout/internal/importer"
	"github.com/piwi3910/platelayout/internal/log"
	"github.com/piwi3910/platelayout/internal/model"
	"github.com/piwi3910/platelayout/internal/session"
	"github.com/piwi3910/platelayout/internal/ui/widgets"
)

// App holds the window, the session it edits and UI references.
type App struct {
	window  fyne.Window
	session *session.Session
	config  model.AppConfig
	log     log.Logger

	// template armed for insertion by the next tap on the board
	armed string

	// UI references for dynamic updates
	boardSelect     *widget.Select
	piecesContainer *fyne.Container
	board           *widgets.BoardCanvas
	status          *widget.Label
	stats           *widget.Label
}

func NewApp(window fyne.Window, s *session.Session, cfg model.AppConfig, l log.Logger) *App {
	return &App{
		window:  window,
		session: s,
		config:  cfg,
		log:     log.OrDiscard(l),
	}
}

// LoadCatalog fetches boards in the background and refreshes the UI when
// they arrive.
func (a *App) LoadCatalog(ctx context.Context, p catalog.Provider) {
	go func() {
		err := a.session.LoadCatalog(ctx, p)
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(err, a.window)
			}
			a.Refresh()
		})
	}()
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
		fyne.NewMenuItem("Backup / Restore...", a.showImportExportDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	importMenu := fyne.NewMenu("Import",
		fyne.NewMenuItem("Pieces from Text...", a.showImportTextDialog),
		fyne.NewMenuItem("Pieces from CSV...", func() {
			a.importFile(pieceimporter.ImportCSV)
		}),
		fyne.NewMenuItem("Pieces from Excel...", func() {
			a.importFile(pieceimporter.ImportExcel)
		}),
		fyne.NewMenuItem("Pieces from DXF...", a.importDXF),
	)

	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("Layout PDF...", a.exportPDF),
		fyne.NewMenuItem("Piece Labels...", a.exportLabels),
	)

	boardMenu := fyne.NewMenu("Board",
		fyne.NewMenuItem("New Board...", a.showNewBoardDialog),
		fyne.NewMenuItem("Clear Board", func() {
			if b, ok := a.session.ActiveBoard(); ok {
				a.session.SelectBoard(b.ID)
				a.Refresh()
			}
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, importMenu, exportMenu, boardMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PlateLayout",
		"PlateLayout - Board Layout Planner\n\n"+
			"Arrange rectangular pieces on a stock board\n"+
			"and keep track of what is left to place.\n\n"+
			"Tap a piece's place button, then tap the board.\n"+
			"Drag to move. Right-click to remove.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.boardSelect = widget.NewSelect(nil, func(name string) {
		a.selectBoardByName(name)
	})
	a.boardSelect.PlaceHolder = "Loading boards..."

	a.board = widgets.NewBoardCanvas(900, 600)
	a.board.OnTapped = a.insertArmed
	a.board.OnSelect = func(id string) {
		a.session.SelectPiece(id)
		a.Refresh()
	}
	a.board.OnMove = func(id string, x, y float64) {
		a.session.Move(id, x, y)
		a.Refresh()
	}
	a.board.OnSecondaryTapped = func(id string) {
		a.session.Remove(id)
		a.Refresh()
	}

	a.status = widget.NewLabel("")
	a.status.Importance = widget.DangerImportance
	a.stats = widget.NewLabel("")

	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Board", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.boardSelect,
		newIconButtonWithTooltip(theme.ContentAddIcon(), "New board", a.showNewBoardDialog),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export layout PDF", a.exportPDF),
		newIconButtonWithTooltip(theme.DocumentIcon(), "Export piece labels", a.exportLabels),
	)

	dismiss := newIconButtonWithTooltip(theme.CancelIcon(), "Dismiss", func() {
		a.session.ClearError()
		a.Refresh()
	})
	statusBar := container.NewBorder(nil, nil, nil, container.NewHBox(a.stats, dismiss), a.status)

	split := container.NewHSplit(a.buildPiecesPanel(), container.NewScroll(a.board))
	split.Offset = 0.3

	a.Refresh()
	return withToolTipLayer(container.NewBorder(toolbar, statusBar, nil, nil, split), a.window)
}

// ─── Pieces Panel ──────────────────────────────────────────

func (a *App) buildPiecesPanel() fyne.CanvasObject {
	a.piecesContainer = container.NewVBox()

	addBtn := widget.NewButtonWithIcon("Add Piece", theme.ContentAddIcon(), a.showAddPieceDialog)
	importBtn := newIconButtonWithTooltip(theme.FolderOpenIcon(), "Import pieces from text", a.showImportTextDialog)

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Pieces", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			importBtn,
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.piecesContainer),
	)
}

func (a *App) refreshPiecesList(st session.State) {
	a.piecesContainer.RemoveAll()

	if len(st.Templates) == 0 {
		a.piecesContainer.Add(widget.NewLabel("No pieces yet. Click 'Add Piece' to begin."))
		return
	}

	header := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Size", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Left", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.piecesContainer.Add(header)
	a.piecesContainer.Add(widget.NewSeparator())

	for _, tpl := range st.Templates {
		id := tpl.ID
		swatch := canvas.NewRectangle(tpl.Color.NRGBA(255))
		swatch.SetMinSize(fyne.NewSize(16, 16))

		placeBtn := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
			a.arm(id)
		})
		if a.armed == id {
			placeBtn.Importance = widget.HighImportance
		}
		if tpl.Quantity <= 0 {
			placeBtn.Disable()
		}

		row := container.NewGridWithColumns(5,
			container.NewCenter(swatch),
			widget.NewLabel(tpl.Name),
			widget.NewLabel(fmt.Sprintf("%d x %d", tpl.Width, tpl.Height)),
			widget.NewLabel(strconv.Itoa(tpl.Quantity)),
			placeBtn,
		)
		a.piecesContainer.Add(row)
	}
}

func (a *App) arm(templateID string) {
	if a.armed == templateID {
		a.armed = ""
	} else {
		a.armed = templateID
	}
	a.Refresh()
}

func (a *App) insertArmed(x, y float64) {
	if a.armed == "" {
		return
	}
	if _, err := a.session.Insert(a.armed, x, y); errors.Is(err, engine.ErrNoStockRemaining) {
		a.armed = ""
	}
	a.Refresh()
}

func (a *App) showAddPieceDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Piece name")

	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("Width")

	heightEntry := widget.NewEntry()
	heightEntry.SetPlaceHolder("Height")

	qtyEntry := widget.NewEntry()
	qtyEntry.SetText("1")

	form := dialog.NewForm("Add Piece", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, errW := pieceimporter.ParseNumber(widthEntry.Text)
			h, errH := pieceimporter.ParseNumber(heightEntry.Text)
			q, errQ := pieceimporter.ParseNumber(qtyEntry.Text)
			if errW != nil || errH != nil || errQ != nil {
				dialog.ShowError(fmt.Errorf("width, height and quantity must be whole numbers"), a.window)
				return
			}
			req := model.TemplateRequest{Name: nameEntry.Text, Width: w, Height: h, Quantity: q}
			if err := a.session.AddTemplate(req); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.Refresh()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

// ─── Boards ────────────────────────────────────────────────

func (a *App) selectBoardByName(name string) {
	st := a.session.Snapshot()
	for _, b := range st.Boards {
		if boardLabel(b) != name || b.ID == st.ActiveBoardID {
			continue
		}
		a.session.SelectBoard(b.ID)
		a.log.Printf("board %s selected", b.ID)
		a.Refresh()
		return
	}
}

func (a *App) showNewBoardDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Board name")

	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()

	form := dialog.NewForm("New Board", "Create", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.Atoi(strings.TrimSpace(widthEntry.Text))
			h, _ := strconv.Atoi(strings.TrimSpace(heightEntry.Text))
			if _, err := a.session.CreateBoard(nameEntry.Text, w, h); err != nil {
				dialog.ShowError(fmt.Errorf("a board needs a name and a positive width and height"), a.window)
				return
			}
			a.Refresh()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 250))
	form.Show()
}

func boardLabel(b model.Board) string {
	return fmt.Sprintf("%s (%d x %d)", b.Name, b.Width, b.Height)
}

// ─── Refresh ───────────────────────────────────────────────

// Refresh redraws every view from a fresh session snapshot.
func (a *App) Refresh() {
	st := a.session.Snapshot()

	if _, ok := model.FindTemplate(st.Templates, a.armed); !ok {
		a.armed = ""
	}

	var options []string
	var selected string
	var active model.Board
	for _, b := range st.Boards {
		options = append(options, boardLabel(b))
		if b.ID == st.ActiveBoardID {
			selected = boardLabel(b)
			active = b
		}
	}
	a.boardSelect.Options = options
	if a.boardSelect.Selected != selected {
		a.boardSelect.Selected = selected
	}
	a.boardSelect.Refresh()

	a.refreshPiecesList(st)
	a.board.Update(active, st.Placed, st.SelectedID)

	a.status.SetText(errorText(st.Err))
	s := a.session.Stats()
	a.stats.SetText(fmt.Sprintf("%d placed | %.1f%% used | %d left", s.PlacedCount, s.Utilization, s.Remaining))
}

// errorText turns the last session error into a status line.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	if msg := engine.ReasonOf(err).Message(); msg != "" {
		return msg
	}
	if errors.Is(err, pieceimporter.ErrInvalidImportFormat) {
		return "Import failed: " + err.Error()
	}
	return err.Error()
}

// ─── Import Functions ──────────────────────────────────────

func (a *App) showImportTextDialog() {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("name,width,height,quantity\nLeg,50,50,4")
	entry.SetMinRowsVisible(8)

	d := dialog.NewCustomConfirm("Import Pieces", "Import", "Cancel", entry, func(ok bool) {
		if !ok {
			return
		}
		if err := a.session.ImportText(entry.Text); err != nil {
			a.log.Printf("text import failed: %v", err)
		}
		a.Refresh()
	}, a.window)
	d.Resize(fyne.NewSize(450, 320))
	d.Show()
}

func (a *App) importFile(importFn func(string) (pieceimporter.ImportResult, error)) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result, err := importFn(reader.URI().Path())
		a.handleImportResult(result, err)
	}, a.window)
}

func (a *App) importDXF() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		result, err := pieceimporter.ImportDXF(path, name)
		a.handleImportResult(result, err)
	}, a.window)
}

func (a *App) handleImportResult(result pieceimporter.ImportResult, err error) {
	if len(result.Warnings) > 0 {
		a.log.Printf("import warnings: %v", result.Warnings)
	}
	err = a.session.ApplyImport(result.Requests, err)
	a.Refresh()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	total := 0
	for _, r := range result.Requests {
		total += r.Quantity
	}
	dialog.ShowInformation("Import Complete",
		fmt.Sprintf("Imported %d pieces in %d rows.", total, len(result.Requests)), a.window)
}

// ─── Export Functions ──────────────────────────────────────

func (a *App) exportPDF() {
	a.exportTo("layout.pdf", export.ExportLayoutPDF)
}

func (a *App) exportLabels() {
	a.exportTo("labels.pdf", export.ExportLabels)
}

func (a *App) exportTo(defaultName string, exportFn func(string, model.Board, []model.PlacedPiece) error) {
	board, ok := a.session.ActiveBoard()
	placed := a.session.Snapshot().Placed
	if !ok || len(placed) == 0 {
		dialog.ShowInformation("Nothing to export", "Place at least one piece on a board first.", a.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := exportFn(path, board, placed); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config.AddRecentExport(path)
		if err := a.saveConfig(); err != nil {
			a.log.Printf("saving recent exports: %v", err)
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}
