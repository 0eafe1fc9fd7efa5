package widgets

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/platelayout/internal/model"
)

var (
	boardFill     = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	boardStroke   = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	pieceStroke   = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	selectedColor = color.NRGBA{R: 33, G: 150, B: 243, A: 255}
)

// BoardCanvas draws the active board and its placed pieces, and turns
// pointer input into board-local requests. Coordinates passed to the
// callbacks keep the pointer's sub-unit precision; snapping is left to the
// placement engine.
type BoardCanvas struct {
	widget.BaseWidget

	board    model.Board
	placed   []model.PlacedPiece
	selected string

	maxWidth  float32
	maxHeight float32

	// drag state: the piece being dragged and the grab offset inside it
	dragID     string
	dragOffset [2]float64

	OnTapped          func(x, y float64)         // empty area tapped
	OnSelect          func(placedID string)      // piece tapped or grabbed
	OnMove            func(placedID string, x, y float64)
	OnSecondaryTapped func(placedID string)
}

// NewBoardCanvas creates a canvas that scales the board to fit maxW x maxH.
func NewBoardCanvas(maxW, maxH float32) *BoardCanvas {
	bc := &BoardCanvas{maxWidth: maxW, maxHeight: maxH}
	bc.ExtendBaseWidget(bc)
	return bc
}

// Update replaces the displayed layout and redraws.
func (bc *BoardCanvas) Update(board model.Board, placed []model.PlacedPiece, selected string) {
	bc.board = board
	bc.placed = placed
	bc.selected = selected
	bc.Refresh()
}

// scale returns the display units per board unit.
func (bc *BoardCanvas) scale() float32 {
	if bc.board.Width < 1 || bc.board.Height < 1 {
		return 0
	}
	sx := bc.maxWidth / float32(bc.board.Width)
	sy := bc.maxHeight / float32(bc.board.Height)
	return float32(math.Min(float64(sx), float64(sy)))
}

// toBoard converts a widget-local position to board coordinates.
func (bc *BoardCanvas) toBoard(pos fyne.Position) (float64, float64, bool) {
	s := bc.scale()
	if s == 0 {
		return 0, 0, false
	}
	return float64(pos.X / s), float64(pos.Y / s), true
}

// Tapped selects the piece under the pointer, or reports a tap on empty board.
func (bc *BoardCanvas) Tapped(e *fyne.PointEvent) {
	x, y, ok := bc.toBoard(e.Position)
	if !ok {
		return
	}
	if id, hit := HitTest(bc.placed, x, y); hit {
		if bc.OnSelect != nil {
			bc.OnSelect(id)
		}
		return
	}
	if bc.OnTapped != nil {
		bc.OnTapped(x, y)
	}
}

// TappedSecondary reports the piece under the pointer for removal.
func (bc *BoardCanvas) TappedSecondary(e *fyne.PointEvent) {
	x, y, ok := bc.toBoard(e.Position)
	if !ok {
		return
	}
	if id, hit := HitTest(bc.placed, x, y); hit && bc.OnSecondaryTapped != nil {
		bc.OnSecondaryTapped(id)
	}
}

// Dragged issues one move per pointer movement while a piece is held.
func (bc *BoardCanvas) Dragged(e *fyne.DragEvent) {
	x, y, ok := bc.toBoard(e.Position)
	if !ok {
		return
	}
	if bc.dragID == "" {
		sx, sy, _ := bc.toBoard(e.Position.Subtract(e.Dragged))
		id, hit := HitTest(bc.placed, sx, sy)
		if !hit {
			return
		}
		p := bc.placed[indexOf(bc.placed, id)]
		bc.dragID = id
		bc.dragOffset = [2]float64{sx - float64(p.X), sy - float64(p.Y)}
		if bc.OnSelect != nil {
			bc.OnSelect(id)
		}
	}
	if bc.OnMove != nil {
		bc.OnMove(bc.dragID, x-bc.dragOffset[0], y-bc.dragOffset[1])
	}
}

// DragEnd releases the held piece. The last move already committed its position.
func (bc *BoardCanvas) DragEnd() {
	bc.dragID = ""
	bc.dragOffset = [2]float64{}
}

// HitTest returns the topmost placed piece containing the board point.
func HitTest(placed []model.PlacedPiece, x, y float64) (string, bool) {
	for i := len(placed) - 1; i >= 0; i-- {
		p := placed[i]
		if x >= float64(p.X) && x < float64(p.X+p.Width) &&
			y >= float64(p.Y) && y < float64(p.Y+p.Height) {
			return p.ID, true
		}
	}
	return "", false
}

func indexOf(placed []model.PlacedPiece, id string) int {
	for i, p := range placed {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newBoardCanvasRenderer(bc)
}

type boardCanvasRenderer struct {
	bc      *BoardCanvas
	objects []fyne.CanvasObject
}

func newBoardCanvasRenderer(bc *BoardCanvas) *boardCanvasRenderer {
	r := &boardCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (r *boardCanvasRenderer) rebuild() {
	r.objects = nil

	scale := r.bc.scale()
	if scale == 0 {
		hint := canvas.NewText("No board selected", color.Gray{Y: 120})
		hint.TextSize = 14
		r.objects = append(r.objects, hint)
		return
	}

	board := r.bc.board
	canvasW := float32(board.Width) * scale
	canvasH := float32(board.Height) * scale

	bg := canvas.NewRectangle(boardFill)
	bg.StrokeColor = boardStroke
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	for _, p := range r.bc.placed {
		pw := float32(p.Width) * scale
		ph := float32(p.Height) * scale
		px := float32(p.X) * scale
		py := float32(p.Y) * scale

		rect := canvas.NewRectangle(p.Color.NRGBA(220))
		rect.StrokeColor = pieceStroke
		rect.StrokeWidth = 1
		if p.ID == r.bc.selected {
			rect.StrokeColor = selectedColor
			rect.StrokeWidth = 3
		}
		rect.Resize(fyne.NewSize(pw, ph))
		rect.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, rect)

		// Label only if big enough
		if pw > 30 && ph > 16 {
			label := canvas.NewText(fmt.Sprintf("%s %dx%d", p.Name, p.Width, p.Height), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(px+3, py+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *boardCanvasRenderer) Layout(size fyne.Size)        {}
func (r *boardCanvasRenderer) Refresh()                     { r.rebuild(); canvas.Refresh(r.bc) }
func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardCanvasRenderer) MinSize() fyne.Size {
	s := r.bc.scale()
	if s == 0 {
		return fyne.NewSize(r.bc.maxWidth, r.bc.maxHeight)
	}
	return fyne.NewSize(float32(r.bc.board.Width)*s, float32(r.bc.board.Height)*s)
}
