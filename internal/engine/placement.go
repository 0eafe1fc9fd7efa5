// Package engine validates and applies piece placements on a board.
//
// Every operation takes the current layout by value and returns the new
// collections on success. On failure nothing is returned but the error, so
// the caller's state is left untouched.
package engine

import (
	"math"

	"github.com/piwi3910/platelayout/internal/model"
)

// maxCoord caps snapped coordinates so bounds arithmetic cannot overflow.
const maxCoord = math.MaxInt32

// Layout is the active board together with the pieces placed on it.
type Layout struct {
	Board  model.Board
	Placed []model.PlacedPiece
}

// InsertResult holds the collections produced by a successful Insert.
type InsertResult struct {
	Piece     model.PlacedPiece
	Placed    []model.PlacedPiece
	Templates []model.PieceTemplate
}

// Insert places one instance of the template at the requested position.
// The position is snapped to the integer grid before it is checked.
func Insert(layout Layout, templates []model.PieceTemplate, templateID string, x, y float64) (InsertResult, error) {
	tpl, ok := model.FindTemplate(templates, templateID)
	if !ok {
		return InsertResult{}, newError(ReasonNotFound, templateID)
	}
	if tpl.Quantity <= 0 {
		return InsertResult{}, newError(ReasonNoStockRemaining, templateID)
	}
	if tpl.Width < 1 || tpl.Height < 1 {
		return InsertResult{}, newError(ReasonInvalidDimensions, templateID)
	}

	candidate := model.Rect{X: Snap(x), Y: Snap(y), Width: tpl.Width, Height: tpl.Height}
	if reason := check(layout, candidate, ""); reason != ReasonNone {
		return InsertResult{}, newError(reason, templateID)
	}

	piece := model.NewPlacedPiece(tpl, candidate.X, candidate.Y)
	placed := make([]model.PlacedPiece, 0, len(layout.Placed)+1)
	placed = append(placed, layout.Placed...)
	placed = append(placed, piece)

	return InsertResult{
		Piece:     piece,
		Placed:    placed,
		Templates: model.AdjustQuantity(templates, tpl.ID, -1),
	}, nil
}

// Move relocates a placed piece. The piece is not compared against itself,
// so small nudges that overlap its old position are allowed. Inventory is
// never touched by a move.
func Move(layout Layout, placedID string, x, y float64) ([]model.PlacedPiece, error) {
	idx := indexOf(layout.Placed, placedID)
	if idx < 0 {
		return nil, newError(ReasonNotFound, placedID)
	}
	piece := layout.Placed[idx]
	if piece.Width < 1 || piece.Height < 1 {
		return nil, newError(ReasonInvalidDimensions, placedID)
	}

	candidate := model.Rect{X: Snap(x), Y: Snap(y), Width: piece.Width, Height: piece.Height}
	if reason := check(layout, candidate, placedID); reason != ReasonNone {
		return nil, newError(reason, placedID)
	}

	placed := copyPlaced(layout.Placed)
	placed[idx].X = candidate.X
	placed[idx].Y = candidate.Y
	return placed, nil
}

// Remove takes a piece off the board and returns its instance to the
// originating template. The piece is removed even if the template is gone.
func Remove(layout Layout, templates []model.PieceTemplate, placedID string) ([]model.PlacedPiece, []model.PieceTemplate, error) {
	idx := indexOf(layout.Placed, placedID)
	if idx < 0 {
		return nil, nil, newError(ReasonNotFound, placedID)
	}
	removed := layout.Placed[idx]

	placed := make([]model.PlacedPiece, 0, len(layout.Placed)-1)
	placed = append(placed, layout.Placed[:idx]...)
	placed = append(placed, layout.Placed[idx+1:]...)

	return placed, model.AdjustQuantity(templates, removed.TemplateID, 1), nil
}

// Snap floors a raw pointer coordinate onto the non-negative integer grid.
func Snap(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= maxCoord {
		return maxCoord
	}
	return int(math.Floor(v))
}

// Fits reports whether r lies inside the board.
func Fits(board model.Board, r model.Rect) bool {
	return r.Within(board.Rect())
}

// Collides reports whether r overlaps any placed piece other than the one
// with ID exclude.
func Collides(placed []model.PlacedPiece, r model.Rect, exclude string) bool {
	for _, p := range placed {
		if p.ID == exclude {
			continue
		}
		if model.Overlaps(p.Rect(), r) {
			return true
		}
	}
	return false
}

// check runs the bounds and collision checks shared by Insert and Move.
func check(layout Layout, candidate model.Rect, exclude string) Reason {
	if !Fits(layout.Board, candidate) {
		return ReasonOutOfBounds
	}
	if Collides(layout.Placed, candidate, exclude) {
		return ReasonCollision
	}
	return ReasonNone
}

func indexOf(placed []model.PlacedPiece, id string) int {
	for i, p := range placed {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func copyPlaced(placed []model.PlacedPiece) []model.PlacedPiece {
	cp := make([]model.PlacedPiece, len(placed))
	copy(cp, placed)
	return cp
}
