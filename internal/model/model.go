package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidRequest is returned when a template request cannot be applied.
var ErrInvalidRequest = errors.New("invalid piece request")

// NewID returns a short unique identifier with the given prefix.
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// Board represents a stock sheet that pieces are laid out on.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func NewBoard(name string, w, h int) Board {
	return Board{
		ID:     NewID("plate"),
		Name:   name,
		Width:  w,
		Height: h,
	}
}

// Rect returns the board extents anchored at the origin.
func (b Board) Rect() Rect {
	return Rect{Width: b.Width, Height: b.Height}
}

// Area returns the board area.
func (b Board) Area() int {
	return b.Width * b.Height
}

// PieceTemplate is a reusable piece definition with a remaining-quantity counter.
type PieceTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Quantity int    `json:"quantity"` // instances not yet placed
	Color    Color  `json:"color"`
}

// NewPieceTemplate creates a template with a fresh ID and its derived color.
func NewPieceTemplate(name string, w, h, qty int) PieceTemplate {
	return PieceTemplate{
		ID:       NewID("piece"),
		Name:     name,
		Width:    w,
		Height:   h,
		Quantity: qty,
		Color:    ColorFor(name, w, h),
	}
}

// Matches reports whether req describes the same template: the name matches
// case-insensitively and the dimensions are equal.
func (t PieceTemplate) Matches(req TemplateRequest) bool {
	return strings.EqualFold(t.Name, req.Name) &&
		t.Width == req.Width &&
		t.Height == req.Height
}

// TemplateRequest asks for quantity instances of a piece to be added to the inventory.
type TemplateRequest struct {
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Quantity int    `json:"quantity"`
}

// Validate checks the fields an inventory merge depends on. Dimensions are
// checked later, when a piece is placed.
func (r TemplateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidRequest)
	}
	return nil
}

// PlacedPiece is one committed instance of a template on the active board.
// Name, size and color are copied from the template when it is placed.
type PlacedPiece struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	X          int    `json:"x"` // from left edge
	Y          int    `json:"y"` // from top edge
	Color      Color  `json:"color"`
}

// NewPlacedPiece snapshots t at position (x, y).
func NewPlacedPiece(t PieceTemplate, x, y int) PlacedPiece {
	return PlacedPiece{
		ID:         NewID("placed"),
		TemplateID: t.ID,
		Name:       t.Name,
		Width:      t.Width,
		Height:     t.Height,
		X:          x,
		Y:          y,
		Color:      t.Color,
	}
}

// Rect returns the rectangle the piece occupies on the board.
func (p PlacedPiece) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// UsedArea returns the total area covered by the given pieces.
func UsedArea(placed []PlacedPiece) int {
	var total int
	for _, p := range placed {
		total += p.Rect().Area()
	}
	return total
}
