package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/piwi3910/platelayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panelSetup(qty int) (Layout, []model.PieceTemplate) {
	board := model.NewBoard("Chapa A", 2750, 1840)
	templates := []model.PieceTemplate{model.NewPieceTemplate("Panel", 500, 300, qty)}
	return Layout{Board: board}, templates
}

func TestInsert_PanelScenario(t *testing.T) {
	layout, templates := panelSetup(2)
	panelID := templates[0].ID

	res, err := Insert(layout, templates, panelID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Templates[0].Quantity)
	assert.Len(t, res.Placed, 1)
	layout.Placed, templates = res.Placed, res.Templates

	_, err = Insert(layout, templates, panelID, 0, 0)
	assert.ErrorIs(t, err, ErrCollision)
	assert.Equal(t, 1, templates[0].Quantity, "failed insert must not change stock")

	res, err = Insert(layout, templates, panelID, 500, 0)
	require.NoError(t, err, "edge-touching placement is allowed")
	assert.Equal(t, 0, res.Templates[0].Quantity)
	layout.Placed, templates = res.Placed, res.Templates

	_, err = Insert(layout, templates, panelID, 1000, 0)
	assert.ErrorIs(t, err, ErrNoStockRemaining)
	assert.Len(t, layout.Placed, 2)
}

func TestInsert_OutOfBounds(t *testing.T) {
	layout := Layout{Board: model.NewBoard("Small", 100, 100)}
	templates := []model.PieceTemplate{model.NewPieceTemplate("Block", 10, 10, 1)}

	_, err := Insert(layout, templates, templates[0].ID, 95, 95)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, ReasonOutOfBounds, ReasonOf(err))

	res, err := Insert(layout, templates, templates[0].ID, 90, 90)
	require.NoError(t, err, "flush with the far corner fits")
	assert.Equal(t, 90, res.Piece.X)
	assert.Equal(t, 90, res.Piece.Y)
}

func TestInsert_SnapsCoordinates(t *testing.T) {
	layout, templates := panelSetup(3)

	res, err := Insert(layout, templates, templates[0].ID, 10.9, 20.2)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Piece.X)
	assert.Equal(t, 20, res.Piece.Y)

	res, err = Insert(layout, templates, templates[0].ID, -35.5, -0.4)
	require.NoError(t, err, "negative coordinates clamp to zero")
	assert.Equal(t, 0, res.Piece.X)
	assert.Equal(t, 0, res.Piece.Y)
}

func TestInsert_InvalidDimensions(t *testing.T) {
	layout := Layout{Board: model.NewBoard("B", 100, 100)}
	templates := []model.PieceTemplate{model.NewPieceTemplate("Sliver", 0, 10, 1)}

	_, err := Insert(layout, templates, templates[0].ID, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestInsert_UnknownTemplate(t *testing.T) {
	layout, templates := panelSetup(1)

	_, err := Insert(layout, templates, "missing", 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, ReasonOf(err).Lookup())
}

func TestInsert_SnapshotsTemplate(t *testing.T) {
	layout, templates := panelSetup(1)

	res, err := Insert(layout, templates, templates[0].ID, 0, 0)
	require.NoError(t, err)
	p := res.Piece
	assert.Equal(t, templates[0].ID, p.TemplateID)
	assert.Equal(t, "Panel", p.Name)
	assert.Equal(t, templates[0].Color, p.Color)
	assert.Equal(t, 500, p.Width)
	assert.Equal(t, 300, p.Height)
}

func TestInsert_DoesNotMutateInput(t *testing.T) {
	layout, templates := panelSetup(2)
	first, err := Insert(layout, templates, templates[0].ID, 0, 0)
	require.NoError(t, err)
	layout.Placed = first.Placed[:1:1]

	_, err = Insert(layout, first.Templates, templates[0].ID, 600, 0)
	require.NoError(t, err)
	assert.Len(t, layout.Placed, 1)
	assert.Equal(t, 2, templates[0].Quantity)
	assert.Equal(t, 1, first.Templates[0].Quantity)
}

func placeAt(t *testing.T, layout Layout, templates []model.PieceTemplate, x, y float64) (Layout, []model.PieceTemplate, model.PlacedPiece) {
	t.Helper()
	res, err := Insert(layout, templates, templates[0].ID, x, y)
	require.NoError(t, err)
	layout.Placed = res.Placed
	return layout, res.Templates, res.Piece
}

func TestMove_Succeeds(t *testing.T) {
	layout, templates := panelSetup(2)
	layout, templates, piece := placeAt(t, layout, templates, 0, 0)

	placed, err := Move(layout, piece.ID, 100.7, 50.2)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	moved := placed[0]
	assert.Equal(t, 100, moved.X)
	assert.Equal(t, 50, moved.Y)
	assert.Equal(t, piece.ID, moved.ID)
	assert.Equal(t, piece.Width, moved.Width)
	assert.Equal(t, piece.Height, moved.Height)
	assert.Equal(t, piece.Color, moved.Color)
	assert.Equal(t, 0, layout.Placed[0].X, "input layout must not change")
	assert.Equal(t, 1, templates[0].Quantity)
}

func TestMove_OverlappingOwnPositionIsAllowed(t *testing.T) {
	layout, templates := panelSetup(1)
	layout, _, piece := placeAt(t, layout, templates, 0, 0)

	_, err := Move(layout, piece.ID, 1, 1)
	assert.NoError(t, err)
}

func TestMove_Collision(t *testing.T) {
	layout, templates := panelSetup(2)
	layout, templates, first := placeAt(t, layout, templates, 0, 0)
	layout, _, _ = placeAt(t, layout, templates, 600, 0)

	_, err := Move(layout, first.ID, 400, 0)
	assert.ErrorIs(t, err, ErrCollision)

	placed, err := Move(layout, first.ID, 100, 0)
	require.NoError(t, err, "touching the neighbor's edge is allowed")
	assert.Equal(t, 100, placed[0].X)
}

func TestMove_OutOfBounds(t *testing.T) {
	layout, templates := panelSetup(1)
	layout, _, piece := placeAt(t, layout, templates, 0, 0)

	_, err := Move(layout, piece.ID, 2300, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Move(layout, piece.ID, 0, 1541)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestMove_UnknownPiece(t *testing.T) {
	layout, _ := panelSetup(1)
	_, err := Move(layout, "nope", 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMove_InvalidDimensions(t *testing.T) {
	layout := Layout{
		Board:  model.NewBoard("B", 100, 100),
		Placed: []model.PlacedPiece{{ID: "p1", Width: 0, Height: 5}},
	}
	_, err := Move(layout, "p1", 10, 10)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestRemove_InverseOfInsert(t *testing.T) {
	layout, templates := panelSetup(2)
	layout, templates, piece := placeAt(t, layout, templates, 0, 0)
	require.Equal(t, 1, templates[0].Quantity)

	placed, after, err := Remove(layout, templates, piece.ID)
	require.NoError(t, err)
	assert.Empty(t, placed)
	assert.Equal(t, 2, after[0].Quantity)
	assert.Equal(t, piece.TemplateID, after[0].ID)
	assert.Len(t, layout.Placed, 1, "input layout must not change")
}

func TestRemove_KeepsOtherPieces(t *testing.T) {
	layout, templates := panelSetup(3)
	layout, templates, a := placeAt(t, layout, templates, 0, 0)
	layout, templates, b := placeAt(t, layout, templates, 500, 0)
	layout, templates, c := placeAt(t, layout, templates, 1000, 0)

	placed, _, err := Remove(layout, templates, b.ID)
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, a.ID, placed[0].ID)
	assert.Equal(t, c.ID, placed[1].ID)
}

func TestRemove_UnknownPiece(t *testing.T) {
	layout, templates := panelSetup(1)
	_, _, err := Remove(layout, templates, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_MissingTemplateStillRemoves(t *testing.T) {
	layout := Layout{
		Board:  model.NewBoard("B", 100, 100),
		Placed: []model.PlacedPiece{{ID: "p1", TemplateID: "gone", Width: 5, Height: 5}},
	}
	placed, templates, err := Remove(layout, nil, "p1")
	require.NoError(t, err)
	assert.Empty(t, placed)
	assert.Empty(t, templates)
}

func TestSnap(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.99, 0},
		{12.5, 12},
		{-3.2, 0},
		{math.NaN(), 0},
		{math.Inf(1), maxCoord},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Snap(tt.in), "Snap(%v)", tt.in)
	}
}

func TestInvariantsHoldAfterRandomizedRequests(t *testing.T) {
	board := model.NewBoard("Grid", 200, 120)
	layout := Layout{Board: board}
	templates := []model.PieceTemplate{
		model.NewPieceTemplate("A", 30, 20, 20),
		model.NewPieceTemplate("B", 45, 15, 20),
	}
	total := model.RemainingStock(templates)

	// Deterministic walk over a coarse grid of insert and move requests.
	for i := 0; i < 200; i++ {
		x := float64((i * 37) % 210)
		y := float64((i * 53) % 130)
		switch {
		case i%5 == 4 && len(layout.Placed) > 0:
			p := layout.Placed[i%len(layout.Placed)]
			if placed, err := Move(layout, p.ID, x, y); err == nil {
				layout.Placed = placed
			}
		case i%7 == 6 && len(layout.Placed) > 0:
			p := layout.Placed[i%len(layout.Placed)]
			placed, tpls, err := Remove(layout, templates, p.ID)
			require.NoError(t, err)
			layout.Placed, templates = placed, tpls
		default:
			tpl := templates[i%len(templates)]
			if res, err := Insert(layout, templates, tpl.ID, x, y); err == nil {
				layout.Placed, templates = res.Placed, res.Templates
			}
		}

		for j, p := range layout.Placed {
			assert.True(t, Fits(board, p.Rect()), "piece %s out of bounds", p.ID)
			for _, q := range layout.Placed[j+1:] {
				assert.False(t, model.Overlaps(p.Rect(), q.Rect()), "pieces %s and %s overlap", p.ID, q.ID)
			}
		}
		assert.Equal(t, total, model.RemainingStock(templates)+len(layout.Placed))
	}
}

func TestPlacementErrorMessages(t *testing.T) {
	err := error(newError(ReasonCollision, "piece-1"))
	assert.Contains(t, err.Error(), "Collision")
	assert.Contains(t, err.Error(), "piece-1")
	assert.False(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, ReasonNone, ReasonOf(errors.New("other")))
	assert.NotEmpty(t, ReasonCollision.Message())
}
