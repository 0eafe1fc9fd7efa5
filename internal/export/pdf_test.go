package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/platelayout/internal/model"
)

// buildTestLayout creates a realistic board layout for testing.
func buildTestLayout() (model.Board, []model.PlacedPiece) {
	board := model.Board{ID: "plate-a", Name: "Chapa A", Width: 2750, Height: 1840}
	panel := model.NewPieceTemplate("Panel", 500, 300, 3)
	shelf := model.NewPieceTemplate("Shelf", 800, 250, 1)
	tiny := model.NewPieceTemplate("Dowel block", 20, 20, 1)
	return board, []model.PlacedPiece{
		model.NewPlacedPiece(panel, 0, 0),
		model.NewPlacedPiece(panel, 500, 0),
		model.NewPlacedPiece(shelf, 0, 300),
		model.NewPlacedPiece(panel, 1000, 0),
		model.NewPlacedPiece(tiny, 2700, 1800),
	}
}

func TestExportLayoutPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.pdf")

	board, placed := buildTestLayout()
	if err := ExportLayoutPDF(path, board, placed); err != nil {
		t.Fatalf("ExportLayoutPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLayoutPDF_EmptyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	board, _ := buildTestLayout()
	if err := ExportLayoutPDF(path, board, nil); !errors.Is(err, ErrEmptyLayout) {
		t.Fatalf("expected ErrEmptyLayout, got %v", err)
	}
}

func TestExportLayoutPDF_BoardWithoutArea(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.pdf")

	_, placed := buildTestLayout()
	if err := ExportLayoutPDF(path, model.Board{Name: "Flat", Width: 100}, placed); err == nil {
		t.Fatal("expected error for a board with no area")
	}
}

func TestExportLayoutPDF_BadPath(t *testing.T) {
	board, placed := buildTestLayout()
	path := filepath.Join(t.TempDir(), "missing-dir", "layout.pdf")
	if err := ExportLayoutPDF(path, board, placed); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestLegendGroupsByTemplate(t *testing.T) {
	_, placed := buildTestLayout()
	entries := legend(placed)

	if len(entries) != 3 {
		t.Fatalf("expected 3 legend entries, got %d", len(entries))
	}
	if entries[0].Name != "Panel" || entries[0].Count != 3 {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Name != "Shelf" || entries[1].Count != 1 {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
	if entries[0].Color != model.ColorFor("Panel", 500, 300) {
		t.Errorf("legend color should match the template color")
	}
}

func TestUtilization(t *testing.T) {
	if got := utilization(25, 100); got != 25 {
		t.Errorf("utilization(25, 100) = %v, want 25", got)
	}
	if got := utilization(10, 0); got != 0 {
		t.Errorf("utilization(10, 0) = %v, want 0", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
