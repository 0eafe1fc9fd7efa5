// Package export writes board layouts to printable files.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/platelayout/internal/model"
)

// ErrEmptyLayout is returned when there is nothing on the board to export.
var ErrEmptyLayout = errors.New("no pieces placed on the board")

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// legendEntry groups the placed pieces of one template.
type legendEntry struct {
	Name   string
	Width  int
	Height int
	Color  model.Color
	Count  int
}

// ExportLayoutPDF writes the board and its placed pieces to a one-page PDF:
// the board drawn to scale with each piece in its template color, the board
// dimensions, and a legend of the templates used.
func ExportLayoutPDF(path string, board model.Board, placed []model.PlacedPiece) error {
	if len(placed) == 0 {
		return ErrEmptyLayout
	}
	if board.Width < 1 || board.Height < 1 {
		return fmt.Errorf("board %q has no area", board.Name)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()
	renderBoardPage(pdf, board, placed)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func renderBoardPage(pdf *fpdf.Fpdf, board model.Board, placed []model.PlacedPiece) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%d x %d)", board.Name, board.Width, board.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	used := model.UsedArea(placed)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Used area: %d | Board area: %d | Utilization: %.1f%%",
		len(placed), used, board.Area(), utilization(used, board.Area()))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/float64(board.Width), drawHeight/float64(board.Height))
	canvasW := float64(board.Width) * scale
	canvasH := float64(board.Height) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, p := range placed {
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		r, g, b := p.Color.RGB()
		pdf.SetFillColor(int(r), int(g), int(b))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Text only when the rectangle can hold it
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			dims := fmt.Sprintf("%dx%d", p.Width, p.Height)
			nameW := pdf.GetStringWidth(p.Name)
			dimsW := pdf.GetStringWidth(dims)

			if nameW < pw-2 {
				pdf.SetXY(px+(pw-nameW)/2, py+ph/2-4)
				pdf.CellFormat(nameW, 4, p.Name, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, board, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, legend(placed), offsetY+canvasH+6)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom+5)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PlateLayout", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawDimensionAnnotations adds width and height labels outside the board rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, board model.Board, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d", board.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height runs up the left edge
	heightLabel := fmt.Sprintf("%d", board.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders one swatch per template below the board.
func drawLegend(pdf *fpdf.Fpdf, entries []legendEntry, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, e := range entries {
		label := fmt.Sprintf("%s (%dx%d) x%d", e.Name, e.Width, e.Height, e.Count)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		r, g, b := e.Color.RGB()
		pdf.SetFillColor(int(r), int(g), int(b))
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// legend groups placed pieces by template, in order of first placement.
func legend(placed []model.PlacedPiece) []legendEntry {
	var entries []legendEntry
	index := make(map[string]int)
	for _, p := range placed {
		if i, ok := index[p.TemplateID]; ok {
			entries[i].Count++
			continue
		}
		index[p.TemplateID] = len(entries)
		entries = append(entries, legendEntry{
			Name:   p.Name,
			Width:  p.Width,
			Height: p.Height,
			Color:  p.Color,
			Count:  1,
		})
	}
	return entries
}

func utilization(used, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
