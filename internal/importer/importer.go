// Package importer turns bulk piece lists into template requests.
//
// Every importer is all-or-nothing: one malformed row rejects the whole batch
// with an error wrapping ErrInvalidImportFormat, and no requests are returned.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/platelayout/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidImportFormat is wrapped by every import failure caused by the
// content of the input.
var ErrInvalidImportFormat = errors.New("invalid import format")

// ImportResult holds the requests parsed from an import source.
type ImportResult struct {
	Requests []model.TemplateRequest
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Width    int
	Height   int
	Quantity int
}

// positional is the mapping used when the data has no header row.
var positional = ColumnMapping{Name: 0, Width: 1, Height: 2, Quantity: 3}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "label", "part", "part name", "description", "desc", "piece", "item", "nome", "peça"},
	"width":    {"width", "w", "length", "len", "x", "largura"},
	"height":   {"height", "h", "depth", "d", "y", "altura"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "quantidade"},
}

// invalidf builds an error wrapping ErrInvalidImportFormat.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidImportFormat, fmt.Sprintf(format, args...))
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Width: -1, Height: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "name":
					if mapping.Name == -1 {
						mapping.Name = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				}
			}
		}
	}

	if !isHeader {
		return positional, false
	}
	return mapping, true
}

// ParseNumber parses an integer field. Decimal notation is accepted when the
// value has no fractional part ("50.0"), matching spreadsheet exports.
func ParseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a TemplateRequest from a row using the given column mapping.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.TemplateRequest, error) {
	name := getCell(row, mapping.Name)
	if name == "" {
		return model.TemplateRequest{}, invalidf("%s: missing name", rowLabel)
	}

	fields := []struct {
		label string
		idx   int
		dest  *int
	}{
		{"width", mapping.Width, new(int)},
		{"height", mapping.Height, new(int)},
		{"quantity", mapping.Quantity, new(int)},
	}
	for _, f := range fields {
		raw := getCell(row, f.idx)
		if raw == "" {
			return model.TemplateRequest{}, invalidf("%s: missing %s value", rowLabel, f.label)
		}
		n, err := ParseNumber(raw)
		if err != nil {
			return model.TemplateRequest{}, invalidf("%s: invalid %s '%s'", rowLabel, f.label, raw)
		}
		*f.dest = n
	}

	req := model.TemplateRequest{
		Name:     name,
		Width:    *fields[0].dest,
		Height:   *fields[1].dest,
		Quantity: *fields[2].dest,
	}
	if req.Quantity < 0 {
		return model.TemplateRequest{}, invalidf("%s: quantity must not be negative", rowLabel)
	}
	return req, nil
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports piece requests from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot open file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{}, invalidf("file is empty")
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result, err := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	if err != nil {
		return ImportResult{}, err
	}
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// ImportCSVFromReader imports piece requests from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) (ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{}, invalidf("cannot read CSV: %v", err)
	}

	return importFromRows(records, "Line")
}

// ImportExcel imports piece requests from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) (ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, invalidf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot read Excel data: %w", err)
	}

	return importFromRows(rows, "Row")
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a request.
func importFromRows(rows [][]string, rowPrefix string) (ImportResult, error) {
	var result ImportResult
	rows = stripBOM(rows)

	first := -1
	for i, row := range rows {
		if !isEmptyRow(row) {
			first = i
			break
		}
	}
	if first < 0 {
		return ImportResult{}, invalidf("no data rows found")
	}

	mapping, hasHeader := DetectColumns(rows[first])
	startRow := first
	if hasHeader {
		startRow = first + 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Name == -1 {
			missing = append(missing, "Name")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			return ImportResult{}, invalidf("required columns not found in header: %s", strings.Join(missing, ", "))
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		req, err := parseRow(row, mapping, fmt.Sprintf("%s %d", rowPrefix, i+1))
		if err != nil {
			return ImportResult{}, err
		}
		result.Requests = append(result.Requests, req)
	}

	if len(result.Requests) == 0 {
		return ImportResult{}, invalidf("no data rows found")
	}
	return result, nil
}

// utf8BOM is written at the start of "CSV UTF-8" files saved by Excel.
const utf8BOM = "\ufeff"

// stripBOM removes a byte order mark from the first cell without touching
// the caller's rows.
func stripBOM(rows [][]string) [][]string {
	if len(rows) == 0 || len(rows[0]) == 0 || !strings.HasPrefix(rows[0][0], utf8BOM) {
		return rows
	}
	first := append([]string(nil), rows[0]...)
	first[0] = strings.TrimPrefix(first[0], utf8BOM)
	out := make([][]string, len(rows))
	out[0] = first
	copy(out[1:], rows[1:])
	return out
}
