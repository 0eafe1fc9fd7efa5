package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Height,Qty\nShelf,600,300,2\nDoor,400,800,1\n", ','},
		{"semicolon", "Name;Width;Height;Qty\nShelf;600;300;2\nDoor;400;800;1\n", ';'},
		{"tab", "Name\tWidth\tHeight\tQty\nShelf\t600\t300\t2\nDoor\t400\t800\t1\n", '\t'},
		{"pipe", "Name|Width|Height|Qty\nShelf|600|300|2\nDoor|400|800|1\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Name", "Width", "Height", "Quantity"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Width: 1, Height: 2, Quantity: 3}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Part", "Length", "Depth", "Pcs"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Width: 1, Height: 2, Quantity: 3}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_ReorderedColumns(t *testing.T) {
	mapping, _ := DetectColumns([]string{"QTY", " height ", "Label", "W"})

	want := ColumnMapping{Name: 2, Width: 3, Height: 1, Quantity: 0}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Shelf", "600", "300", "2"})

	if isHeader {
		t.Error("data row should not be detected as a header")
	}
	if mapping != positional {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ParseNumber Tests ─────────────────────────────────────

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"50", 50, false},
		{" 50 ", 50, false},
		{"50.0", 50, false},
		{"-3", -3, false},
		{"50.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1e12", 0, true},
		{"NaN", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNumber(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Width,Height,Qty\nShelf,600,300,2\nDoor,400,800,1\n"
	result, err := ImportCSVFromReader(strings.NewReader(data), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(result.Requests))
	}
	r := result.Requests[0]
	if r.Name != "Shelf" || r.Width != 600 || r.Height != 300 || r.Quantity != 2 {
		t.Errorf("unexpected first request %+v", r)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected a header warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result, err := ImportCSVFromReader(strings.NewReader("Shelf,600,300,2\nDoor,400,800,1\n"), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(result.Requests))
	}
	if result.Requests[1].Name != "Door" {
		t.Errorf("expected 'Door', got %q", result.Requests[1].Name)
	}
}

func TestImportCSVFromReader_ByteOrderMark(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"header", "\ufeffname,width,height,quantity\nLeg,50,50,4\n", "Leg"},
		{"no header", "\ufeffLeg,50,50,4\n", "Leg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ImportCSVFromReader(strings.NewReader(tt.data), ',')
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Requests) != 1 {
				t.Fatalf("expected 1 request, got %d", len(result.Requests))
			}
			if r := result.Requests[0]; r.Name != tt.want || r.Quantity != 4 {
				t.Errorf("unexpected request %+v", r)
			}
		})
	}
}

func TestImportCSV_ExcelUTF8File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excel.csv")
	if err := os.WriteFile(path, []byte("\ufeffName;Width;Height;Quantity\r\nTop;800;400;1\r\n"), 0644); err != nil {
		t.Fatal(err)
	}
	result, err := ImportCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requests) != 1 || result.Requests[0].Name != "Top" {
		t.Errorf("unexpected requests %+v", result.Requests)
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	data := "Qty;Height;Width;Name\n3;200;100;Drawer\n"
	result, err := ImportCSVFromReader(strings.NewReader(data), ';')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := result.Requests[0]
	if r.Name != "Drawer" || r.Width != 100 || r.Height != 200 || r.Quantity != 3 {
		t.Errorf("unexpected request %+v", r)
	}
}

func TestImportCSVFromReader_RejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid width", "Shelf,abc,300,2\n"},
		{"invalid quantity", "Shelf,600,300,2\nDoor,400,800,many\n"},
		{"fractional value", "Shelf,600.5,300,2\n"},
		{"negative quantity", "Shelf,600,300,-1\n"},
		{"empty name", ",600,300,2\n"},
		{"missing column", "Shelf,600,300\n"},
		{"only headers", "Name,Width,Height,Qty\n"},
		{"empty", ""},
		{"header missing quantity", "Name,Width,Height\nShelf,600,300\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ImportCSVFromReader(strings.NewReader(tt.data), ',')
			if !errors.Is(err, ErrInvalidImportFormat) {
				t.Fatalf("expected ErrInvalidImportFormat, got %v", err)
			}
			if len(result.Requests) != 0 {
				t.Errorf("expected no requests on failure, got %d", len(result.Requests))
			}
		})
	}
}

func TestImportCSVFromReader_ZeroQuantityAndDimensions(t *testing.T) {
	result, err := ImportCSVFromReader(strings.NewReader("Shim,0,10,0\n"), ',')
	if err != nil {
		t.Fatalf("zero values parse; dimensions are checked at insert time: %v", err)
	}
	if result.Requests[0].Width != 0 || result.Requests[0].Quantity != 0 {
		t.Errorf("unexpected request %+v", result.Requests[0])
	}
}

func TestImportCSVFromReader_SkipsEmptyRows(t *testing.T) {
	data := "\nName,Width,Height,Qty\n\nShelf,600,300,2\n,,,\nDoor,400,800,1\n"
	result, err := ImportCSVFromReader(strings.NewReader(data), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requests) != 2 {
		t.Errorf("expected 2 requests, got %d", len(result.Requests))
	}
}

func TestImportCSVFromReader_WhitespaceAndDecimals(t *testing.T) {
	result, err := ImportCSVFromReader(strings.NewReader("  Shelf  , 600.0 , 300 , 2 \n"), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := result.Requests[0]
	if r.Name != "Shelf" || r.Width != 600 {
		t.Errorf("unexpected request %+v", r)
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pieces.csv")
	if err := os.WriteFile(path, []byte("Name;Width;Height;Qty\nShelf;600;300;2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := ImportCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(result.Requests))
	}
	if !strings.Contains(strings.Join(result.Warnings, " "), "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	_, err := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrInvalidImportFormat) {
		t.Error("missing file is not a format error")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportCSV(path); !errors.Is(err, ErrInvalidImportFormat) {
		t.Errorf("expected ErrInvalidImportFormat, got %v", err)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pieces.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "Quantity"},
		{"Shelf", 600, 300, 2},
		{"Door", 400, 800, 1},
	})

	result, err := ImportExcel(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(result.Requests))
	}
	r := result.Requests[0]
	if r.Name != "Shelf" || r.Width != 600 || r.Height != 300 || r.Quantity != 2 {
		t.Errorf("unexpected request %+v", r)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Shelf", 600, 300, 2},
		{"Door", 400, 800, 1},
	})

	result, err := ImportExcel(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(result.Requests))
	}
}

func TestImportExcel_InvalidDataRejectsBatch(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "Quantity"},
		{"Shelf", 600, 300, 2},
		{"Door", "wide", 800, 1},
	})

	result, err := ImportExcel(path)
	if !errors.Is(err, ErrInvalidImportFormat) {
		t.Fatalf("expected ErrInvalidImportFormat, got %v", err)
	}
	if len(result.Requests) != 0 {
		t.Errorf("expected no requests, got %d", len(result.Requests))
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if _, err := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}
