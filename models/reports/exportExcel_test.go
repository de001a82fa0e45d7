package reports

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteSheet_HeadersAndRows(t *testing.T) {
	headings := []string{"SKU", "Product", "Quantity"}
	rows := [][]interface{}{
		{"SKU-1", "Lavender Soap", 12},
		{"SKU-2", "Rose Shampoo", 0},
	}

	buf, err := writeSheet("Inventory", headings, rows)
	if err != nil {
		t.Fatalf("writeSheet: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for i, want := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, err := f.GetCellValue("Inventory", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Fatalf("header %s: expected %q, got %q", cell, want, got)
		}
	}

	got, err := f.GetCellValue("Inventory", "B3")
	if err != nil {
		t.Fatalf("GetCellValue(B3): %v", err)
	}
	if got != "Rose Shampoo" {
		t.Fatalf("expected B3 = Rose Shampoo, got %q", got)
	}
}

func TestWriteSheet_EmptyData(t *testing.T) {
	buf, err := writeSheet("Sales", []string{"Order ID", "Total"}, nil)
	if err != nil {
		t.Fatalf("writeSheet with no rows: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("Sales", "A1")
	if got != "Order ID" {
		t.Fatalf("expected header row even with no data, got %q", got)
	}
}

func TestCellWidth_Clamped(t *testing.T) {
	if w := cellWidth("ab"); w != minColumnWidth {
		t.Fatalf("short values clamp to min width, got %v", w)
	}
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	if w := cellWidth(string(long)); w != maxColumnWidth {
		t.Fatalf("long values clamp to max width, got %v", w)
	}
}
