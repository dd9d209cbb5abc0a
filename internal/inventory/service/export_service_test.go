package service

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestFitColumnWidthsCountsRunes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// 6 runes, 18 bytes
	f.SetCellValue("Sheet1", "A1", "无水乙醇试剂")
	fitColumnWidths(f, "Sheet1", 1)

	width, err := f.GetColWidth("Sheet1", "A")
	if err != nil {
		t.Fatalf("Failed to read column width: %v", err)
	}
	if width != 8 {
		t.Errorf("Expected width 8 (runes + padding), got %v", width)
	}
}

func TestFitColumnWidthsCap(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	long := make([]byte, 120)
	for i := range long {
		long[i] = 'x'
	}
	f.SetCellValue("Sheet1", "A1", string(long))
	fitColumnWidths(f, "Sheet1", 1)

	width, err := f.GetColWidth("Sheet1", "A")
	if err != nil {
		t.Fatalf("Failed to read column width: %v", err)
	}
	if width != 50 {
		t.Errorf("Expected width capped at 50, got %v", width)
	}
}
