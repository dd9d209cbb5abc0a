package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

// Export filters.
const (
	FilterAll          = "all"
	FilterLowStock     = "low_stock"
	FilterZeroStock    = "zero_stock"
	FilterExpiringSoon = "expiring_soon"
	FilterExpired      = "expired"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"Item Name", "Category", "Sub Category", "Location", "Manufacturer",
	"Supplier", "Model", "Unit of Measurement", "Catalogue Number",
	"Current Quantity", "Target Stock Level", "Reorder Level",
	"Validity Date", "Use Case", "Status", "Added By", "Created Date",
	"Last Updated",
}

// ExportService renders the filtered catalog as an xlsx workbook and,
// when an archive bucket is configured, keeps a best-effort copy of
// every export.
type ExportService struct {
	itemRepo *repository.ItemRepository
	archive  *minio.Client
	bucket   string
}

func NewExportService(itemRepo *repository.ItemRepository, archive *minio.Client, bucket string) *ExportService {
	return &ExportService{itemRepo: itemRepo, archive: archive, bucket: bucket}
}

// Export builds the workbook for the given filter. ErrNoItemsMatchedFilter
// when the filter selects nothing, ErrInvalidExportFilter on an unknown
// filter name.
func (s *ExportService) Export(ctx context.Context, filter, exportedBy string) (*excelize.File, string, error) {
	switch filter {
	case FilterAll, FilterLowStock, FilterZeroStock, FilterExpiringSoon, FilterExpired:
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidExportFilter, filter)
	}

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list items: %w", err)
	}

	now := time.Now()
	filtered := make([]entity.InventoryItem, 0, len(items))
	for _, item := range items {
		if matchesFilter(&item, filter, now) {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrNoItemsMatchedFilter, filter)
	}

	f := excelize.NewFile()
	sheet := "Inventory"
	if filter != FilterAll {
		sheet = "Inventory_" + titleize(filter)
	}
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	statusCounts := map[string]int{}
	for rowIdx, item := range filtered {
		row := rowIdx + 2
		status := item.StockStatus(now)
		statusCounts[status]++

		validity := "N/A"
		if item.Validity != nil {
			validity = item.Validity.Format("2006-01-02")
		}

		values := []interface{}{
			item.ItemName, item.Category, item.SubCategory, item.Location,
			item.Manufacturer, item.Supplier, item.Model, item.UOM,
			item.CatalogueNo, item.Quantity, item.TargetStockLevel,
			item.ReorderLevel, validity, item.UseCase, status, item.AddedBy,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
			item.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}

	// Best effort: a failed width calculation must not abort the export.
	fitColumnWidths(f, sheet, len(exportHeaders))

	s.writeSummarySheet(f, filter, exportedBy, len(filtered), statusCounts, now)

	suffix := ""
	if filter != FilterAll {
		suffix = "_" + filter
	}
	filename := fmt.Sprintf("inventory_export%s_%s.xlsx", suffix, now.Format("20060102_150405"))

	s.archiveCopy(ctx, f, filename)

	return f, filename, nil
}

func matchesFilter(item *entity.InventoryItem, filter string, now time.Time) bool {
	expiringCutoff := now.Add(30 * 24 * time.Hour)
	expired := item.Validity != nil && item.Validity.Before(now)
	expiringSoon := item.Validity != nil && !item.Validity.Before(now) && !item.Validity.After(expiringCutoff)

	switch filter {
	case FilterLowStock:
		return item.Quantity <= item.ReorderLevel
	case FilterZeroStock:
		return item.Quantity == 0
	case FilterExpiringSoon:
		return expiringSoon
	case FilterExpired:
		return expired
	default:
		return true
	}
}

func (s *ExportService) writeSummarySheet(f *excelize.File, filter, exportedBy string, total int, statusCounts map[string]int, now time.Time) {
	sheet := "Summary"
	f.NewSheet(sheet)

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Filter Applied", titleize(filter)},
		{"Total Items", total},
		{"In Stock", statusCounts["In Stock"]},
		{"Zero Stock", statusCounts["Zero Stock"]},
		{"Low Stock", statusCounts["Low Stock"]},
		{"Expiring Soon", statusCounts["Expiring Soon"]},
		{"Expired", statusCounts["Expired"]},
		{"Export Date", now.Format("2006-01-02 15:04:05")},
		{"Exported By", exportedBy},
	}
	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), row[1])
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "B1", boldStyle)
	fitColumnWidths(f, sheet, 2)
}

// fitColumnWidths sizes columns to their longest cell, capped at 50
// characters. Errors are swallowed: formatting never fails an export.
func fitColumnWidths(f *excelize.File, sheet string, columns int) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return
	}
	for col := 0; col < columns; col++ {
		maxLen := 0
		for _, row := range rows {
			if col < len(row) {
				if n := utf8.RuneCountInString(row[col]); n > maxLen {
					maxLen = n
				}
			}
		}
		width := float64(maxLen + 2)
		if width > 50 {
			width = 50
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			continue
		}
		f.SetColWidth(sheet, name, name, width)
	}
}

// archiveCopy uploads the workbook to the archive bucket. Purely best
// effort: the response to the caller is unaffected by failures here.
func (s *ExportService) archiveCopy(ctx context.Context, f *excelize.File, filename string) {
	if s.archive == nil || s.bucket == "" {
		return
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return
	}
	s.archive.PutObject(ctx, s.bucket, "exports/"+filename, &buf, int64(buf.Len()),
		minio.PutObjectOptions{ContentType: xlsxContentType})
}

func titleize(filter string) string {
	parts := strings.Split(filter, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
