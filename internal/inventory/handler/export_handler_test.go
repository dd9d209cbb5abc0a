package handler_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/handler"
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/bitfantasy/labstock/internal/inventory/testutil"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func TestExportExcelAll(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP500", "password1", entity.RoleUser)
	testutil.SeedItem(t, env.DB, "Ethanol 96%", 15, 5)
	testutil.SeedItem(t, env.DB, "Empty bottle", 0, 5)

	w := testutil.DoRequest(env.Router, "GET", "/api/inventory/export/excel", nil, userToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Expected xlsx content type, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "inventory_export") {
		t.Errorf("Expected export filename in disposition, got %s", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Inventory")
	if err != nil {
		t.Fatalf("Failed to read Inventory sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 data rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Item Name" {
		t.Errorf("Expected Item Name header, got %s", rows[0][0])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("Failed to read Summary sheet: %v", err)
	}
	found := false
	for _, row := range summary {
		if len(row) >= 2 && row[0] == "Total Items" && row[1] == "2" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected Total Items 2 in summary, got %v", summary)
	}
}

func TestExportExcelZeroStockFilter(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP501", "password1", entity.RoleUser)
	testutil.SeedItem(t, env.DB, "Stocked item", 15, 5)
	empty := testutil.SeedItem(t, env.DB, "Depleted item", 0, 5)

	w := testutil.DoRequest(env.Router, "GET", "/api/inventory/export/excel?filter=zero_stock", nil, userToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Inventory_Zero Stock")
	if err != nil {
		t.Fatalf("Failed to read filtered sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus 1 data row, got %d rows", len(rows))
	}
	if rows[1][0] != empty.ItemName {
		t.Errorf("Expected %s in export, got %s", empty.ItemName, rows[1][0])
	}
	// Status column
	if rows[1][14] != "Zero Stock" {
		t.Errorf("Expected Zero Stock status, got %s", rows[1][14])
	}
}

func TestExportExcelInvalidFilter(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP502", "password1", entity.RoleUser)
	testutil.SeedItem(t, env.DB, "Some item", 10, 2)

	w := testutil.DoRequest(env.Router, "GET", "/api/inventory/export/excel?filter=everything", nil, userToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// failingWriter rejects every body write, like a client that
// disconnected mid-download.
type failingWriter struct {
	http.ResponseWriter
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestExportExcelWriteFailureSendsNoSecondBody(t *testing.T) {
	env := testutil.SetupEnv(t)
	user, _ := testutil.SeedUser(t, env.DB, "EMP504", "password1", entity.RoleUser)
	testutil.SeedItem(t, env.DB, "Some item", 10, 2)

	services := service.NewServices(env.Repos, env.DB, nil, nil, testutil.TestConfig())
	h := handler.NewExportHandler(services.Export)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(&failingWriter{ResponseWriter: rec})
	c.Request = httptest.NewRequest("GET", "/api/inventory/export/excel?filter=all", nil)
	c.Set(middleware.ContextUserKey, user)

	h.ExportExcel(c)

	if rec.Body.Len() != 0 {
		t.Errorf("Expected no body after write failure, got %d bytes: %s",
			rec.Body.Len(), rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Internal server error") {
		t.Errorf("Expected no error envelope after headers were sent")
	}
	if len(c.Errors) != 1 {
		t.Errorf("Expected the write failure to be recorded, got %v", c.Errors)
	}
}

func TestExportExcelEmptyResult(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP503", "password1", entity.RoleUser)
	testutil.SeedItem(t, env.DB, "Healthy item", 50, 5)

	w := testutil.DoRequest(env.Router, "GET", "/api/inventory/export/excel?filter=expired", nil, userToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 when nothing matches, got %d: %s", w.Code, w.Body.String())
	}
}
