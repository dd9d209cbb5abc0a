package handler_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/testutil"
	"github.com/google/uuid"
)

func TestWithdrawalSubmitExceedingStock(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, token := testutil.SeedUser(t, env.DB, "EMP001", "password1", entity.RoleUser)
	item := testutil.SeedItem(t, env.DB, "Ethanol 96%", 15, 5)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            item.ID,
			"requested_quantity": 20,
			"purpose":            "Cleaning",
		}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// Nothing was persisted
	var count int64
	env.DB.Model(&entity.WithdrawalRequest{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no persisted requests, got %d", count)
	}
}

func TestWithdrawalApproveFlow(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP002", "password1", entity.RoleUser)
	_, adminToken := testutil.SeedAdmin(t, env.DB)
	item := testutil.SeedItem(t, env.DB, "Ethanol 96%", 15, 5)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            item.ID,
			"requested_quantity": 3,
			"purpose":            "Calibration run",
		}, userToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "pending" {
		t.Errorf("Expected pending status, got %v", data["status"])
	}
	requestID := data["id"].(string)

	// Submission reserves nothing
	var current entity.InventoryItem
	env.DB.First(&current, "id = ?", item.ID)
	if current.Quantity != 15 {
		t.Errorf("Expected quantity 15 after submit, got %d", current.Quantity)
	}

	w2 := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests/process",
		map[string]interface{}{
			"request_id": requestID,
			"action":     "approve",
			"comments":   "ok",
		}, adminToken)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data2["status"] != "approved" {
		t.Errorf("Expected approved status, got %v", data2["status"])
	}
	if data2["processed_at"] == nil {
		t.Errorf("Expected processed_at to be set")
	}

	env.DB.First(&current, "id = ?", item.ID)
	if current.Quantity != 12 {
		t.Errorf("Expected quantity 12 after approval, got %d", current.Quantity)
	}

	// A resolved request cannot be processed again
	w3 := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests/process",
		map[string]interface{}{
			"request_id": requestID,
			"action":     "approve",
		}, adminToken)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 on second approval, got %d: %s", w3.Code, w3.Body.String())
	}
	env.DB.First(&current, "id = ?", item.ID)
	if current.Quantity != 12 {
		t.Errorf("Expected quantity unchanged at 12, got %d", current.Quantity)
	}
}

func TestWithdrawalRejectKeepsStock(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP003", "password1", entity.RoleUser)
	_, adminToken := testutil.SeedAdmin(t, env.DB)
	item := testutil.SeedItem(t, env.DB, "Acetone", 10, 2)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            item.ID,
			"requested_quantity": 4,
			"purpose":            "Rinse",
		}, userToken)
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests/process",
		map[string]interface{}{
			"request_id": requestID,
			"action":     "reject",
			"comments":   "not justified",
		}, adminToken)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data["status"] != "rejected" {
		t.Errorf("Expected rejected status, got %v", data["status"])
	}
	if data["admin_comments"] != "not justified" {
		t.Errorf("Expected comments to round-trip, got %v", data["admin_comments"])
	}

	var current entity.InventoryItem
	env.DB.First(&current, "id = ?", item.ID)
	if current.Quantity != 10 {
		t.Errorf("Expected quantity unchanged at 10, got %d", current.Quantity)
	}
}

func TestWithdrawalApproveAfterStockDrop(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP004", "password1", entity.RoleUser)
	_, adminToken := testutil.SeedAdmin(t, env.DB)
	item := testutil.SeedItem(t, env.DB, "Methanol", 10, 2)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            item.ID,
			"requested_quantity": 8,
			"purpose":            "HPLC",
		}, userToken)
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Stock shrinks between submission and processing
	env.DB.Model(&entity.InventoryItem{}).Where("id = ?", item.ID).Update("quantity", 5)

	w2 := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests/process",
		map[string]interface{}{
			"request_id": requestID,
			"action":     "approve",
		}, adminToken)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w2.Code, w2.Body.String())
	}

	// Rollback leaves the request pending and stock untouched
	var req entity.WithdrawalRequest
	env.DB.First(&req, "id = ?", requestID)
	if req.Status != entity.RequestStatusPending {
		t.Errorf("Expected request still pending, got %s", req.Status)
	}
	var current entity.InventoryItem
	env.DB.First(&current, "id = ?", item.ID)
	if current.Quantity != 5 {
		t.Errorf("Expected quantity 5, got %d", current.Quantity)
	}
}

func TestWithdrawalConcurrentProcessing(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP005", "password1", entity.RoleUser)
	_, adminToken := testutil.SeedAdmin(t, env.DB)
	item := testutil.SeedItem(t, env.DB, "Buffer solution", 10, 2)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            item.ID,
			"requested_quantity": 6,
			"purpose":            "Titration",
		}, userToken)
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	const workers = 5
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests/process",
				map[string]interface{}{
					"request_id": requestID,
					"action":     "approve",
				}, adminToken)
			codes[n] = r.Code
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, code := range codes {
		if code == http.StatusOK {
			ok++
		}
	}
	if ok != 1 {
		t.Errorf("Expected exactly one approval to win, got %d", ok)
	}

	var current entity.InventoryItem
	env.DB.First(&current, "id = ?", item.ID)
	if current.Quantity != 4 {
		t.Errorf("Expected a single decrement to 4, got %d", current.Quantity)
	}
}

func TestWithdrawalListScopedByRole(t *testing.T) {
	env := testutil.SetupEnv(t)
	alice, aliceToken := testutil.SeedUser(t, env.DB, "EMP006", "password1", entity.RoleUser)
	_, bobToken := testutil.SeedUser(t, env.DB, "EMP007", "password1", entity.RoleUser)
	_, adminToken := testutil.SeedAdmin(t, env.DB)
	item := testutil.SeedItem(t, env.DB, "Gloves", 100, 10)

	for _, tok := range []string{aliceToken, bobToken} {
		w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
			map[string]interface{}{
				"item_id":            item.ID,
				"requested_quantity": 2,
				"purpose":            "Daily use",
			}, tok)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	// Requester sees only their own
	w := testutil.DoRequest(env.Router, "GET", "/api/withdrawal-requests", nil, aliceToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	mine := testutil.ParseResponse(w)["data"].([]interface{})
	if len(mine) != 1 {
		t.Fatalf("Expected 1 request for requester, got %d", len(mine))
	}
	if mine[0].(map[string]interface{})["requested_by"] != alice.ID {
		t.Errorf("Expected alice's request, got %v", mine[0])
	}

	// Admin sees all
	w2 := testutil.DoRequest(env.Router, "GET", "/api/withdrawal-requests", nil, adminToken)
	all := testutil.ParseResponse(w2)["data"].([]interface{})
	if len(all) != 2 {
		t.Errorf("Expected 2 requests for admin, got %d", len(all))
	}
}

func seedRequestAt(t *testing.T, env *testutil.Env, item *entity.InventoryItem, requester *entity.User, createdAt time.Time, purpose string) {
	t.Helper()
	req := &entity.WithdrawalRequest{
		ID:                uuid.New().String(),
		ItemID:            item.ID,
		ItemName:          item.ItemName,
		RequestedQuantity: 1,
		Purpose:           purpose,
		RequestedBy:       requester.ID,
		RequestedByName:   requester.FullName,
		Status:            entity.RequestStatusPending,
		CreatedAt:         createdAt,
	}
	if err := env.DB.Create(req).Error; err != nil {
		t.Fatalf("Failed to seed request: %v", err)
	}
}

func assertNewestFirst(t *testing.T, records []interface{}) {
	t.Helper()
	var prev time.Time
	for i, rec := range records {
		raw := rec.(map[string]interface{})["created_at"].(string)
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			t.Fatalf("Failed to parse created_at %q: %v", raw, err)
		}
		if i > 0 && !ts.Before(prev) {
			t.Fatalf("Expected strictly descending created_at, got %v before %v", prev, ts)
		}
		prev = ts
	}
}

func TestWithdrawalListNewestFirst(t *testing.T) {
	env := testutil.SetupEnv(t)
	alice, aliceToken := testutil.SeedUser(t, env.DB, "EMP011", "password1", entity.RoleUser)
	bob, _ := testutil.SeedUser(t, env.DB, "EMP012", "password1", entity.RoleUser)
	_, adminToken := testutil.SeedAdmin(t, env.DB)
	item := testutil.SeedItem(t, env.DB, "Syringes", 100, 10)

	// Interleave the two requesters across distinct timestamps
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedRequestAt(t, env, item, alice, base.Add(time.Duration(2*i)*time.Minute), fmt.Sprintf("alice run %d", i))
		seedRequestAt(t, env, item, bob, base.Add(time.Duration(2*i+1)*time.Minute), fmt.Sprintf("bob run %d", i))
	}

	w := testutil.DoRequest(env.Router, "GET", "/api/withdrawal-requests", nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	all := testutil.ParseResponse(w)["data"].([]interface{})
	if len(all) != 6 {
		t.Fatalf("Expected 6 requests for admin, got %d", len(all))
	}
	assertNewestFirst(t, all)

	w2 := testutil.DoRequest(env.Router, "GET", "/api/withdrawal-requests", nil, aliceToken)
	mine := testutil.ParseResponse(w2)["data"].([]interface{})
	if len(mine) != 3 {
		t.Fatalf("Expected 3 requests for requester, got %d", len(mine))
	}
	assertNewestFirst(t, mine)
	if mine[0].(map[string]interface{})["purpose"] != "alice run 2" {
		t.Errorf("Expected the latest of alice's requests first, got %v", mine[0])
	}
}

func TestWithdrawalInvalidAction(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP008", "password1", entity.RoleUser)
	_, adminToken := testutil.SeedAdmin(t, env.DB)
	item := testutil.SeedItem(t, env.DB, "Pipette tips", 50, 10)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            item.ID,
			"requested_quantity": 1,
			"purpose":            "Sampling",
		}, userToken)
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests/process",
		map[string]interface{}{
			"request_id": requestID,
			"action":     "escalate",
		}, adminToken)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestWithdrawalProcessRequiresAdmin(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP009", "password1", entity.RoleUser)
	item := testutil.SeedItem(t, env.DB, "Filters", 20, 5)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            item.ID,
			"requested_quantity": 1,
			"purpose":            "Filtration",
		}, userToken)
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests/process",
		map[string]interface{}{
			"request_id": requestID,
			"action":     "approve",
		}, userToken)
	if w2.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestWithdrawalSubmitUnknownItem(t *testing.T) {
	env := testutil.SetupEnv(t)
	_, userToken := testutil.SeedUser(t, env.DB, "EMP010", "password1", entity.RoleUser)

	w := testutil.DoRequest(env.Router, "POST", "/api/withdrawal-requests",
		map[string]interface{}{
			"item_id":            "no-such-item",
			"requested_quantity": 1,
			"purpose":            "Testing",
		}, userToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
