package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ladle-dev/ladle/internal/models"
)

func TestLowStockFlag(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	cases := []struct {
		name    string
		current float64
		min     float64
		wantLow bool
	}{
		{"below minimum", 1, 3, true},
		{"at minimum", 3, 3, true},
		{"above minimum", 5, 3, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := app.createInventoryItem(token, tc.name, tc.current, tc.min)

			w := app.request(http.MethodGet, fmt.Sprintf("/api/inventory/%d", id), token, nil)

			if w.Code != http.StatusOK {
				t.Fatalf("fetch returned %d: %s", w.Code, w.Body.String())
			}

			item := app.decode(w)["item"].(map[string]interface{})

			if got := item["low_stock"].(bool); got != tc.wantLow {
				t.Errorf("low_stock = %v, want %v", got, tc.wantLow)
			}
		})
	}
}

func TestLowStockList(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	app.createInventoryItem(token, "Flour", 1, 3)
	app.createInventoryItem(token, "Sugar", 5, 3)

	w := app.request(http.MethodGet, "/api/inventory/low-stock", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("low-stock list returned %d: %s", w.Code, w.Body.String())
	}

	items := app.decode(w)["items"].([]interface{})

	if len(items) != 1 {
		t.Fatalf("low-stock list has %d items, want 1", len(items))
	}

	item := items[0].(map[string]interface{})

	if item["name"] != "Flour" {
		t.Errorf("low-stock item = %v, want Flour", item["name"])
	}
}

func TestRestockReceiveIncrementsStock(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "basic")

	itemID := app.createInventoryItem(token, "Flour", 2, 3)

	w := app.request(http.MethodPost, "/api/restock-orders", token, map[string]interface{}{
		"inventory_item_id": itemID,
		"quantity":          10,
		"unit_cost":         1.5,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("creating restock order returned %d: %s", w.Code, w.Body.String())
	}

	order := app.decode(w)["restock_order"].(map[string]interface{})
	orderID := uint(order["id"].(float64))

	w = app.request(http.MethodPut, fmt.Sprintf("/api/restock-orders/%d", orderID), token, map[string]interface{}{
		"status": "received",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("receiving restock order returned %d: %s", w.Code, w.Body.String())
	}

	stock := func() float64 {
		var item models.InventoryItem

		if err := app.db.First(&item, itemID).Error; err != nil {
			t.Fatalf("loading item: %v", err)
		}

		return item.CurrentStock
	}

	if got := stock(); got != 12 {
		t.Errorf("stock after receive = %v, want 12", got)
	}

	// Receiving the same order again must not double-count.
	w = app.request(http.MethodPut, fmt.Sprintf("/api/restock-orders/%d", orderID), token, map[string]interface{}{
		"status": "received",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("repeated receive returned %d: %s", w.Code, w.Body.String())
	}

	if got := stock(); got != 12 {
		t.Errorf("stock after repeated receive = %v, want 12", got)
	}

	// Cycling away and back must not count the stock again either.
	for _, status := range []string{"pending", "received"} {
		w = app.request(http.MethodPut, fmt.Sprintf("/api/restock-orders/%d", orderID), token, map[string]interface{}{
			"status": status,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("moving to %s returned %d: %s", status, w.Code, w.Body.String())
		}
	}

	if got := stock(); got != 12 {
		t.Errorf("stock after receive cycle = %v, want 12", got)
	}
}

func TestRestockRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "basic")

	itemID := app.createInventoryItem(token, "Flour", 2, 3)

	w := app.request(http.MethodPost, "/api/restock-orders", token, map[string]interface{}{
		"inventory_item_id": itemID,
		"quantity":          5,
	})

	order := app.decode(w)["restock_order"].(map[string]interface{})
	orderID := uint(order["id"].(float64))

	w = app.request(http.MethodPut, fmt.Sprintf("/api/restock-orders/%d", orderID), token, map[string]interface{}{
		"status": "teleported",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status returned %d, want 400", w.Code)
	}
}

func TestInventoryUpdateIdempotent(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	id := app.createInventoryItem(token, "Flour", 10, 3)

	payload := map[string]interface{}{
		"name":          "Bread Flour",
		"unit":          "kg",
		"current_stock": 8,
		"min_stock":     3,
		"cost_per_unit": 1.2,
	}

	path := fmt.Sprintf("/api/inventory/%d", id)

	first := app.request(http.MethodPut, path, token, payload)

	if first.Code != http.StatusOK {
		t.Fatalf("first update returned %d: %s", first.Code, first.Body.String())
	}

	second := app.request(http.MethodPut, path, token, payload)

	if second.Code != http.StatusOK {
		t.Fatalf("second update returned %d: %s", second.Code, second.Body.String())
	}

	if first.Body.String() != second.Body.String() {
		t.Errorf("update is not idempotent:\nfirst:  %s\nsecond: %s", first.Body.String(), second.Body.String())
	}
}
