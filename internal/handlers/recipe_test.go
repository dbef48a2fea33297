package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ladle-dev/ladle/internal/models"
)

func TestRecipeSoftDelete(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	w := app.request(http.MethodPost, "/api/recipes", token, map[string]interface{}{
		"name":     "Risotto",
		"category": "mains",
		"ingredients": []map[string]interface{}{
			{"name": "Rice", "quantity": 0.3, "unit": "kg"},
		},
	})
	id := idFrom(t, app, w, "recipe")

	path := fmt.Sprintf("/api/recipes/%d", id)

	w = app.request(http.MethodDelete, path, token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d: %s", w.Code, w.Body.String())
	}

	// Gone from the API...
	w = app.request(http.MethodGet, path, token, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("fetch after delete returned %d, want 404", w.Code)
	}

	w = app.request(http.MethodGet, "/api/recipes", token, nil)
	items := app.decode(w)["items"].([]interface{})

	if len(items) != 0 {
		t.Errorf("list after delete has %d items, want 0", len(items))
	}

	// ...but still in storage, flagged inactive.
	var recipe models.Recipe

	if err := app.db.First(&recipe, id).Error; err != nil {
		t.Fatalf("soft-deleted recipe is gone from storage: %v", err)
	}

	if recipe.IsActive {
		t.Error("soft-deleted recipe is still flagged active")
	}
}

func TestRecipeListFilters(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	for _, recipe := range []map[string]interface{}{
		{"name": "Tiramisu", "category": "desserts"},
		{"name": "Panna Cotta", "category": "desserts"},
		{"name": "Risotto", "category": "mains"},
	} {
		w := app.request(http.MethodPost, "/api/recipes", token, recipe)
		if w.Code != http.StatusCreated {
			t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
		}
	}

	w := app.request(http.MethodGet, "/api/recipes?category=desserts", token, nil)
	items := app.decode(w)["items"].([]interface{})

	if len(items) != 2 {
		t.Errorf("category filter returned %d items, want 2", len(items))
	}

	w = app.request(http.MethodGet, "/api/recipes?search=Tira", token, nil)
	items = app.decode(w)["items"].([]interface{})

	if len(items) != 1 {
		t.Errorf("search filter returned %d items, want 1", len(items))
	}
}

func TestPagination(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	for i := 0; i < 25; i++ {
		w := app.request(http.MethodPost, "/api/recipes", token, map[string]interface{}{
			"name": fmt.Sprintf("Recipe %02d", i),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
		}
	}

	w := app.request(http.MethodGet, "/api/recipes?page=3&limit=10", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list returned %d: %s", w.Code, w.Body.String())
	}

	body := app.decode(w)
	items := body["items"].([]interface{})

	if len(items) != 5 {
		t.Errorf("page 3 has %d items, want 5", len(items))
	}

	pagination := body["pagination"].(map[string]interface{})

	if got := pagination["total"].(float64); got != 25 {
		t.Errorf("total = %v, want 25", got)
	}

	if got := pagination["pages"].(float64); got != 3 {
		t.Errorf("pages = %v, want 3", got)
	}

	if got := pagination["page"].(float64); got != 3 {
		t.Errorf("page = %v, want 3", got)
	}

	if got := pagination["limit"].(float64); got != 10 {
		t.Errorf("limit = %v, want 10", got)
	}
}

func TestPaginationDefaults(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	w := app.request(http.MethodGet, "/api/recipes?page=0&limit=100000", token, nil)

	pagination := app.decode(w)["pagination"].(map[string]interface{})

	if got := pagination["page"].(float64); got != 1 {
		t.Errorf("page = %v, want clamp to 1", got)
	}

	if got := pagination["limit"].(float64); got != 100 {
		t.Errorf("limit = %v, want cap at 100", got)
	}
}
