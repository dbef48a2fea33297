package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestPlanGates(t *testing.T) {
	cases := []struct {
		name string
		plan string
		path string
		want int
	}{
		{"free denied suppliers", "free", "/api/suppliers", http.StatusForbidden},
		{"basic allowed suppliers", "basic", "/api/suppliers", http.StatusOK},
		{"pro allowed suppliers", "pro", "/api/suppliers", http.StatusOK},
		{"free denied restock", "free", "/api/restock-orders", http.StatusForbidden},
		{"basic allowed restock", "basic", "/api/restock-orders", http.StatusOK},
		{"basic denied dashboard", "basic", "/api/dashboard/summary", http.StatusForbidden},
		{"pro allowed dashboard", "pro", "/api/dashboard/summary", http.StatusOK},
		{"pro denied export", "pro", "/api/export", http.StatusForbidden},
		{"enterprise allowed export", "enterprise", "/api/export", http.StatusOK},
		{"enterprise allowed dashboard", "enterprise", "/api/dashboard/summary", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)

			token, _ := app.register(tc.plan+"@example.com", tc.plan)

			w := app.request(http.MethodGet, tc.path, token, nil)

			if w.Code != tc.want {
				t.Errorf("%s on %s plan returned %d, want %d: %s", tc.path, tc.plan, w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestPlanGateNamesPlans(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")

	w := app.request(http.MethodGet, "/api/suppliers", token, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	message, _ := app.decode(w)["message"].(string)

	for _, want := range []string{"basic", "free"} {
		if !strings.Contains(message, want) {
			t.Errorf("gate message %q should name %q", message, want)
		}
	}
}
