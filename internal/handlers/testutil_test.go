package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ladle-dev/ladle/db"
	"github.com/ladle-dev/ladle/internal/auth"
	"github.com/ladle-dev/ladle/internal/handlers"
	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/router"
)

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	tokens *auth.JWT
	hub    *handlers.Hub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})

	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	tokens := auth.NewJWT("test-secret", time.Hour)
	hub := handlers.NewHub(log)
	h := handlers.New(conn, tokens, hub, log)
	engine := router.New(conn, tokens, h, []string{"http://localhost:5173"})

	return &testApp{t: t, db: conn, engine: engine, tokens: tokens, hub: hub}
}

func (app *testApp) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	app.t.Helper()

	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			app.t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)

	return w
}

func (app *testApp) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	app.t.Helper()

	var body map[string]interface{}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		app.t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}

	return body
}

// register creates a tenant on the given plan and returns its token and
// user id.
func (app *testApp) register(email, plan string) (string, uint) {
	app.t.Helper()

	w := app.request(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":            "Owner",
		"email":           email,
		"password":        "password123",
		"restaurant_name": "Test Kitchen",
	})

	if w.Code != http.StatusCreated {
		app.t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	body := app.decode(w)
	token, _ := body["token"].(string)

	var user models.User

	if err := app.db.Where("email = ?", email).First(&user).Error; err != nil {
		app.t.Fatalf("loading registered user: %v", err)
	}

	if plan != "" && plan != "free" {
		if err := app.db.Model(&user).Update("plan", plan).Error; err != nil {
			app.t.Fatalf("setting plan: %v", err)
		}
	}

	return token, user.ID
}

func (app *testApp) createInventoryItem(token string, name string, current, min float64) uint {
	app.t.Helper()

	w := app.request(http.MethodPost, "/api/inventory", token, map[string]interface{}{
		"name":          name,
		"unit":          "kg",
		"current_stock": current,
		"min_stock":     min,
	})

	if w.Code != http.StatusCreated {
		app.t.Fatalf("creating inventory item returned %d: %s", w.Code, w.Body.String())
	}

	item := app.decode(w)["item"].(map[string]interface{})

	return uint(item["id"].(float64))
}
