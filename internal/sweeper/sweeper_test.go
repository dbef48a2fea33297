package sweeper

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ladle-dev/ladle/db"
	"github.com/ladle-dev/ladle/internal/handlers"
	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/services"
)

func newTestSweeper(t *testing.T) (*Sweeper, *gorm.DB) {
	t.Helper()

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

	hub := handlers.NewHub(log)
	notifier := services.NewNotifier("", log)

	return New(conn, hub, notifier, log, 30*time.Minute), conn
}

func seedUser(t *testing.T, conn *gorm.DB, email string, expiry *time.Time) *models.User {
	t.Helper()

	user := &models.User{
		Name:                  "Owner",
		Email:                 email,
		PasswordHash:          "x",
		Plan:                  "pro",
		SubscriptionStatus:    "active",
		SubscriptionExpiresAt: expiry,
	}

	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	return user
}

func TestExpireSubscriptions(t *testing.T) {
	s, conn := newTestSweeper(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	lapsed := seedUser(t, conn, "lapsed@example.com", &past)
	current := seedUser(t, conn, "current@example.com", &future)
	forever := seedUser(t, conn, "forever@example.com", nil)

	s.Sweep()

	cases := []struct {
		user *models.User
		want string
	}{
		{lapsed, "inactive"},
		{current, "active"},
		{forever, "active"},
	}

	for _, tc := range cases {
		var user models.User

		if err := conn.First(&user, tc.user.ID).Error; err != nil {
			t.Fatalf("loading user: %v", err)
		}

		if user.SubscriptionStatus != tc.want {
			t.Errorf("%s status = %q, want %q", user.Email, user.SubscriptionStatus, tc.want)
		}
	}
}

func TestMarkNoShows(t *testing.T) {
	s, conn := newTestSweeper(t)

	user := seedUser(t, conn, "owner@example.com", nil)

	stale := models.Reservation{
		UserID:           user.ID,
		CustomerName:     "Late",
		PartySize:        2,
		ReservedFor:      time.Now().Add(-2 * time.Hour),
		ConfirmationCode: "AAAAAA",
		Status:           models.ReservationConfirmed,
	}

	upcoming := models.Reservation{
		UserID:           user.ID,
		CustomerName:     "OnTime",
		PartySize:        2,
		ReservedFor:      time.Now().Add(2 * time.Hour),
		ConfirmationCode: "BBBBBB",
		Status:           models.ReservationConfirmed,
	}

	unconfirmed := models.Reservation{
		UserID:           user.ID,
		CustomerName:     "Pending",
		PartySize:        2,
		ReservedFor:      time.Now().Add(-2 * time.Hour),
		ConfirmationCode: "CCCCCC",
		Status:           models.ReservationPending,
	}

	for _, r := range []*models.Reservation{&stale, &upcoming, &unconfirmed} {
		if err := conn.Create(r).Error; err != nil {
			t.Fatalf("seeding reservation: %v", err)
		}
	}

	s.Sweep()

	cases := []struct {
		id   uint
		want string
	}{
		{stale.ID, models.ReservationNoShow},
		{upcoming.ID, models.ReservationConfirmed},
		// Only confirmed reservations can no-show.
		{unconfirmed.ID, models.ReservationPending},
	}

	for _, tc := range cases {
		var got models.Reservation

		if err := conn.First(&got, tc.id).Error; err != nil {
			t.Fatalf("loading reservation %d: %v", tc.id, err)
		}

		if got.Status != tc.want {
			t.Errorf("reservation %d status = %q, want %q", tc.id, got.Status, tc.want)
		}
	}
}

func TestLowStockAlertsOnce(t *testing.T) {
	s, conn := newTestSweeper(t)

	user := seedUser(t, conn, "owner@example.com", nil)

	item := models.InventoryItem{
		UserID:       user.ID,
		Name:         "Flour",
		CurrentStock: 1,
		MinStock:     3,
	}

	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seeding item: %v", err)
	}

	s.Sweep()

	if !s.alerted[item.ID] {
		t.Fatal("low item was not marked alerted")
	}

	// Still low on the next pass: stays alerted, no duplicate.
	s.Sweep()

	if !s.alerted[item.ID] {
		t.Fatal("alert state lost while still low")
	}

	// Recovery clears the alert state so a later dip alerts again.
	if err := conn.Model(&item).Update("current_stock", 10).Error; err != nil {
		t.Fatalf("restocking item: %v", err)
	}

	s.Sweep()

	if s.alerted[item.ID] {
		t.Error("alert state should clear once stock recovers")
	}
}

// Cron schedules each pass in its own goroutine, so low-stock scans can
// overlap.
func TestLowStockScanConcurrent(t *testing.T) {
	s, conn := newTestSweeper(t)

	user := seedUser(t, conn, "owner@example.com", nil)

	items := make([]models.InventoryItem, 0, 200)

	for i := 0; i < 200; i++ {
		items = append(items, models.InventoryItem{
			UserID:       user.ID,
			Name:         fmt.Sprintf("Item %d", i),
			CurrentStock: 1,
			MinStock:     3,
		})
	}

	if err := conn.Create(&items).Error; err != nil {
		t.Fatalf("seeding items: %v", err)
	}

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.scanLowStock()
		}()
	}

	wg.Wait()

	for _, item := range items {
		if !s.alerted[item.ID] {
			t.Fatalf("item %d was not marked alerted", item.ID)
		}
	}
}
