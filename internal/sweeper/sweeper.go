package sweeper

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/handlers"
	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/services"
)

// Sweeper runs the periodic maintenance passes: lapsing expired
// subscriptions, marking reservation no-shows, and raising low-stock
// alerts.
type Sweeper struct {
	db          *gorm.DB
	hub         *handlers.Hub
	notifier    *services.Notifier
	log         *logrus.Logger
	noShowGrace time.Duration

	cron *cron.Cron

	// item IDs already alerted, cleared once stock recovers.
	// Guarded by mu: cron runs overlapping passes in their own
	// goroutines.
	mu      sync.Mutex
	alerted map[uint]bool
}

func New(conn *gorm.DB, hub *handlers.Hub, notifier *services.Notifier, log *logrus.Logger, noShowGrace time.Duration) *Sweeper {
	if noShowGrace <= 0 {
		noShowGrace = 30 * time.Minute
	}

	return &Sweeper{
		db:          conn,
		hub:         hub,
		notifier:    notifier,
		log:         log,
		noShowGrace: noShowGrace,
		alerted:     make(map[uint]bool),
	}
}

// Start schedules the sweeps at the given interval and runs one pass
// immediately.
func (s *Sweeper) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	s.cron = cron.New()

	spec := fmt.Sprintf("@every %s", interval)

	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return err
	}

	s.cron.Start()

	go s.Sweep()

	s.log.WithField("interval", interval).Info("sweeper started")
	return nil
}

// Stop halts scheduling and waits for a running pass to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}

	<-s.cron.Stop().Done()
	s.log.Info("sweeper stopped")
}

// Sweep runs all passes once.
func (s *Sweeper) Sweep() {
	s.expireSubscriptions()
	s.markNoShows()
	s.scanLowStock()
}

func (s *Sweeper) expireSubscriptions() {
	var lapsed []models.User

	err := s.db.Where("subscription_status = ? AND subscription_expires_at IS NOT NULL AND subscription_expires_at < ?",
		"active", time.Now()).Find(&lapsed).Error

	if err != nil {
		s.log.WithError(err).Error("finding lapsed subscriptions")
		return
	}

	for i := range lapsed {
		user := &lapsed[i]

		if err := s.db.Model(user).Update("subscription_status", "inactive").Error; err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Error("lapsing subscription")
			continue
		}

		s.log.WithField("user_id", user.ID).Info("subscription lapsed")
		s.notifier.SubscriptionExpired(user.Email, user.Plan)
	}
}

func (s *Sweeper) markNoShows() {
	cutoff := time.Now().Add(-s.noShowGrace)

	var stale []models.Reservation

	err := s.db.Where("status = ? AND reserved_for < ?", models.ReservationConfirmed, cutoff).Find(&stale).Error

	if err != nil {
		s.log.WithError(err).Error("finding stale reservations")
		return
	}

	for i := range stale {
		reservation := &stale[i]

		if !models.CanTransitionReservation(reservation.Status, models.ReservationNoShow) {
			continue
		}

		if err := s.db.Model(reservation).Update("status", models.ReservationNoShow).Error; err != nil {
			s.log.WithError(err).WithField("reservation_id", reservation.ID).Error("marking no-show")
			continue
		}

		s.hub.Broadcast(reservation.UserID, handlers.Event{
			Type:    "reservation_status",
			Message: reservation.CustomerName + " reservation is " + models.ReservationNoShow,
		})
	}
}

func (s *Sweeper) scanLowStock() {
	var low []models.InventoryItem

	if err := s.db.Where("current_stock <= min_stock").Find(&low).Error; err != nil {
		s.log.WithError(err).Error("scanning low stock")
		return
	}

	lowIDs := make(map[uint]bool, len(low))
	newlyLow := make(map[uint][]string)

	s.mu.Lock()

	for i := range low {
		item := &low[i]
		lowIDs[item.ID] = true

		if s.alerted[item.ID] {
			continue
		}

		s.alerted[item.ID] = true
		newlyLow[item.UserID] = append(newlyLow[item.UserID], item.Name)
	}

	// Recovered items may alert again next time they dip.
	for id := range s.alerted {
		if !lowIDs[id] {
			delete(s.alerted, id)
		}
	}

	s.mu.Unlock()

	for userID, names := range newlyLow {
		for _, name := range names {
			s.hub.Broadcast(userID, handlers.Event{
				Type:    "low_stock",
				Message: name + " is low on stock",
			})
		}

		var user models.User

		if err := s.db.First(&user, userID).Error; err != nil {
			s.log.WithError(err).WithField("user_id", userID).Error("fetching user for alert")
			continue
		}

		restaurant := user.RestaurantName
		if restaurant == "" {
			restaurant = user.Name
		}

		s.notifier.LowStockAlert(restaurant, names)
	}
}
