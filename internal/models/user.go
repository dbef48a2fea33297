package models

import "time"

type User struct {
	BaseModel

	Name           string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	RestaurantName string

	Plan                  string     `gorm:"not null;default:'free'"`   // free|basic|pro|enterprise
	SubscriptionStatus    string     `gorm:"not null;default:'active'"` // active|inactive
	SubscriptionExpiresAt *time.Time

	// Relationships
	Recipes        []Recipe        `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	InventoryItems []InventoryItem `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Suppliers      []Supplier      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	RestockOrders  []RestockOrder  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DiningTables   []DiningTable   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Orders         []Order         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reservations   []Reservation   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// SubscriptionCurrent reports whether the user's subscription grants
// access at the given instant: status must be active and the expiry,
// when set, must not have passed.
func (u *User) SubscriptionCurrent(now time.Time) bool {
	if u.SubscriptionStatus != "active" {
		return false
	}
	if u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.Before(now) {
		return false
	}
	return true
}
