package models

import "time"

type Reservation struct {
	BaseModel

	UserID           uint   `gorm:"not null;index"`
	CustomerName     string `gorm:"not null"`
	CustomerPhone    string
	CustomerEmail    string
	PartySize        int
	TableID          *uint     `gorm:"index"`
	ReservedFor      time.Time `gorm:"not null;index"`
	ConfirmationCode string    `gorm:"not null;index"`
	Status           string    `gorm:"not null;default:'pending'"`
	Notes            string

	// Relationships
	User  User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Table *DiningTable `gorm:"foreignKey:TableID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}
