package models

import (
	"time"

	"gorm.io/datatypes"
)

type Order struct {
	BaseModel

	UserID   uint   `gorm:"not null;index"`
	Number   string `gorm:"not null;index"`
	TableID  *uint  `gorm:"index"`
	Type     string `gorm:"not null"` // dine_in|takeout|delivery
	Status   string `gorm:"not null;default:'pending'"`
	Items    datatypes.JSON `gorm:"type:jsonb"` // [{name, quantity, unit_price, notes}]
	Subtotal float64
	Tax      float64
	Total    float64
	Notes    string
	PlacedAt time.Time `gorm:"not null"`
	ClosedAt *time.Time

	// Relationships
	User  User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Table *DiningTable `gorm:"foreignKey:TableID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}
