package models

import "time"

type InventoryItem struct {
	BaseModel

	UserID       uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	Category     string
	Unit         string // "kg", "l", "pcs", etc.
	CurrentStock float64
	MinStock     float64
	CostPerUnit  float64
	SupplierID   *uint `gorm:"index"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}

// LowStock reports whether the item has fallen to or below its minimum.
func (i *InventoryItem) LowStock() bool {
	return i.CurrentStock <= i.MinStock
}

type RestockOrder struct {
	BaseModel

	UserID          uint `gorm:"not null;index"`
	InventoryItemID uint `gorm:"not null;index"`
	SupplierID      *uint
	Quantity        float64
	UnitCost        float64
	Status          string `gorm:"not null;default:'pending'"` // pending|ordered|received|cancelled
	ReceivedAt      *time.Time

	// Relationships
	User          User          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	InventoryItem InventoryItem `gorm:"foreignKey:InventoryItemID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Supplier      *Supplier     `gorm:"foreignKey:SupplierID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}
