package models

// DiningTable is a physical table in the restaurant. The status field
// is advisory floor state, not a workflow.
type DiningTable struct {
	BaseModel

	UserID   uint `gorm:"not null;index"`
	Number   int  `gorm:"not null"`
	Capacity int
	Location string // "patio", "main", "bar", etc.
	Status   string `gorm:"not null;default:'available'"` // available|occupied|reserved

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (DiningTable) TableName() string {
	return "tables"
}
