package models

import (
	"gorm.io/datatypes"
)

type Recipe struct {
	BaseModel

	UserID         uint   `gorm:"not null;index"`
	Name           string `gorm:"not null"`
	Category       string
	Description    string
	Instructions   string
	PrepMinutes    int
	CookMinutes    int
	Servings       int
	CostPerServing float64
	Ingredients    datatypes.JSON `gorm:"type:jsonb"` // [{name, quantity, unit}]
	IsActive       bool           `gorm:"not null;default:true"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
