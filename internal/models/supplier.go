package models

type Supplier struct {
	BaseModel

	UserID      uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	ContactName string
	Email       string
	Phone       string
	Address     string
	Notes       string

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
