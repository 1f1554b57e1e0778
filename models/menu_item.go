package models

type MenuItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CanteenID uint    `gorm:"not null;index" json:"canteen_id"`
	Canteen   Canteen `gorm:"foreignKey:CanteenID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Available bool    `gorm:"not null;default:true" json:"available"`
}
