package models

type Canteen struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"type:varchar(255);not null" json:"name"`
	IsOpen bool   `gorm:"not null;default:true" json:"is_open"`
}
