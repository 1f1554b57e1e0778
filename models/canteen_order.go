package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	StatusCreated    = "Created"
	StatusAccepted   = "Accepted"
	StatusInProgress = "In Progress"
	StatusReady      = "Ready"
	StatusRejected   = "Rejected"
)

// OrderLine is a snapshot of a menu item at checkout time. Name and price are
// frozen here so later catalog edits never change a historical total.
type OrderLine struct {
	ItemID uint    `json:"item_id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
}

// OrderLines is stored as a JSON text column.
type OrderLines []OrderLine

func (l OrderLines) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *OrderLines) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	}
	return errors.New("unsupported type for OrderLines")
}

type CanteenOrder struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StudentID uint       `gorm:"not null;index" json:"student_id"`
	Student   User       `gorm:"foreignKey:StudentID;references:ID" json:"-"`
	CanteenID uint       `gorm:"not null;index" json:"canteen_id"`
	Canteen   Canteen    `gorm:"foreignKey:CanteenID;references:ID" json:"-"`
	Items     OrderLines `gorm:"type:text;not null" json:"items"`
	Total     float64    `gorm:"type:decimal(10,2);not null" json:"total"`
	Status    string     `gorm:"type:varchar(20);not null;default:'Created'" json:"status"`
	Paid      bool       `gorm:"not null;default:false" json:"paid"`
	OTPCode   string     `gorm:"type:varchar(6);not null" json:"otp_code"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
