package models

import "time"

const (
	ColorModeColor = "color"
	ColorModeBW    = "bw"

	BindingNone   = "none"
	BindingSpiral = "spiral"
	BindingStaple = "staple"
)

type PrintJob struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;references:ID" json:"-"`
	VendorID  uint      `gorm:"not null;index" json:"vendor_id"`
	Vendor    User      `gorm:"foreignKey:VendorID;references:ID" json:"-"`
	Filename  string    `gorm:"type:varchar(255);not null" json:"filename"`
	Copies    int       `gorm:"not null" json:"copies"`
	Color     string    `gorm:"type:varchar(10);not null" json:"color"`
	Binding   string    `gorm:"type:varchar(10);not null" json:"binding"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Created'" json:"status"`
	Paid      bool      `gorm:"not null;default:false" json:"paid"`
	OTPCode   string    `gorm:"type:varchar(6);not null" json:"otp_code"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
