package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleVendor  = "vendor"

	VendorCanteen = "canteen"
	VendorPrint   = "print"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	Role         string  `gorm:"type:varchar(20);not null" json:"role"`
	VendorType   *string `gorm:"type:varchar(20)" json:"vendor_type,omitempty"`
	FullName     string  `gorm:"type:varchar(255)" json:"full_name"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
