package database

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/models"
)

// Seed creates the demo accounts and catalog the platform ships with: an
// admin, the demo student used by the chat bot, and one canteen with a few
// items. Safe to run on every startup.
func Seed(db *gorm.DB) error {
	if err := ensureUser(db, "admin", "admin", models.RoleAdmin, nil); err != nil {
		return err
	}
	if err := ensureUser(db, "sec1", "sec1", models.RoleStudent, nil); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Canteen{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	canteen := models.Canteen{Name: "Main Canteen", IsOpen: true}
	if err := db.Create(&canteen).Error; err != nil {
		return err
	}
	items := []models.MenuItem{
		{CanteenID: canteen.ID, Name: "Idli", Price: 10.0, Available: true},
		{CanteenID: canteen.ID, Name: "Vada", Price: 12.0, Available: true},
		{CanteenID: canteen.ID, Name: "Tea", Price: 8.0, Available: true},
	}
	return db.Create(&items).Error
}

func ensureUser(db *gorm.DB, username, password, role string, vendorType *string) error {
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
		VendorType:   vendorType,
		FullName:     username,
		CreatedAt:    time.Now().UTC(),
	}
	return db.Create(&user).Error
}
