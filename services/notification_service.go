package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/models"
)

// NotificationService is the append-only per-user message log. Rows are
// written inside the caller's transaction so a failed insert aborts the
// operation that triggered it.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify appends one unread message for a user using the given handle, which
// may be a transaction.
func (ns *NotificationService) Notify(tx *gorm.DB, userID uint, message string) error {
	notif := models.Notification{
		UserID:    userID,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	return tx.Create(&notif).Error
}

// NotifyCanteenVendors fans one message out to every registered canteen
// vendor. Zero vendors means zero notifications, which is not an error.
func (ns *NotificationService) NotifyCanteenVendors(tx *gorm.DB, message string) error {
	var vendors []models.User
	if err := tx.Where("role = ? AND vendor_type = ?", models.RoleVendor, models.VendorCanteen).
		Find(&vendors).Error; err != nil {
		return err
	}
	for _, v := range vendors {
		if err := ns.Notify(tx, v.ID, message); err != nil {
			return err
		}
	}
	return nil
}

// ListAndMarkRead returns all of a user's notifications newest-first and
// marks every one of them read in the same transaction. Viewing is the
// acknowledgement; there is no separate step.
func (ns *NotificationService) ListAndMarkRead(userID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	err := ns.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Order("id desc").
			Find(&notifs).Error; err != nil {
			return err
		}
		return tx.Model(&models.Notification{}).
			Where("user_id = ?", userID).
			Update("is_read", true).Error
	})
	if err != nil {
		return nil, err
	}
	return notifs, nil
}
