package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/apperrors"
	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/utils"
)

const (
	KindCanteen = "canteen"
	KindPrint   = "print"
)

const (
	ActionAccept   = "accept"
	ActionProgress = "progress"
	ActionReady    = "ready"
	ActionReject   = "reject"
	ActionPaid     = "paid"
)

// actionStatus is the transition table. The state machine is deliberately
// relaxed: an authorized vendor may set any status regardless of the current
// one, so a vendor can correct a mistake by jumping states. Re-applying a
// status is a no-op on the row; the student is still notified per call.
var actionStatus = map[string]string{
	ActionAccept:   models.StatusAccepted,
	ActionProgress: models.StatusInProgress,
	ActionReady:    models.StatusReady,
	ActionReject:   models.StatusRejected,
}

// CheckoutLine is a client cart entry. Only the item id and quantity are
// trusted; name and price are resolved from the catalog at checkout.
type CheckoutLine struct {
	ItemID uint `json:"item_id" binding:"required"`
	Qty    int  `json:"qty" binding:"required"`
}

// OrderService is the lifecycle engine shared by canteen orders and print
// jobs. Every operation runs in a single transaction; notification inserts
// happen inside it, so a failed side effect aborts the whole operation.
type OrderService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		DB:            db,
		Notifications: NewNotificationService(db),
	}
}

// CreateCanteenOrder checks out a student's cart against one canteen. Prices
// and names are snapshotted from the catalog; the stored total never changes
// when the menu does. Every registered canteen vendor is notified.
func (s *OrderService) CreateCanteenOrder(actor models.Actor, canteenID uint, lines []CheckoutLine) (*models.CanteenOrder, error) {
	if !actor.IsStudent() {
		return nil, apperrors.ErrForbidden
	}
	if len(lines) == 0 {
		return nil, apperrors.Validationf("cart is empty")
	}

	var order models.CanteenOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var canteen models.Canteen
		if err := tx.First(&canteen, canteenID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("canteen %d", canteenID)
			}
			return err
		}

		snapshot := make(models.OrderLines, 0, len(lines))
		var total float64
		for _, ln := range lines {
			if ln.Qty < 1 {
				return apperrors.Validationf("quantity must be at least 1")
			}
			var item models.MenuItem
			if err := tx.First(&item, ln.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("menu item %d", ln.ItemID)
				}
				return err
			}
			if !item.Available {
				return apperrors.Validationf("item %q is not available", item.Name)
			}
			snapshot = append(snapshot, models.OrderLine{
				ItemID: item.ID,
				Name:   item.Name,
				Price:  item.Price,
				Qty:    ln.Qty,
			})
			total += item.Price * float64(ln.Qty)
		}

		order = models.CanteenOrder{
			StudentID: actor.ID,
			CanteenID: canteen.ID,
			Items:     snapshot,
			Total:     total,
			Status:    models.StatusCreated,
			Paid:      false,
			OTPCode:   GeneratePickupCode(),
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Canteen orders do not bind to one vendor, so creation fans out to
		// the whole canteen-vendor cohort.
		return s.Notifications.NotifyCanteenVendors(tx,
			fmt.Sprintf("New canteen order #%d placed.", order.ID))
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePrintJob files a print job with one named print vendor. Unlike
// canteen checkout, the notification is targeted: the job is bound to its
// vendor at creation.
func (s *OrderService) CreatePrintJob(actor models.Actor, vendorID uint, filename string, copies int, color, binding string) (*models.PrintJob, error) {
	if !actor.IsStudent() {
		return nil, apperrors.ErrForbidden
	}
	if filename == "" {
		return nil, apperrors.Validationf("no file selected")
	}
	if !utils.AllowedFile(filename) {
		return nil, apperrors.Validationf("file type not allowed")
	}
	if copies < 1 {
		return nil, apperrors.Validationf("copies must be at least 1")
	}
	if color != models.ColorModeColor && color != models.ColorModeBW {
		return nil, apperrors.Validationf("color must be 'color' or 'bw'")
	}
	if binding != models.BindingNone && binding != models.BindingSpiral && binding != models.BindingStaple {
		return nil, apperrors.Validationf("binding must be 'none', 'spiral' or 'staple'")
	}

	var job models.PrintJob
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var vendor models.User
		if err := tx.First(&vendor, vendorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("print vendor %d", vendorID)
			}
			return err
		}
		if vendor.Role != models.RoleVendor || vendor.VendorType == nil || *vendor.VendorType != models.VendorPrint {
			return apperrors.NotFoundf("print vendor %d", vendorID)
		}

		job = models.PrintJob{
			StudentID: actor.ID,
			VendorID:  vendor.ID,
			Filename:  filename,
			Copies:    copies,
			Color:     color,
			Binding:   binding,
			Price:     printJobPrice(copies, color),
			Status:    models.StatusCreated,
			Paid:      false,
			OTPCode:   GeneratePickupCode(),
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&job).Error; err != nil {
			return err
		}

		return s.Notifications.Notify(tx, vendor.ID,
			fmt.Sprintf("New print job #%d received.", job.ID))
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Transition applies a vendor action to an order or print job. Canteen
// authorization is type-level (any canteen vendor), print authorization is
// instance-level (only the assigned vendor). "paid" flips the paid flag and
// leaves the status alone; every other action sets its target status. The
// owning student is notified once per call.
func (s *OrderService) Transition(actor models.Actor, kind string, id uint, action string) error {
	status, known := actionStatus[action]
	if !known && action != ActionPaid {
		return apperrors.Validationf("unknown action %q", action)
	}

	switch kind {
	case KindCanteen:
		if !actor.IsCanteenVendor() {
			return apperrors.ErrForbidden
		}
		return s.DB.Transaction(func(tx *gorm.DB) error {
			var order models.CanteenOrder
			if err := tx.First(&order, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("canteen order %d", id)
				}
				return err
			}
			update := tx.Model(&models.CanteenOrder{}).Where("id = ?", id)
			if action == ActionPaid {
				if err := update.Update("paid", true).Error; err != nil {
					return err
				}
			} else {
				if err := update.Update("status", status).Error; err != nil {
					return err
				}
			}
			return s.Notifications.Notify(tx, order.StudentID,
				fmt.Sprintf("Canteen order #%d -> %s", id, actionLabel(action)))
		})

	case KindPrint:
		if !actor.IsPrintVendor() {
			return apperrors.ErrForbidden
		}
		return s.DB.Transaction(func(tx *gorm.DB) error {
			var job models.PrintJob
			if err := tx.First(&job, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("print job %d", id)
				}
				return err
			}
			if job.VendorID != actor.ID {
				return apperrors.ErrForbidden
			}
			update := tx.Model(&models.PrintJob{}).Where("id = ?", id)
			if action == ActionPaid {
				if err := update.Update("paid", true).Error; err != nil {
					return err
				}
			} else {
				if err := update.Update("status", status).Error; err != nil {
					return err
				}
			}
			return s.Notifications.Notify(tx, job.StudentID,
				fmt.Sprintf("Print job #%d -> %s", id, actionLabel(action)))
		})

	default:
		return apperrors.Validationf("unknown order kind %q", kind)
	}
}

// GetCanteenOrder returns one order to its owner, any canteen vendor, or an
// admin.
func (s *OrderService) GetCanteenOrder(actor models.Actor, id uint) (*models.CanteenOrder, error) {
	var order models.CanteenOrder
	if err := s.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("canteen order %d", id)
		}
		return nil, err
	}
	if order.StudentID != actor.ID && !actor.IsCanteenVendor() && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return &order, nil
}

// GetPrintJob returns one job to its owner, its assigned vendor, or an admin.
func (s *OrderService) GetPrintJob(actor models.Actor, id uint) (*models.PrintJob, error) {
	var job models.PrintJob
	if err := s.DB.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("print job %d", id)
		}
		return nil, err
	}
	if job.StudentID != actor.ID && job.VendorID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return &job, nil
}

// ListStudentCanteenOrders returns the student's own orders, newest first.
func (s *OrderService) ListStudentCanteenOrders(actor models.Actor) ([]models.CanteenOrder, error) {
	var orders []models.CanteenOrder
	err := s.DB.Where("student_id = ?", actor.ID).Order("id desc").Find(&orders).Error
	return orders, err
}

// ListStudentPrintJobs returns the student's own print jobs, newest first.
func (s *OrderService) ListStudentPrintJobs(actor models.Actor) ([]models.PrintJob, error) {
	var jobs []models.PrintJob
	err := s.DB.Where("student_id = ?", actor.ID).Order("id desc").Find(&jobs).Error
	return jobs, err
}

var openStatuses = []string{models.StatusCreated, models.StatusAccepted, models.StatusInProgress}

// VendorQueue returns the vendor's work queue. A canteen vendor sees every
// open canteen order across all canteens (single-tenant simplification); a
// print vendor sees only jobs assigned to them.
func (s *OrderService) VendorQueue(actor models.Actor) ([]models.CanteenOrder, []models.PrintJob, error) {
	switch {
	case actor.IsCanteenVendor():
		var orders []models.CanteenOrder
		err := s.DB.Where("status IN ?", openStatuses).Order("id desc").Find(&orders).Error
		return orders, nil, err
	case actor.IsPrintVendor():
		var jobs []models.PrintJob
		err := s.DB.Where("vendor_id = ? AND status IN ?", actor.ID, openStatuses).
			Order("id desc").Find(&jobs).Error
		return nil, jobs, err
	default:
		return nil, nil, apperrors.ErrForbidden
	}
}

const (
	upiPayee = "upi@sairam"
	upiName  = "Sairam"
)

// PaymentIntent builds the informational UPI intent string for an order or
// print job. There is no settlement callback; the vendor marks payment
// manually after the student pays.
func (s *OrderService) PaymentIntent(kind string, id uint) (string, error) {
	var amount float64
	switch kind {
	case KindCanteen:
		var order models.CanteenOrder
		if err := s.DB.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperrors.NotFoundf("canteen order %d", id)
			}
			return "", err
		}
		amount = order.Total
	case KindPrint:
		var job models.PrintJob
		if err := s.DB.First(&job, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperrors.NotFoundf("print job %d", id)
			}
			return "", err
		}
		amount = job.Price
	default:
		return "", apperrors.Validationf("unknown order kind %q", kind)
	}

	label := fmt.Sprintf("%s %s #%d", upiName, actionLabel(kind), id)
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&cu=INR&tn=%s",
		upiPayee, upiName, amount, label), nil
}

// actionLabel upper-cases the first letter, e.g. "ready" -> "Ready".
func actionLabel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
