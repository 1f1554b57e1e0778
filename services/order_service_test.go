package services

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/apperrors"
	"github.com/sairamconnect/campus-services/models"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Canteen{},
		&models.MenuItem{},
		&models.CanteenOrder{},
		&models.PrintJob{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string, vendorType *string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         role,
		VendorType:   vendorType,
		FullName:     username,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Canteen, []models.MenuItem) {
	t.Helper()
	canteen := models.Canteen{Name: "Main Canteen", IsOpen: true}
	if err := db.Create(&canteen).Error; err != nil {
		t.Fatalf("failed to seed canteen: %v", err)
	}
	items := []models.MenuItem{
		{CanteenID: canteen.ID, Name: "Idli", Price: 10.0, Available: true},
		{CanteenID: canteen.ID, Name: "Vada", Price: 12.0, Available: true},
		{CanteenID: canteen.ID, Name: "Tea", Price: 8.0, Available: true},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("failed to seed items: %v", err)
	}
	return canteen, items
}

func strPtr(s string) *string { return &s }

func notificationsFor(t *testing.T, db *gorm.DB, userID uint) []models.Notification {
	t.Helper()
	var notifs []models.Notification
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&notifs).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	return notifs
}

func TestCheckoutSnapshotTotal(t *testing.T) {
	db := setupTestDB(t, "checkout_snapshot")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	vendor1 := seedUser(t, db, "cv1", models.RoleVendor, strPtr(models.VendorCanteen))
	vendor2 := seedUser(t, db, "cv2", models.RoleVendor, strPtr(models.VendorCanteen))
	canteen, items := seedCatalog(t, db)

	actor := models.Actor{ID: student.ID, Role: models.RoleStudent}
	order, err := svc.CreateCanteenOrder(actor, canteen.ID, []CheckoutLine{
		{ItemID: items[0].ID, Qty: 2}, // Idli 10 x2
		{ItemID: items[2].ID, Qty: 1}, // Tea 8 x1
	})
	assert.NoError(t, err)
	assert.Equal(t, 28.0, order.Total)
	assert.Equal(t, models.StatusCreated, order.Status)
	assert.False(t, order.Paid)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Idli", order.Items[0].Name)
	assert.Equal(t, 10.0, order.Items[0].Price)

	// One fan-out notification per canteen vendor.
	assert.Len(t, notificationsFor(t, db, vendor1.ID), 1)
	assert.Len(t, notificationsFor(t, db, vendor2.ID), 1)

	// Catalog price changes never touch the stored snapshot.
	assert.NoError(t, db.Model(&models.MenuItem{}).Where("id = ?", items[0].ID).Update("price", 99.0).Error)
	var reloaded models.CanteenOrder
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, 28.0, reloaded.Total)
	assert.Equal(t, 10.0, reloaded.Items[0].Price)
}

func TestCheckoutValidation(t *testing.T) {
	db := setupTestDB(t, "checkout_validation")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	canteen, items := seedCatalog(t, db)
	actor := models.Actor{ID: student.ID, Role: models.RoleStudent}

	_, err := svc.CreateCanteenOrder(actor, canteen.ID, nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateCanteenOrder(actor, canteen.ID, []CheckoutLine{{ItemID: items[0].ID, Qty: 0}})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateCanteenOrder(actor, canteen.ID, []CheckoutLine{{ItemID: 9999, Qty: 1}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, db.Model(&models.MenuItem{}).Where("id = ?", items[1].ID).Update("available", false).Error)
	_, err = svc.CreateCanteenOrder(actor, canteen.ID, []CheckoutLine{{ItemID: items[1].ID, Qty: 1}})
	assert.True(t, apperrors.IsValidation(err))

	// Non-students cannot check out.
	vendorActor := models.Actor{ID: 99, Role: models.RoleVendor, VendorType: models.VendorCanteen}
	_, err = svc.CreateCanteenOrder(vendorActor, canteen.ID, []CheckoutLine{{ItemID: items[0].ID, Qty: 1}})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// No order rows were written by any of the failed attempts.
	var count int64
	db.Model(&models.CanteenOrder{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPickupCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GeneratePickupCode()
		assert.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestTransitionIdempotentAndNotifies(t *testing.T) {
	db := setupTestDB(t, "transition_idempotent")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	vendor := seedUser(t, db, "cv1", models.RoleVendor, strPtr(models.VendorCanteen))
	canteen, items := seedCatalog(t, db)

	studentActor := models.Actor{ID: student.ID, Role: models.RoleStudent}
	vendorActor := models.Actor{ID: vendor.ID, Role: models.RoleVendor, VendorType: models.VendorCanteen}

	order, err := svc.CreateCanteenOrder(studentActor, canteen.ID, []CheckoutLine{{ItemID: items[0].ID, Qty: 1}})
	assert.NoError(t, err)

	assert.NoError(t, svc.Transition(vendorActor, KindCanteen, order.ID, ActionReady))
	assert.NoError(t, svc.Transition(vendorActor, KindCanteen, order.ID, ActionReady))

	var reloaded models.CanteenOrder
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.StatusReady, reloaded.Status)

	// One notification per call, not deduplicated.
	notifs := notificationsFor(t, db, student.ID)
	assert.Len(t, notifs, 2)
	assert.Equal(t, fmt.Sprintf("Canteen order #%d -> Ready", order.ID), notifs[0].Message)

	// The relaxed machine allows jumping back from a terminal state.
	assert.NoError(t, svc.Transition(vendorActor, KindCanteen, order.ID, ActionAccept))
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.StatusAccepted, reloaded.Status)
}

func TestTransitionMarkPaid(t *testing.T) {
	db := setupTestDB(t, "transition_paid")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	vendor := seedUser(t, db, "cv1", models.RoleVendor, strPtr(models.VendorCanteen))
	canteen, items := seedCatalog(t, db)

	studentActor := models.Actor{ID: student.ID, Role: models.RoleStudent}
	vendorActor := models.Actor{ID: vendor.ID, Role: models.RoleVendor, VendorType: models.VendorCanteen}

	order, err := svc.CreateCanteenOrder(studentActor, canteen.ID, []CheckoutLine{{ItemID: items[0].ID, Qty: 1}})
	assert.NoError(t, err)

	assert.NoError(t, svc.Transition(vendorActor, KindCanteen, order.ID, ActionPaid))

	var reloaded models.CanteenOrder
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.True(t, reloaded.Paid)
	// Paid leaves the status untouched.
	assert.Equal(t, models.StatusCreated, reloaded.Status)
}

func TestTransitionAuthorization(t *testing.T) {
	db := setupTestDB(t, "transition_auth")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	canteenVendor := seedUser(t, db, "cv1", models.RoleVendor, strPtr(models.VendorCanteen))
	printVendor := seedUser(t, db, "pv1", models.RoleVendor, strPtr(models.VendorPrint))
	otherPrintVendor := seedUser(t, db, "pv2", models.RoleVendor, strPtr(models.VendorPrint))
	canteen, items := seedCatalog(t, db)

	studentActor := models.Actor{ID: student.ID, Role: models.RoleStudent}
	printActor := models.Actor{ID: printVendor.ID, Role: models.RoleVendor, VendorType: models.VendorPrint}
	otherPrintActor := models.Actor{ID: otherPrintVendor.ID, Role: models.RoleVendor, VendorType: models.VendorPrint}
	canteenActor := models.Actor{ID: canteenVendor.ID, Role: models.RoleVendor, VendorType: models.VendorCanteen}

	order, err := svc.CreateCanteenOrder(studentActor, canteen.ID, []CheckoutLine{{ItemID: items[0].ID, Qty: 1}})
	assert.NoError(t, err)
	job, err := svc.CreatePrintJob(studentActor, printVendor.ID, "notes.pdf", 1, models.ColorModeBW, models.BindingNone)
	assert.NoError(t, err)

	// A print vendor cannot touch a canteen order; the row stays unchanged.
	err = svc.Transition(printActor, KindCanteen, order.ID, ActionAccept)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	var reloaded models.CanteenOrder
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.StatusCreated, reloaded.Status)

	// Canteen authorization is type-level; print is instance-level.
	assert.ErrorIs(t, svc.Transition(canteenActor, KindPrint, job.ID, ActionAccept), apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.Transition(otherPrintActor, KindPrint, job.ID, ActionAccept), apperrors.ErrForbidden)
	assert.NoError(t, svc.Transition(printActor, KindPrint, job.ID, ActionAccept))

	var reloadedJob models.PrintJob
	assert.NoError(t, db.First(&reloadedJob, job.ID).Error)
	assert.Equal(t, models.StatusAccepted, reloadedJob.Status)

	// Students never transition anything.
	assert.ErrorIs(t, svc.Transition(studentActor, KindCanteen, order.ID, ActionAccept), apperrors.ErrForbidden)

	// Unknown ids are NotFound for the matching kind.
	assert.ErrorIs(t, svc.Transition(canteenActor, KindCanteen, 9999, ActionAccept), apperrors.ErrNotFound)
}

func TestCreatePrintJob(t *testing.T) {
	db := setupTestDB(t, "print_create")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	vendor := seedUser(t, db, "pv1", models.RoleVendor, strPtr(models.VendorPrint))
	otherVendor := seedUser(t, db, "pv2", models.RoleVendor, strPtr(models.VendorPrint))
	actor := models.Actor{ID: student.ID, Role: models.RoleStudent}

	job, err := svc.CreatePrintJob(actor, vendor.ID, "report.pdf", 3, models.ColorModeColor, models.BindingSpiral)
	assert.NoError(t, err)
	assert.Equal(t, 14.0, job.Price) // 5 + 3*3
	assert.Equal(t, models.StatusCreated, job.Status)
	assert.Len(t, job.OTPCode, 6)

	// Targeted notification: assigned vendor only.
	assert.Len(t, notificationsFor(t, db, vendor.ID), 1)
	assert.Len(t, notificationsFor(t, db, otherVendor.ID), 0)

	job, err = svc.CreatePrintJob(actor, vendor.ID, "scan.jpg", 2, models.ColorModeBW, models.BindingNone)
	assert.NoError(t, err)
	assert.Equal(t, 8.0, job.Price) // 5 + 2*1.5

	_, err = svc.CreatePrintJob(actor, vendor.ID, "malware.exe", 1, models.ColorModeBW, models.BindingNone)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreatePrintJob(actor, vendor.ID, "report.pdf", 0, models.ColorModeBW, models.BindingNone)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreatePrintJob(actor, student.ID, "report.pdf", 1, models.ColorModeBW, models.BindingNone)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVendorQueueScoping(t *testing.T) {
	db := setupTestDB(t, "vendor_queue")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	canteenVendor := seedUser(t, db, "cv1", models.RoleVendor, strPtr(models.VendorCanteen))
	printVendor := seedUser(t, db, "pv1", models.RoleVendor, strPtr(models.VendorPrint))
	otherPrintVendor := seedUser(t, db, "pv2", models.RoleVendor, strPtr(models.VendorPrint))
	canteen, items := seedCatalog(t, db)

	studentActor := models.Actor{ID: student.ID, Role: models.RoleStudent}
	canteenActor := models.Actor{ID: canteenVendor.ID, Role: models.RoleVendor, VendorType: models.VendorCanteen}
	printActor := models.Actor{ID: printVendor.ID, Role: models.RoleVendor, VendorType: models.VendorPrint}

	order, err := svc.CreateCanteenOrder(studentActor, canteen.ID, []CheckoutLine{{ItemID: items[0].ID, Qty: 1}})
	assert.NoError(t, err)
	_, err = svc.CreatePrintJob(studentActor, printVendor.ID, "a.pdf", 1, models.ColorModeBW, models.BindingNone)
	assert.NoError(t, err)
	_, err = svc.CreatePrintJob(studentActor, otherPrintVendor.ID, "b.pdf", 1, models.ColorModeBW, models.BindingNone)
	assert.NoError(t, err)

	orders, jobs, err := svc.VendorQueue(canteenActor)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Nil(t, jobs)

	orders, jobs, err = svc.VendorQueue(printActor)
	assert.NoError(t, err)
	assert.Nil(t, orders)
	assert.Len(t, jobs, 1)
	assert.Equal(t, printVendor.ID, jobs[0].VendorID)

	// Terminal orders leave the queue.
	assert.NoError(t, svc.Transition(canteenActor, KindCanteen, order.ID, ActionReady))
	orders, _, err = svc.VendorQueue(canteenActor)
	assert.NoError(t, err)
	assert.Len(t, orders, 0)

	_, _, err = svc.VendorQueue(studentActor)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupTestDB(t, "get_ownership")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	otherStudent := seedUser(t, db, "stu2", models.RoleStudent, nil)
	canteenVendor := seedUser(t, db, "cv1", models.RoleVendor, strPtr(models.VendorCanteen))
	printVendor := seedUser(t, db, "pv1", models.RoleVendor, strPtr(models.VendorPrint))
	admin := seedUser(t, db, "adm", models.RoleAdmin, nil)
	canteen, items := seedCatalog(t, db)

	studentActor := models.Actor{ID: student.ID, Role: models.RoleStudent}
	order, err := svc.CreateCanteenOrder(studentActor, canteen.ID, []CheckoutLine{{ItemID: items[0].ID, Qty: 1}})
	assert.NoError(t, err)

	_, err = svc.GetCanteenOrder(models.Actor{ID: otherStudent.ID, Role: models.RoleStudent}, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetCanteenOrder(models.Actor{ID: printVendor.ID, Role: models.RoleVendor, VendorType: models.VendorPrint}, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	for _, a := range []models.Actor{
		studentActor,
		{ID: canteenVendor.ID, Role: models.RoleVendor, VendorType: models.VendorCanteen},
		{ID: admin.ID, Role: models.RoleAdmin},
	} {
		got, err := svc.GetCanteenOrder(a, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	}

	_, err = svc.GetCanteenOrder(studentActor, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPaymentIntentFormat(t *testing.T) {
	db := setupTestDB(t, "payment_intent")
	svc := NewOrderService(db)

	student := seedUser(t, db, "stu1", models.RoleStudent, nil)
	canteen, items := seedCatalog(t, db)
	studentActor := models.Actor{ID: student.ID, Role: models.RoleStudent}

	order, err := svc.CreateCanteenOrder(studentActor, canteen.ID, []CheckoutLine{
		{ItemID: items[0].ID, Qty: 2},
		{ItemID: items[2].ID, Qty: 1},
	})
	assert.NoError(t, err)

	intent, err := svc.PaymentIntent(KindCanteen, order.ID)
	assert.NoError(t, err)
	expected := fmt.Sprintf("upi://pay?pa=upi@sairam&pn=Sairam&am=28.00&cu=INR&tn=Sairam Canteen #%d", order.ID)
	assert.Equal(t, expected, intent)

	_, err = svc.PaymentIntent(KindCanteen, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.PaymentIntent("bogus", order.ID)
	assert.True(t, apperrors.IsValidation(err))
}
