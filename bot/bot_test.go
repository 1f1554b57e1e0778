package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/services"
	"github.com/sairamconnect/campus-services/utils"
)

func setupBotTest(t *testing.T, name string) (*gorm.DB, *gin.Engine) {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
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

	// Demo identity plus the single seeded canteen, mirroring the startup
	// seed.
	student := models.User{Username: DemoUsername, PasswordHash: "x", Role: models.RoleStudent, FullName: "Sec1"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatal(err)
	}
	canteen := models.Canteen{Name: "Main Canteen", IsOpen: true}
	if err := db.Create(&canteen).Error; err != nil {
		t.Fatal(err)
	}
	items := []models.MenuItem{
		{CanteenID: canteen.ID, Name: "Idli", Price: 10.0, Available: true},
		{CanteenID: canteen.ID, Name: "Vada", Price: 12.0, Available: true},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	handler := NewHandler(db, services.NewOrderService(db))
	r.POST("/telegram/webhook", handler.Webhook)
	return db, r
}

func sendCommand(t *testing.T, r *gin.Engine, text string) map[string]interface{} {
	t.Helper()
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"chat": map[string]interface{}{"id": 42},
			"text": text,
		},
	}
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/telegram/webhook", bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp
}

func TestBotMenu(t *testing.T) {
	_, r := setupBotTest(t, "bot_menu")

	resp := sendCommand(t, r, "/menu")
	assert.Equal(t, "sendMessage", resp["method"])
	assert.Equal(t, float64(42), resp["chat_id"])
	text := resp["text"].(string)
	assert.Contains(t, text, "Live Menu:")
	assert.Contains(t, text, "Idli - ₹10.00")
	assert.Contains(t, text, "Vada - ₹12.00")
}

func TestBotOrder(t *testing.T) {
	db, r := setupBotTest(t, "bot_order")

	// Item 2 is Vada at 12.00, so 2x3 totals 36.00.
	resp := sendCommand(t, r, "/order 2x3")
	text := resp["text"].(string)
	assert.Contains(t, text, "created")
	assert.Contains(t, text, "₹36.00")
	assert.Contains(t, text, "OTP")

	var order models.CanteenOrder
	assert.NoError(t, db.Order("id desc").First(&order).Error)
	assert.Equal(t, models.StatusCreated, order.Status)
	assert.Equal(t, 36.0, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Qty)
}

func TestBotOrderUsageErrors(t *testing.T) {
	db, r := setupBotTest(t, "bot_order_usage")

	for _, cmd := range []string{"/order", "/order 2", "/order twoxthree", "/order 2x"} {
		resp := sendCommand(t, r, cmd)
		assert.Equal(t, "Usage: /order <item_id>x<qty>", resp["text"], "command %q", cmd)
	}

	resp := sendCommand(t, r, "/order 999x1")
	assert.Equal(t, "Invalid item.", resp["text"])

	var count int64
	db.Model(&models.CanteenOrder{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestBotStatus(t *testing.T) {
	db, r := setupBotTest(t, "bot_status")

	resp := sendCommand(t, r, "/status 123")
	assert.Equal(t, "Not found.", resp["text"])

	resp = sendCommand(t, r, "/status")
	assert.Equal(t, "Usage: /status <order_id>", resp["text"])

	sendCommand(t, r, "/order 1x1")
	var order models.CanteenOrder
	assert.NoError(t, db.Order("id desc").First(&order).Error)

	resp = sendCommand(t, r, fmt.Sprintf("/status %d", order.ID))
	assert.Equal(t, fmt.Sprintf("Order #%d: Created | Paid: No", order.ID), resp["text"])
}

func TestBotUnknownCommand(t *testing.T) {
	_, r := setupBotTest(t, "bot_unknown")

	resp := sendCommand(t, r, "/frobnicate")
	assert.Equal(t, "Unknown command. Use /menu, /order, /status.", resp["text"])

	resp = sendCommand(t, r, "/start")
	assert.Contains(t, resp["text"], "Welcome to Sairam Campus Bot")
}
