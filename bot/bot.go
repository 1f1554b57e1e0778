// Package bot is the chat-command adapter: it translates webhook text
// commands into the same catalog and order-engine calls the main API uses,
// acting as a fixed demo student rather than an authenticated user.
package bot

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/services"
	"github.com/sairamconnect/campus-services/utils"
)

// DemoUsername is the student account bot orders are filed under.
const DemoUsername = "sec1"

const demoCanteenID = 1

type chat struct {
	ID int64 `json:"id"`
}

type incomingMessage struct {
	Chat chat   `json:"chat"`
	Text string `json:"text"`
}

type update struct {
	Message       *incomingMessage `json:"message"`
	EditedMessage *incomingMessage `json:"edited_message"`
}

type Handler struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewHandler(db *gorm.DB, orders *services.OrderService) *Handler {
	return &Handler{DB: db, Orders: orders}
}

// Webhook handles one update. Replies are passive webhook responses
// (method=sendMessage payloads); no outgoing request is made.
func (h *Handler) Webhook(c *gin.Context) {
	var upd update
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.Status(http.StatusOK)
		return
	}

	msg := upd.Message
	if msg == nil {
		msg = upd.EditedMessage
	}
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		c.Status(http.StatusOK)
		return
	}

	reply := func(text string) {
		c.JSON(http.StatusOK, gin.H{
			"method":  "sendMessage",
			"chat_id": msg.Chat.ID,
			"text":    text,
		})
	}

	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "/start"):
		reply("Welcome to Sairam Campus Bot. Use /menu, /order <item_id>x<qty>, /status <id>.")
	case strings.HasPrefix(text, "/menu"):
		reply(h.menu())
	case strings.HasPrefix(text, "/status"):
		reply(h.status(text))
	case strings.HasPrefix(text, "/order"):
		reply(h.order(text))
	default:
		reply("Unknown command. Use /menu, /order, /status.")
	}
}

func (h *Handler) menu() string {
	var items []models.MenuItem
	if err := h.DB.Where("available = ?", true).Limit(25).Find(&items).Error; err != nil {
		utils.ErrorLogger.Printf("bot: menu lookup failed: %v", err)
		return "Menu unavailable."
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", item.ID, item.Name, utils.FormatINR(item.Price)))
	}
	if len(lines) == 0 {
		return "Live Menu:\nNo items"
	}
	return "Live Menu:\n" + strings.Join(lines, "\n")
}

// status looks an id up in canteen orders first, then print jobs. The
// fallback order is part of the observable contract; if ids collide across
// the two tables the canteen order wins.
func (h *Handler) status(text string) string {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "Usage: /status <order_id>"
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return "Usage: /status <order_id>"
	}

	kind := "Order"
	var status string
	var paid bool

	var order models.CanteenOrder
	if err := h.DB.First(&order, id).Error; err == nil {
		status, paid = order.Status, order.Paid
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		var job models.PrintJob
		if err := h.DB.First(&job, id).Error; err != nil {
			return "Not found."
		}
		kind = "Print"
		status, paid = job.Status, job.Paid
	} else {
		utils.ErrorLogger.Printf("bot: status lookup failed: %v", err)
		return "Not found."
	}

	paidLabel := "No"
	if paid {
		paidLabel = "Yes"
	}
	return fmt.Sprintf("%s #%d: %s | Paid: %s", kind, id, status, paidLabel)
}

func (h *Handler) order(text string) string {
	const usage = "Usage: /order <item_id>x<qty>"

	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return usage
	}
	payload := strings.TrimSpace(parts[1])
	itemPart, qtyPart, found := strings.Cut(payload, "x")
	if !found {
		return usage
	}
	itemID, err := strconv.Atoi(strings.TrimSpace(itemPart))
	if err != nil {
		return usage
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
	if err != nil {
		return usage
	}

	var student models.User
	if err := h.DB.Where("username = ?", DemoUsername).First(&student).Error; err != nil {
		return "Invalid item."
	}
	actor := models.Actor{ID: student.ID, Role: student.Role}

	order, err := h.Orders.CreateCanteenOrder(actor, demoCanteenID, []services.CheckoutLine{
		{ItemID: uint(itemID), Qty: qty},
	})
	if err != nil {
		return "Invalid item."
	}

	return fmt.Sprintf("Order #%d created. Amount %s. OTP %s.",
		order.ID, utils.FormatINR(order.Total), order.OTPCode)
}
