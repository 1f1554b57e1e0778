package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sairamconnect/campus-services/services"
	"github.com/sairamconnect/campus-services/utils"
)

type PaymentController struct {
	Orders *services.OrderService
}

func NewPaymentController(orders *services.OrderService) *PaymentController {
	return &PaymentController{Orders: orders}
}

// UPIIntent returns the UPI pay string for an order or print job. Settlement
// is manual: the student pays with any UPI app and the vendor marks the
// order paid.
func (pc *PaymentController) UPIIntent(c *gin.Context) {
	kind := c.Param("kind")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	intent, err := pc.Orders.PaymentIntent(kind, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "UPI intent", gin.H{
		"upi":  intent,
		"note": "Use any UPI app to pay. After payment, ask vendor to mark as paid.",
	})
}
