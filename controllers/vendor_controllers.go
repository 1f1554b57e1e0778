package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sairamconnect/campus-services/middlewares"
	"github.com/sairamconnect/campus-services/services"
	"github.com/sairamconnect/campus-services/utils"
)

type VendorController struct {
	Orders *services.OrderService
}

func NewVendorController(orders *services.OrderService) *VendorController {
	return &VendorController{Orders: orders}
}

// Queue returns the acting vendor's open work: canteen vendors see every
// open canteen order, print vendors see their assigned jobs.
func (vc *VendorController) Queue(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	orders, jobs, err := vc.Orders.VendorQueue(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Vendor queue", gin.H{
		"orders":     orders,
		"print_jobs": jobs,
	})
}

// Action applies a lifecycle action (accept, progress, ready, reject, paid)
// to one order or print job.
func (vc *VendorController) Action(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	kind := c.Param("kind")
	action := c.Param("action")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	if err := vc.Orders.Transition(actor, kind, uint(id), action); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Vendor %d applied %q to %s #%d", actor.ID, action, kind, id)
	utils.RespondJSON(c, http.StatusOK, "Updated", gin.H{
		"kind":   kind,
		"id":     id,
		"action": action,
	})
}
