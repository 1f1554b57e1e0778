package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sairamconnect/campus-services/middlewares"
	"github.com/sairamconnect/campus-services/services"
	"github.com/sairamconnect/campus-services/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(ns *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: ns}
}

// List returns the actor's notifications newest-first. Viewing marks them
// all read; there is no separate acknowledge call.
func (nc *NotificationController) List(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	notifs, err := nc.Notifications.ListAndMarkRead(actor.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}
