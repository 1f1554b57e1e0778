package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/sairamconnect/campus-services/apperrors"
	"github.com/sairamconnect/campus-services/utils"
)

// respondServiceError maps a taxonomy error from the engine onto the HTTP
// envelope.
func respondServiceError(c *gin.Context, err error) {
	utils.RespondError(c, apperrors.StatusCode(err), err)
}
