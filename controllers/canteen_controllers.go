package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/utils"
)

type CanteenController struct {
	DB *gorm.DB
}

func NewCanteenController(db *gorm.DB) *CanteenController {
	return &CanteenController{DB: db}
}

func (cc *CanteenController) GetAllCanteens(c *gin.Context) {
	var canteens []models.Canteen
	if err := cc.DB.Find(&canteens).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of canteens", canteens)
}

// GetCanteenMenu returns a canteen's items plus a naive queue-time estimate:
// two minutes per order currently being worked.
func (cc *CanteenController) GetCanteenMenu(c *gin.Context) {
	canteenID := c.Param("canteen_id")

	var canteen models.Canteen
	if err := cc.DB.First(&canteen, canteenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("canteen not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var items []models.MenuItem
	if err := cc.DB.Where("canteen_id = ?", canteen.ID).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var queued int64
	cc.DB.Model(&models.CanteenOrder{}).
		Where("canteen_id = ? AND status IN ?", canteen.ID,
			[]string{models.StatusAccepted, models.StatusInProgress}).
		Count(&queued)

	utils.RespondJSON(c, http.StatusOK, "Canteen menu", gin.H{
		"canteen":            canteen,
		"items":              items,
		"queue_time_minutes": queued * 2,
	})
}
