package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/apperrors"
	"github.com/sairamconnect/campus-services/middlewares"
	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/utils"
)

// MenuController handles canteen-vendor menu management. The deployment is
// single-canteen, so the vendor manages the first canteen on record, but
// items stay keyed by canteen id throughout.
type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func (mc *MenuController) vendorCanteen(c *gin.Context) (*models.Canteen, bool) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok || !actor.IsCanteenVendor() {
		respondServiceError(c, apperrors.ErrForbidden)
		return nil, false
	}

	var canteen models.Canteen
	if err := mc.DB.First(&canteen).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("no canteen configured"))
			return nil, false
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	return &canteen, true
}

func (mc *MenuController) GetVendorMenu(c *gin.Context) {
	canteen, ok := mc.vendorCanteen(c)
	if !ok {
		return
	}

	var items []models.MenuItem
	if err := mc.DB.Where("canteen_id = ?", canteen.ID).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Vendor menu", gin.H{
		"canteen": canteen,
		"items":   items,
	})
}

func (mc *MenuController) AddMenuItem(c *gin.Context) {
	canteen, ok := mc.vendorCanteen(c)
	if !ok {
		return
	}

	var req struct {
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price <= 0 {
		respondServiceError(c, apperrors.Validationf("price must be positive"))
		return
	}

	item := models.MenuItem{
		CanteenID: canteen.ID,
		Name:      req.Name,
		Price:     req.Price,
		Available: true,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Item added", item)
}

func (mc *MenuController) SetItemAvailability(c *gin.Context) {
	canteen, ok := mc.vendorCanteen(c)
	if !ok {
		return
	}

	itemID := c.Param("item_id")
	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := mc.DB.Where("canteen_id = ?", canteen.ID).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := mc.DB.Model(&item).Update("available", *req.Available).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability updated", item)
}
