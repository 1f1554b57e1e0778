package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/apperrors"
	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// CreateUser lets the admin create accounts of any role. A vendor account
// must carry a vendor type; non-vendors must not.
func (ac *AdminController) CreateUser(c *gin.Context) {
	var req struct {
		Username   string `json:"username" binding:"required"`
		Password   string `json:"password" binding:"required"`
		FullName   string `json:"full_name"`
		Role       string `json:"role" binding:"required"`
		VendorType string `json:"vendor_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Role != models.RoleAdmin && req.Role != models.RoleStudent && req.Role != models.RoleVendor {
		respondServiceError(c, apperrors.Validationf("role must be admin, student or vendor"))
		return
	}

	var vendorType *string
	if req.Role == models.RoleVendor {
		if req.VendorType != models.VendorCanteen && req.VendorType != models.VendorPrint {
			respondServiceError(c, apperrors.Validationf("vendor_type must be canteen or print"))
			return
		}
		vendorType = &req.VendorType
	} else if req.VendorType != "" {
		respondServiceError(c, apperrors.Validationf("vendor_type is only valid for vendors"))
		return
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = req.Username
	}

	user, err := createUserRecord(ac.DB, req.Username, req.Password, fullName, req.Role, vendorType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("User created by admin: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", gin.H{
		"user_id": user.ID,
	})
}

func (ac *AdminController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := ac.DB.Order("id desc").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// GetStats returns the dashboard counters.
func (ac *AdminController) GetStats(c *gin.Context) {
	var stats struct {
		Users     int64 `json:"users"`
		Canteens  int64 `json:"canteens"`
		Orders    int64 `json:"orders"`
		PrintJobs int64 `json:"print_jobs"`
	}

	for _, q := range []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &stats.Users},
		{&models.Canteen{}, &stats.Canteens},
		{&models.CanteenOrder{}, &stats.Orders},
		{&models.PrintJob{}, &stats.PrintJobs},
	} {
		if err := ac.DB.Model(q.model).Count(q.dst).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
