package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/apperrors"
	"github.com/sairamconnect/campus-services/middlewares"
	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/services"
	"github.com/sairamconnect/campus-services/utils"
)

type PrintController struct {
	DB        *gorm.DB
	Orders    *services.OrderService
	UploadDir string
}

func NewPrintController(db *gorm.DB, orders *services.OrderService, uploadDir string) *PrintController {
	return &PrintController{DB: db, Orders: orders, UploadDir: uploadDir}
}

// ListPrintVendors returns the print vendors a student can send a job to.
func (pc *PrintController) ListPrintVendors(c *gin.Context) {
	var vendors []models.User
	if err := pc.DB.Where("role = ? AND vendor_type = ?", models.RoleVendor, models.VendorPrint).
		Find(&vendors).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]gin.H, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, gin.H{"id": v.ID, "full_name": v.FullName})
	}
	utils.RespondJSON(c, http.StatusOK, "Print vendors", out)
}

// Upload receives a multipart print job: the document plus vendor, copies,
// color and binding fields. The file is stored before the job row is
// written; a rejected job leaves no row behind.
func (pc *PrintController) Upload(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	vendorID, err := strconv.Atoi(c.PostForm("vendor_id"))
	if err != nil {
		respondServiceError(c, apperrors.Validationf("invalid vendor id"))
		return
	}
	copies, err := strconv.Atoi(c.DefaultPostForm("copies", "1"))
	if err != nil {
		respondServiceError(c, apperrors.Validationf("invalid copies"))
		return
	}
	color := c.DefaultPostForm("color", models.ColorModeBW)
	binding := c.DefaultPostForm("binding", models.BindingNone)

	file, err := c.FormFile("file")
	if err != nil {
		respondServiceError(c, apperrors.Validationf("no file selected"))
		return
	}
	if !utils.AllowedFile(file.Filename) {
		respondServiceError(c, apperrors.Validationf("file type not allowed"))
		return
	}

	stored := utils.StoredFilename(file.Filename)
	if err := os.MkdirAll(pc.UploadDir, 0o755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(pc.UploadDir, stored)); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	job, err := pc.Orders.CreatePrintJob(actor, uint(vendorID), stored, copies, color, binding)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Print job #%d created by student %d for vendor %d (%s)",
		job.ID, actor.ID, job.VendorID, utils.FormatINR(job.Price))
	utils.RespondJSON(c, http.StatusCreated, "Print job created", job)
}

func (pc *PrintController) GetJob(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id, err := strconv.Atoi(c.Param("job_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid job id"))
		return
	}

	job, err := pc.Orders.GetPrintJob(actor, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Print job detail", job)
}

func (pc *PrintController) ListMyJobs(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	jobs, err := pc.Orders.ListStudentPrintJobs(actor)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My print jobs", jobs)
}
