// controllers/staff.go
package controllers

import (
	"errors"
	"net/http"

	"studiobela-backend/config"
	"studiobela-backend/models"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateStaffInput struct {
	Name                        string `json:"name" binding:"required"`
	Role                        string `json:"role"`
	DefaultCommissionPercentage int    `json:"default_commission_percentage" binding:"min=0,max=100"`
}

type UpdateStaffInput struct {
	Name                        *string `json:"name"`
	Role                        *string `json:"role"`
	Active                      *bool   `json:"active"`
	DefaultCommissionPercentage *int    `json:"default_commission_percentage" binding:"omitempty,min=0,max=100"`
}

type StaffServiceInput struct {
	StaffID   uuid.UUID `json:"staff_id" binding:"required"`
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
}

type StaffShiftInput struct {
	StaffID    uuid.UUID `json:"staff_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	Weekday    int       `json:"weekday" binding:"required,min=1,max=7"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

func CreateStaff(c *gin.Context) {
	var input CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	staff := models.Staff{
		Name:                        input.Name,
		Role:                        input.Role,
		DefaultCommissionPercentage: input.DefaultCommissionPercentage,
		Active:                      true,
	}
	if err := config.DB.Create(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create staff")
		return
	}

	c.JSON(http.StatusCreated, staff)
}

// GetStaff lists staff, hiding deactivated members unless asked
func GetStaff(c *gin.Context) {
	query := config.DB.Order("name")
	if c.Query("show_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var staff []models.Staff
	if err := query.Find(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve staff")
		return
	}

	c.JSON(http.StatusOK, staff)
}

func UpdateStaff(c *gin.Context) {
	staffUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	var input UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var staff models.Staff
	if err := config.DB.First(&staff, "id = ?", staffUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Staff not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		staff.Name = *input.Name
	}
	if input.Role != nil {
		staff.Role = *input.Role
	}
	if input.Active != nil {
		staff.Active = *input.Active
	}
	if input.DefaultCommissionPercentage != nil {
		staff.DefaultCommissionPercentage = *input.DefaultCommissionPercentage
	}

	if err := config.DB.Save(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update staff")
		return
	}

	c.JSON(http.StatusOK, staff)
}

// DeleteStaff deactivates a staff member. History must stay attributable,
// so there is no hard delete.
func DeleteStaff(c *gin.Context) {
	staffUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	var staff models.Staff
	if err := config.DB.First(&staff, "id = ?", staffUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Staff not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	staff.Active = false
	if err := config.DB.Save(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff '" + staff.Name + "' deactivated successfully"})
}

// AddStaffService links a staff member to a service they can perform.
// Creating an existing link is a no-op.
func AddStaffService(c *gin.Context) {
	var input StaffServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing int64
	if err := config.DB.Model(&models.StaffService{}).
		Where("staff_id = ? AND service_id = ?", input.StaffID, input.ServiceID).
		Count(&existing).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if existing > 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Link already exists"})
		return
	}

	link := models.StaffService{StaffID: input.StaffID, ServiceID: input.ServiceID}
	if err := config.DB.Create(&link).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create link")
		return
	}

	c.JSON(http.StatusCreated, link)
}

func GetStaffServices(c *gin.Context) {
	query := config.DB.Model(&models.StaffService{})
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}

	var links []models.StaffService
	if err := query.Find(&links).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve links")
		return
	}

	c.JSON(http.StatusOK, links)
}

func DeleteStaffService(c *gin.Context) {
	staffID := c.Query("staff_id")
	serviceID := c.Query("service_id")
	if staffID == "" || serviceID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Parameters 'staff_id' and 'service_id' are required")
		return
	}

	result := config.DB.Where("staff_id = ? AND service_id = ?", staffID, serviceID).
		Delete(&models.StaffService{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete link")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Link not found")
		return
	}

	c.Status(http.StatusNoContent)
}

func CreateStaffShift(c *gin.Context) {
	var input StaffShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	shift := models.StaffShift{
		StaffID:    input.StaffID,
		LocationID: input.LocationID,
		Weekday:    input.Weekday,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
	}
	if err := config.DB.Create(&shift).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create shift")
		return
	}

	c.JSON(http.StatusCreated, shift)
}

func GetStaffShifts(c *gin.Context) {
	query := config.DB.Model(&models.StaffShift{})
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}

	var shifts []models.StaffShift
	if err := query.Order("weekday").Find(&shifts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve shifts")
		return
	}

	c.JSON(http.StatusOK, shifts)
}

func DeleteStaffShift(c *gin.Context) {
	shiftUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid shift ID format")
		return
	}

	result := config.DB.Delete(&models.StaffShift{}, "id = ?", shiftUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete shift")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Shift not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted successfully"})
}
