// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"studiobela-backend/config"
	"studiobela-backend/models"
	"studiobela-backend/services"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateAppointmentInput covers both full edits and the common
// status-only transition. Status "completed" routes through settlement.
type UpdateAppointmentInput struct {
	StartTime           *time.Time `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	Status              *string    `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes               *string    `json:"notes"`
	PaymentMethod       *string    `json:"payment_method"`
	DiscountCentavos    *int64     `json:"discount_centavos"`
	FinalAmountCentavos *int64     `json:"final_amount_centavos"`
}

// CreateAppointmentInput books a single slot directly, outside the
// chained booking flow.
type CreateAppointmentInput struct {
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	StaffID    uuid.UUID  `json:"staff_id" binding:"required"`
	ServiceID  uuid.UUID  `json:"service_id" binding:"required"`
	LocationID uuid.UUID  `json:"location_id" binding:"required"`
	StartTime  time.Time  `json:"start_time" binding:"required"`
	EndTime    *time.Time `json:"end_time"`
	Status     string     `json:"status" binding:"omitempty,oneof=pending confirmed"`
	Notes      string     `json:"notes"`
}

type AppointmentController struct {
	settlements *services.SettlementService
}

func NewAppointmentController(settlements *services.SettlementService) *AppointmentController {
	return &AppointmentController{settlements: settlements}
}

// CreateAppointment books one appointment. The end time defaults to the
// start plus the service's duration.
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", input.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	endTime := input.StartTime.Add(30 * time.Minute)
	if service.DefaultDurationMin > 0 {
		endTime = input.StartTime.Add(time.Duration(service.DefaultDurationMin) * time.Minute)
	}
	if input.EndTime != nil {
		endTime = *input.EndTime
	}

	status := input.Status
	if status == "" {
		status = models.AppointmentPending
	}

	appointment := models.Appointment{
		CustomerID: input.CustomerID,
		StaffID:    input.StaffID,
		ServiceID:  input.ServiceID,
		LocationID: input.LocationID,
		StartTime:  input.StartTime,
		EndTime:    endTime,
		Status:     status,
		Notes:      input.Notes,
	}
	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments lists appointments, optionally filtered by date range
// and status
func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	query := config.DB.Preload("Customer").Preload("Staff").
		Preload("Service").Preload("Location").
		Order("start_time")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("start_date"); from != "" {
		date, err := utils.ParseDate(from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, use AAAA-MM-DD")
			return
		}
		query = query.Where("start_time >= ?", utils.BeginningOfDay(date))
	}
	if to := c.Query("end_date"); to != "" {
		date, err := utils.ParseDate(to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, use AAAA-MM-DD")
			return
		}
		query = query.Where("start_time <= ?", utils.EndOfDay(date))
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := config.DB.Preload("Customer").Preload("Staff").
		Preload("Service").Preload("Location").
		First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment applies field changes, then handles status
// transitions: "completed" runs settlement (idempotent), "cancelled"
// stamps CancelledAt. Appointments are never deleted.
func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.StartTime != nil {
		appointment.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		appointment.EndTime = *input.EndTime
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}
	if input.PaymentMethod != nil {
		appointment.PaymentMethod = *input.PaymentMethod
	}
	if input.DiscountCentavos != nil {
		appointment.DiscountCentavos = *input.DiscountCentavos
	}
	if input.FinalAmountCentavos != nil {
		appointment.FinalAmountCentavos = input.FinalAmountCentavos
	}
	if input.Status != nil && *input.Status == models.AppointmentCancelled &&
		appointment.Status != models.AppointmentCancelled {
		now := time.Now()
		appointment.Status = models.AppointmentCancelled
		appointment.CancelledAt = &now
	}
	if input.Status != nil &&
		(*input.Status == models.AppointmentPending || *input.Status == models.AppointmentConfirmed) {
		appointment.Status = *input.Status
	}

	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	// Completion runs after the field updates are committed so settlement
	// sees the final amount.
	if input.Status != nil && *input.Status == models.AppointmentCompleted {
		if _, err := ac.settlements.CompleteAppointment(appointment.ID); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	if err := config.DB.First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, appointment)
}
