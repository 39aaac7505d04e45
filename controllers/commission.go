// controllers/commission.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"studiobela-backend/config"
	"studiobela-backend/models"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateCommissionInput struct {
	Status *string `json:"status" binding:"omitempty,oneof=pendente_pagamento pago cancelado"`
	Notes  *string `json:"notes"`
}

func GetCommissions(c *gin.Context) {
	query := config.DB.Preload("Staff").Preload("Service").Order("date DESC")
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}

	var commissions []models.StaffCommission
	if err := query.Find(&commissions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve commissions")
		return
	}

	c.JSON(http.StatusOK, commissions)
}

// UpdateCommission moves a commission through its payment states. Marking
// it paid stamps the payment date.
func UpdateCommission(c *gin.Context) {
	commissionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid commission ID format")
		return
	}

	var input UpdateCommissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var commission models.StaffCommission
	if err := config.DB.First(&commission, "id = ?", commissionUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Commission not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Status != nil {
		commission.Status = *input.Status
		if *input.Status == models.CommissionPaid && commission.PaymentDate == nil {
			now := time.Now()
			commission.PaymentDate = &now
		}
	}
	if input.Notes != nil {
		commission.Notes = *input.Notes
	}

	if err := config.DB.Save(&commission).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update commission")
		return
	}

	c.JSON(http.StatusOK, commission)
}
