// controllers/referral.go
package controllers

import (
	"net/http"

	"studiobela-backend/config"
	"studiobela-backend/models"
	"studiobela-backend/services"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReferralController struct {
	settlements *services.SettlementService
}

func NewReferralController(settlements *services.SettlementService) *ReferralController {
	return &ReferralController{settlements: settlements}
}

func (rc *ReferralController) GetReferrals(c *gin.Context) {
	var referrals []models.Referral
	if err := config.DB.Preload("ReferrerCustomer").Preload("ReferredCustomer").
		Order("created_at DESC").Find(&referrals).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve referrals")
		return
	}

	c.JSON(http.StatusOK, referrals)
}

// ApplyReward consumes an unlocked referral reward
func (rc *ReferralController) ApplyReward(c *gin.Context) {
	referralUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid referral ID format")
		return
	}

	referral, err := rc.settlements.ApplyReferralReward(referralUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, referral)
}
