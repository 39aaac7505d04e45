// services/settlement.go
package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiobela-backend/models"
	"studiobela-backend/utils"
)

// SettlementService applies the side effects of an appointment reaching
// "completed": loyalty points, referral resolution and the staff
// commission record.
type SettlementService struct {
	db *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{db: db}
}

// CompleteAppointment transitions an appointment into completed and runs
// settlement exactly once. Re-completing an already-completed appointment
// is a no-op, not an error: the transition is a conditional update, so
// concurrent duplicate calls cannot double-credit. Returns whether this
// call performed the settlement.
func (s *SettlementService) CompleteAppointment(id uuid.UUID) (bool, error) {
	var settled bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status <> ?", id, models.AppointmentCompleted).
			Update("status", models.AppointmentCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Appointment{}).
				Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return &NotFoundError{Entity: "appointment"}
			}
			// Already completed: settlement has run before.
			return nil
		}

		settled = true
		return s.applySettlement(tx, id)
	})
	return settled, err
}

// applySettlement runs the three settlement steps. Each step is attempted
// regardless of the others failing; any captured error still aborts the
// transaction so no partial financial state is committed.
func (s *SettlementService) applySettlement(tx *gorm.DB, id uuid.UUID) error {
	var appointment models.Appointment
	if err := tx.First(&appointment, "id = ?", id).Error; err != nil {
		return err
	}

	var service *models.Service
	var sv models.Service
	if err := tx.First(&sv, "id = ?", appointment.ServiceID).Error; err == nil {
		service = &sv
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var staff *models.Staff
	var st models.Staff
	if err := tx.First(&st, "id = ?", appointment.StaffID).Error; err == nil {
		staff = &st
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var servicePrice int64
	if service != nil {
		servicePrice = service.PriceCentavos
	}
	amount := appointment.SettlementAmount(servicePrice)

	var stepErrs []error

	// One loyalty point per whole currency unit, truncated.
	if amount > 0 {
		points := amount / 100
		if err := tx.Model(&models.Customer{}).
			Where("id = ?", appointment.CustomerID).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			log.Printf("settlement: points credit failed for appointment %s: %v", id, err)
			stepErrs = append(stepErrs, err)
		}
	}

	// A pending referral is unlocked by the referred customer's first
	// completed appointment. The reward is consumed later, separately.
	if err := tx.Model(&models.Referral{}).
		Where("referred_customer_id = ? AND status = ?",
			appointment.CustomerID, models.ReferralPending).
		Update("status", models.ReferralCompleted).Error; err != nil {
		log.Printf("settlement: referral update failed for appointment %s: %v", id, err)
		stepErrs = append(stepErrs, err)
	}

	// Commission needs both staff and service; skip silently otherwise.
	if staff != nil && service != nil {
		commissionAmount := amount * int64(staff.DefaultCommissionPercentage) / 100
		commission := models.StaffCommission{
			AppointmentID:            appointment.ID,
			StaffID:                  staff.ID,
			ServiceID:                service.ID,
			Date:                     utils.BeginningOfDay(appointment.StartTime),
			ServicePriceCentavos:     servicePrice,
			CommissionPercentage:     staff.DefaultCommissionPercentage,
			CommissionAmountCentavos: commissionAmount,
			Status:                   models.CommissionPendingPayment,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "appointment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"staff_id", "service_id", "date", "service_price_centavos",
				"commission_percentage", "commission_amount_centavos",
				"status", "updated_at",
			}),
		}).Create(&commission).Error; err != nil {
			log.Printf("settlement: commission upsert failed for appointment %s: %v", id, err)
			stepErrs = append(stepErrs, err)
		}
	}

	return errors.Join(stepErrs...)
}

// ApplyReferralReward consumes an unlocked referral reward:
// completed -> reward_used. Any other state is rejected.
func (s *SettlementService) ApplyReferralReward(referralID uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&referral, "id = ?", referralID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "referral"}
			}
			return err
		}
		if referral.Status != models.ReferralCompleted {
			return NewValidationError("referral reward is not available for use")
		}
		now := time.Now()
		referral.Status = models.ReferralRewardUsed
		referral.RewardAppliedAt = &now
		return tx.Save(&referral).Error
	})
	if err != nil {
		return nil, err
	}
	return &referral, nil
}
