package controllers

import (
	"net/http"
	"time"

	"studiobela-backend/config"
	"studiobela-backend/models"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
)

type FinancialOverview struct {
	MonthRevenueCentavos       int64 `json:"month_revenue_centavos"`
	MonthExpensesCentavos      int64 `json:"month_expenses_centavos"`
	PendingCommissionsCentavos int64 `json:"pending_commissions_centavos"`
	TotalBalanceCentavos       int64 `json:"total_balance_centavos"`
	CompletedAppointments      int64 `json:"completed_appointments"`
}

// GetFinancialOverview summarizes the current month: realized revenue,
// paid expenses, what is still owed to staff, and cash on hand.
func GetFinancialOverview(c *gin.Context) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var overview FinancialOverview

	err := config.DB.Raw(`
		SELECT COALESCE(SUM(COALESCE(a.final_amount_centavos, sv.price_centavos)), 0)
		FROM appointments a
		JOIN services sv ON sv.id = a.service_id
		WHERE a.status = 'completed' AND a.start_time >= ?
	`, firstOfMonth).Scan(&overview.MonthRevenueCentavos).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build overview")
		return
	}

	config.DB.Model(&models.Appointment{}).
		Where("status = ? AND start_time >= ?", models.AppointmentCompleted, firstOfMonth).
		Count(&overview.CompletedAppointments)

	config.DB.Model(&models.Expense{}).
		Where("status = ? AND type <> ? AND type <> ? AND payment_date >= ?",
			models.ExpensePaid, models.ExpenseIncome, models.ExpenseTransfer, firstOfMonth).
		Select("COALESCE(SUM(amount_centavos), 0)").
		Scan(&overview.MonthExpensesCentavos)

	config.DB.Model(&models.StaffCommission{}).
		Where("status = ?", models.CommissionPendingPayment).
		Select("COALESCE(SUM(commission_amount_centavos), 0)").
		Scan(&overview.PendingCommissionsCentavos)

	config.DB.Model(&models.BankAccount{}).
		Select("COALESCE(SUM(balance_centavos), 0)").
		Scan(&overview.TotalBalanceCentavos)

	c.JSON(http.StatusOK, overview)
}
