// controllers/report.go
package controllers

import (
	"net/http"

	"studiobela-backend/config"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles the revenue reports
type ReportController struct{}

type RevenueRow struct {
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Value        int64  `json:"value"`
	Appointments int    `json:"appointments,omitempty"`
}

// reportRange parses the required start/end query params into day
// boundaries.
func reportRange(c *gin.Context) (string, string, bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Parameters 'start_date' and 'end_date' are required")
		return "", "", false
	}
	start, err := utils.ParseDate(startStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, use AAAA-MM-DD")
		return "", "", false
	}
	end, err := utils.ParseDate(endStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, use AAAA-MM-DD")
		return "", "", false
	}
	return utils.BeginningOfDay(start).Format("2006-01-02 15:04:05"),
		utils.EndOfDay(end).Format("2006-01-02 15:04:05"), true
}

// GetRevenueByStaff totals completed-appointment revenue per staff member
func (rc *ReportController) GetRevenueByStaff(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	var rows []RevenueRow
	err := config.DB.Raw(`
		SELECT st.name AS name,
		       COALESCE(SUM(COALESCE(a.final_amount_centavos, sv.price_centavos)), 0) AS value,
		       COUNT(a.id) AS appointments
		FROM appointments a
		JOIN staff st ON st.id = a.staff_id
		JOIN services sv ON sv.id = a.service_id
		WHERE a.status = 'completed' AND a.start_time BETWEEN ? AND ?
		GROUP BY st.name
		ORDER BY value DESC
	`, start, end).Scan(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetRevenueByLocation totals completed-appointment revenue per location
func (rc *ReportController) GetRevenueByLocation(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	var rows []RevenueRow
	err := config.DB.Raw(`
		SELECT l.name AS name,
		       COALESCE(SUM(COALESCE(a.final_amount_centavos, sv.price_centavos)), 0) AS value
		FROM appointments a
		JOIN locations l ON l.id = a.location_id
		JOIN services sv ON sv.id = a.service_id
		WHERE a.status = 'completed' AND a.start_time BETWEEN ? AND ?
		GROUP BY l.name
		ORDER BY value DESC
	`, start, end).Scan(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetRevenueByService totals completed-appointment revenue per service
func (rc *ReportController) GetRevenueByService(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	var rows []RevenueRow
	err := config.DB.Raw(`
		SELECT sv.name AS name,
		       COALESCE(sv.category, 'Sem Categoria') AS category,
		       COALESCE(SUM(COALESCE(a.final_amount_centavos, sv.price_centavos)), 0) AS value,
		       COUNT(a.id) AS appointments
		FROM appointments a
		JOIN services sv ON sv.id = a.service_id
		WHERE a.status = 'completed' AND a.start_time BETWEEN ? AND ?
		GROUP BY sv.name, sv.category
		ORDER BY value DESC
	`, start, end).Scan(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, rows)
}
