// controllers/common.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studiobela-backend/services"
	"studiobela-backend/utils"
)

// respondServiceError maps engine errors onto HTTP statuses:
// validation 400, conflict 409, not-found 404, anything else 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case services.IsConflict(err):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case services.IsNotFound(err):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
