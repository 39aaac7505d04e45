// controllers/location.go
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

type CreateLocationInput struct {
	Name           string `json:"name" binding:"required"`
	Slug           string `json:"slug" binding:"required"`
	Address        string `json:"address"`
	ReferencePoint string `json:"reference_point"`
}

type UpdateLocationInput struct {
	Name           *string `json:"name"`
	Slug           *string `json:"slug"`
	Address        *string `json:"address"`
	ReferencePoint *string `json:"reference_point"`
}

func CreateLocation(c *gin.Context) {
	var input CreateLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	location := models.Location{
		Name:           input.Name,
		Slug:           input.Slug,
		Address:        input.Address,
		ReferencePoint: input.ReferencePoint,
	}
	if err := config.DB.Create(&location).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create location")
		return
	}

	c.JSON(http.StatusCreated, location)
}

func GetLocations(c *gin.Context) {
	var locations []models.Location
	if err := config.DB.Order("name").Find(&locations).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve locations")
		return
	}

	c.JSON(http.StatusOK, locations)
}

func UpdateLocation(c *gin.Context) {
	locationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid location ID format")
		return
	}

	var input UpdateLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var location models.Location
	if err := config.DB.First(&location, "id = ?", locationUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Location not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		location.Name = *input.Name
	}
	if input.Slug != nil {
		location.Slug = *input.Slug
	}
	if input.Address != nil {
		location.Address = *input.Address
	}
	if input.ReferencePoint != nil {
		location.ReferencePoint = *input.ReferencePoint
	}

	if err := config.DB.Save(&location).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update location")
		return
	}

	c.JSON(http.StatusOK, location)
}
