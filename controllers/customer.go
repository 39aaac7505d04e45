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

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	FullName       string     `json:"full_name" binding:"required"`
	Whatsapp       string     `json:"whatsapp" binding:"required"`
	Email          *string    `json:"email"`
	BirthDate      *time.Time `json:"birth_date"`
	PreviousVisits int        `json:"previous_visits" binding:"min=0"`
	Notes          string     `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	FullName  *string    `json:"full_name"`
	Whatsapp  *string    `json:"whatsapp"`
	Email     *string    `json:"email"`
	BirthDate *time.Time `json:"birth_date"`
	Notes     *string    `json:"notes"`
}

type PointsInput struct {
	Points int `json:"points" binding:"required"`
}

// CreateCustomer registers a customer explicitly (outside the booking flow)
func CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Whatsapp) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	phone := utils.NormalizePhone(input.Whatsapp)

	// Check if phone already exists
	var existingCustomer models.Customer
	if err := config.DB.Where("whatsapp = ?", phone).
		First(&existingCustomer).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		FullName:       input.FullName,
		Whatsapp:       phone,
		BirthDate:      input.BirthDate,
		PreviousVisits: input.PreviousVisits,
		IsTrulyNew:     input.PreviousVisits == 0,
		Notes:          input.Notes,
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all customers, newest first
func GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := config.DB.Order("created_at DESC").Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer. Points are not writable
// here; they move only through settlement, redeem and adjust.
func UpdateCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.FullName != nil {
		customer.FullName = *input.FullName
	}
	if input.Whatsapp != nil {
		if !utils.ValidatePhone(*input.Whatsapp) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		phone := utils.NormalizePhone(*input.Whatsapp)

		if customer.Whatsapp != phone {
			var existingCustomer models.Customer
			if err := config.DB.Where("whatsapp = ?", phone).
				First(&existingCustomer).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this phone number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.Whatsapp = phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.BirthDate != nil {
		customer.BirthDate = input.BirthDate
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// RedeemPoints deducts loyalty points from a customer's balance
func RedeemPoints(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input PointsInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Points <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Provide a valid amount of points to redeem")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", customerUUID).Error; err != nil {
			return err
		}
		if customer.Points < input.Points {
			return errInsufficientPoints
		}
		customer.Points -= input.Points
		return tx.Save(&customer).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errInsufficientPoints):
			utils.RespondWithError(c, http.StatusBadRequest, "Insufficient points balance")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var customer models.Customer
	config.DB.First(&customer, "id = ?", customerUUID)
	c.JSON(http.StatusOK, customer)
}

// AdjustPoints applies a manual positive or negative correction to a
// customer's points balance; the result may not go negative.
func AdjustPoints(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input PointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Provide a valid points adjustment")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", customerUUID).Error; err != nil {
			return err
		}
		if customer.Points+input.Points < 0 {
			return errInsufficientPoints
		}
		customer.Points += input.Points
		return tx.Save(&customer).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errInsufficientPoints):
			utils.RespondWithError(c, http.StatusBadRequest, "Points balance cannot go negative")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var customer models.Customer
	config.DB.First(&customer, "id = ?", customerUUID)
	c.JSON(http.StatusOK, customer)
}

var errInsufficientPoints = errors.New("insufficient points")
