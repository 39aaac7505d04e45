// controllers/booking.go
package controllers

import (
	"net/http"
	"time"

	"studiobela-backend/services"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingItemInput is one service of a chained booking. A start_time here
// overrides the chain cursor for this item only.
type BookingItemInput struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	StaffID   uuid.UUID `json:"staff_id" binding:"required"`
	StartTime *string   `json:"start_time"`
}

type CreateBookingInput struct {
	CustomerID    *uuid.UUID         `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	ReferrerPhone string             `json:"referrer_phone"`
	LocationID    *uuid.UUID         `json:"location_id"`
	StartTime     string             `json:"start_time" binding:"required"`
	Notes         string             `json:"notes"`
	Items         []BookingItemInput `json:"items" binding:"required,min=1"`
}

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

const bookingTimeLayout = "2006-01-02T15:04:05"

// CreateBooking books a chain of services in one request
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	anchor, err := time.ParseInLocation(bookingTimeLayout, input.StartTime, time.Local)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid start_time format, use YYYY-MM-DDTHH:MM:SS")
		return
	}

	items := make([]services.BookingItem, 0, len(input.Items))
	for _, item := range input.Items {
		bookingItem := services.BookingItem{
			ServiceID: item.ServiceID,
			StaffID:   item.StaffID,
		}
		if item.StartTime != nil {
			start, err := time.ParseInLocation(bookingTimeLayout, *item.StartTime, time.Local)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid item start_time format")
				return
			}
			bookingItem.StartTime = &start
		}
		items = append(items, bookingItem)
	}

	result, err := bc.bookings.CreateBooking(services.BookingInput{
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		ReferrerPhone: input.ReferrerPhone,
		LocationID:    input.LocationID,
		StartTime:     anchor,
		Notes:         input.Notes,
		Items:         items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer":       result.Customer,
		"appointments":   result.Appointments,
		"total_centavos": result.TotalCentavos,
	})
}
