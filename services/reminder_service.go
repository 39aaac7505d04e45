// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"studiobela-backend/models"
	"studiobela-backend/utils"
)

// ReminderService sends next-day appointment reminders over WhatsApp.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders messages every customer with a pending or confirmed
// appointment tomorrow. Failures are logged per appointment and never
// interrupt the batch.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	tomorrow := time.Now().AddDate(0, 0, 1)
	dayStart := utils.BeginningOfDay(tomorrow)
	dayEnd := utils.EndOfDay(tomorrow)

	var appointments []models.Appointment
	if err := s.db.Preload("Customer").Preload("Service").Preload("Location").
		Where("status IN ? AND start_time >= ? AND start_time <= ?",
			[]string{models.AppointmentPending, models.AppointmentConfirmed},
			dayStart, dayEnd).
		Find(&appointments).Error; err != nil {
		log.Printf("Failed to fetch tomorrow's appointments: %v", err)
		return
	}

	for _, appointment := range appointments {
		s.sendReminder(appointment)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) sendReminder(appointment models.Appointment) {
	customer := appointment.Customer
	if customer.Whatsapp == "" {
		return
	}

	message := fmt.Sprintf(
		"Olá %s! Lembrete do seu horário amanhã às %s: %s em %s. Até lá!",
		customer.FullName,
		appointment.StartTime.Format("15:04"),
		appointment.Service.Name,
		appointment.Location.Name,
	)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + utils.NormalizePhone(customer.Whatsapp))
	params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", customer.Whatsapp, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", customer.Whatsapp, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", customer.Whatsapp)
	}

	reminderLog := models.ReminderLog{
		AppointmentID: appointment.ID,
		CustomerID:    customer.ID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       "whatsapp",
		SentAt:        time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for appointment %s: %v", appointment.ID, err)
	}
}
