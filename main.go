package main

import (
	"fmt"
	"log"
	"os"
	"studiobela-backend/config"
	"studiobela-backend/models"
	"studiobela-backend/routes"
	"studiobela-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Staff{},
		&models.StaffService{},
		&models.StaffShift{},
		&models.Service{},
		&models.Location{},
		&models.Appointment{},
		&models.Referral{},
		&models.StaffCommission{},
		&models.Expense{},
		&models.CreditCard{},
		&models.BankAccount{},
		&models.ReminderLog{},
	)
}

func main() {

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
