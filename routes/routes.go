package routes

import (
	"studiobela-backend/config"
	"studiobela-backend/controllers"
	"studiobela-backend/services"
	"studiobela-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Engines share the one DB handle
	settlementService := services.NewSettlementService(config.DB)
	bookingService := services.NewBookingService(config.DB, services.NewWebhookNotifier())
	ledgerService := services.NewLedgerService(config.DB)
	cashFlowService := services.NewCashFlowService(config.DB)

	bookingController := controllers.NewBookingController(bookingService)
	appointmentController := controllers.NewAppointmentController(settlementService)
	referralController := controllers.NewReferralController(settlementService)
	financeController := controllers.NewFinanceController(ledgerService, cashFlowService)
	reportController := controllers.ReportController{}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.POST("/:id/redeem-points", controllers.RedeemPoints)
			customers.POST("/:id/adjust-points", controllers.AdjustPoints)
		}

		// Service catalog routes
		srv := api.Group("/services")
		{
			srv.POST("", controllers.CreateService)
			srv.GET("", controllers.GetServices)
			srv.GET("/:id", controllers.GetService)
			srv.PUT("/:id", controllers.UpdateService)
			srv.DELETE("/:id", controllers.DeleteService)
		}

		// Staff routes (delete is a soft deactivation)
		staff := api.Group("/staff")
		{
			staff.POST("", controllers.CreateStaff)
			staff.GET("", controllers.GetStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)
		}

		staffServices := api.Group("/staff_services")
		{
			staffServices.POST("", controllers.AddStaffService)
			staffServices.GET("", controllers.GetStaffServices)
			staffServices.DELETE("", controllers.DeleteStaffService)
		}

		staffShifts := api.Group("/staff_shifts")
		{
			staffShifts.POST("", controllers.CreateStaffShift)
			staffShifts.GET("", controllers.GetStaffShifts)
			staffShifts.DELETE("/:id", controllers.DeleteStaffShift)
		}

		// Location routes
		locations := api.Group("/locations")
		{
			locations.POST("", controllers.CreateLocation)
			locations.GET("", controllers.GetLocations)
			locations.PUT("/:id", controllers.UpdateLocation)
		}

		// Chained booking
		api.POST("/bookings", bookingController.CreateBooking)

		// Appointment routes (no delete: cancellation is a status)
		appointments := api.Group("/appointments")
		{
			appointments.POST("", appointmentController.CreateAppointment)
			appointments.GET("", appointmentController.GetAppointments)
			appointments.GET("/:id", appointmentController.GetAppointment)
			appointments.PATCH("/:id", appointmentController.UpdateAppointment)
		}

		// Referral routes
		referrals := api.Group("/referrals")
		{
			referrals.GET("", referralController.GetReferrals)
			referrals.POST("/:id/apply-reward", referralController.ApplyReward)
		}

		// Commission routes
		commissions := api.Group("/staff_commissions")
		{
			commissions.GET("", controllers.GetCommissions)
			commissions.PATCH("/:id", controllers.UpdateCommission)
		}

		// Ledger routes
		expenses := api.Group("/expenses")
		{
			expenses.POST("", financeController.CreateExpense)
			expenses.GET("", financeController.GetExpenses)
			expenses.PATCH("/:id", financeController.UpdateExpense)
		}

		cards := api.Group("/credit-cards")
		{
			cards.POST("", financeController.CreateCreditCard)
			cards.GET("", financeController.GetCreditCards)
			cards.PUT("/:id", financeController.UpdateCreditCard)
			cards.DELETE("/:id", financeController.DeleteCreditCard)
		}

		accounts := api.Group("/accounts")
		{
			accounts.POST("", financeController.CreateBankAccount)
			accounts.GET("", financeController.GetBankAccounts)
			accounts.PUT("/:id", financeController.UpdateBankAccount)
			accounts.DELETE("/:id", financeController.DeleteBankAccount)
		}

		api.GET("/finance/cashflow", financeController.GetCashFlow)
		api.GET("/dashboard/financial", controllers.GetFinancialOverview)

		// Report routes
		reports := api.Group("/reports")
		{
			reports.GET("/revenue-by-staff", reportController.GetRevenueByStaff)
			reports.GET("/revenue-by-location", reportController.GetRevenueByLocation)
			reports.GET("/revenue-by-service", reportController.GetRevenueByService)
		}
	}

	return r
}
