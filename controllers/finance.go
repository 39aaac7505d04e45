// controllers/finance.go
package controllers

import (
	"net/http"

	"studiobela-backend/config"
	"studiobela-backend/models"
	"studiobela-backend/services"
	"studiobela-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateExpenseInput struct {
	Description       string     `json:"description" binding:"required"`
	Category          string     `json:"category"`
	Type              string     `json:"type" binding:"required,oneof=fixed variable income transfer"`
	Status            string     `json:"status" binding:"omitempty,oneof=paid pending"`
	AmountCentavos    int64      `json:"amount_centavos" binding:"required,min=1"`
	PaymentDate       string     `json:"payment_date" binding:"required"`
	PaymentMethod     string     `json:"payment_method"`
	CardID            *uuid.UUID `json:"card_id"`
	AccountID         *uuid.UUID `json:"account_id"`
	InstallmentsTotal int        `json:"installments_total" binding:"omitempty,min=1"`
}

type UpdateExpenseInput struct {
	Status    string     `json:"status" binding:"required,oneof=paid pending"`
	AccountID *uuid.UUID `json:"account_id"`
}

type CreditCardInput struct {
	Name          string `json:"name" binding:"required"`
	LimitCentavos int64  `json:"limit_centavos" binding:"required,min=1"`
	ClosingDay    int    `json:"closing_day" binding:"min=0,max=31"`
	DueDay        int    `json:"due_day" binding:"min=0,max=31"`
}

type BankAccountInput struct {
	Name            string `json:"name" binding:"required"`
	BalanceCentavos int64  `json:"balance_centavos"`
}

type UpdateCreditCardInput struct {
	Name          *string `json:"name"`
	LimitCentavos *int64  `json:"limit_centavos" binding:"omitempty,min=1"`
	ClosingDay    *int    `json:"closing_day" binding:"omitempty,min=0,max=31"`
	DueDay        *int    `json:"due_day" binding:"omitempty,min=0,max=31"`
}

type UpdateBankAccountInput struct {
	Name *string `json:"name"`
}

type FinanceController struct {
	ledger   *services.LedgerService
	cashFlow *services.CashFlowService
}

func NewFinanceController(ledger *services.LedgerService, cashFlow *services.CashFlowService) *FinanceController {
	return &FinanceController{ledger: ledger, cashFlow: cashFlow}
}

// CreateExpense records a ledger line through the ledger engine;
// installment purchases come back as multiple rows
func (fc *FinanceController) CreateExpense(c *gin.Context) {
	var input CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	paymentDate, err := utils.ParseDate(input.PaymentDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment_date format, use AAAA-MM-DD")
		return
	}

	expenses, err := fc.ledger.CreateExpense(services.ExpenseInput{
		Description:       input.Description,
		Category:          input.Category,
		Type:              input.Type,
		Status:            input.Status,
		AmountCentavos:    input.AmountCentavos,
		PaymentDate:       paymentDate,
		PaymentMethod:     input.PaymentMethod,
		CardID:            input.CardID,
		AccountID:         input.AccountID,
		InstallmentsTotal: input.InstallmentsTotal,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expenses)
}

func (fc *FinanceController) GetExpenses(c *gin.Context) {
	query := config.DB.Order("payment_date DESC")
	if from := c.Query("start_date"); from != "" {
		date, err := utils.ParseDate(from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, use AAAA-MM-DD")
			return
		}
		query = query.Where("payment_date >= ?", utils.BeginningOfDay(date))
	}
	if to := c.Query("end_date"); to != "" {
		date, err := utils.ParseDate(to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, use AAAA-MM-DD")
			return
		}
		query = query.Where("payment_date <= ?", utils.EndOfDay(date))
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve expenses")
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// UpdateExpense transitions an expense's payment status; paying a
// pending expense with an account settles it against that account
func (fc *FinanceController) UpdateExpense(c *gin.Context) {
	expenseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID format")
		return
	}

	var input UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	expense, err := fc.ledger.UpdateExpenseStatus(expenseUUID, input.Status, input.AccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// GetCashFlow returns the unified transaction stream with running balance
func (fc *FinanceController) GetCashFlow(c *gin.Context) {
	start, err := utils.ParseDate(c.Query("start_date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid start_date format, use AAAA-MM-DD")
		return
	}
	end, err := utils.ParseDate(c.Query("end_date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid end_date format, use AAAA-MM-DD")
		return
	}

	transactions, err := fc.cashFlow.Range(utils.BeginningOfDay(start), utils.EndOfDay(end))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (fc *FinanceController) CreateCreditCard(c *gin.Context) {
	var input CreditCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	card := models.CreditCard{
		Name:          input.Name,
		LimitCentavos: input.LimitCentavos,
		ClosingDay:    input.ClosingDay,
		DueDay:        input.DueDay,
	}
	if err := config.DB.Create(&card).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create card")
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (fc *FinanceController) GetCreditCards(c *gin.Context) {
	var cards []models.CreditCard
	if err := config.DB.Order("name").Find(&cards).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (fc *FinanceController) UpdateCreditCard(c *gin.Context) {
	cardUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	var input UpdateCreditCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var card models.CreditCard
	if err := config.DB.First(&card, "id = ?", cardUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Card not found")
		return
	}

	if input.Name != nil {
		card.Name = *input.Name
	}
	if input.LimitCentavos != nil {
		card.LimitCentavos = *input.LimitCentavos
	}
	if input.ClosingDay != nil {
		card.ClosingDay = *input.ClosingDay
	}
	if input.DueDay != nil {
		card.DueDay = *input.DueDay
	}

	if err := config.DB.Save(&card).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update card")
		return
	}

	c.JSON(http.StatusOK, card)
}

// DeleteCreditCard removes a card; its pending charges stay in the ledger
func (fc *FinanceController) DeleteCreditCard(c *gin.Context) {
	cardUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	result := config.DB.Delete(&models.CreditCard{}, "id = ?", cardUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete card")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Card not found")
		return
	}

	c.Status(http.StatusNoContent)
}

func (fc *FinanceController) CreateBankAccount(c *gin.Context) {
	var input BankAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	account := models.BankAccount{
		Name:            input.Name,
		BalanceCentavos: input.BalanceCentavos,
	}
	if err := config.DB.Create(&account).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (fc *FinanceController) GetBankAccounts(c *gin.Context) {
	var accounts []models.BankAccount
	if err := config.DB.Order("name").Find(&accounts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve accounts")
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// UpdateBankAccount renames an account. The balance is not writable here;
// it moves only through the ledger engine.
func (fc *FinanceController) UpdateBankAccount(c *gin.Context) {
	accountUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	var input UpdateBankAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var account models.BankAccount
	if err := config.DB.First(&account, "id = ?", accountUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	if input.Name != nil {
		account.Name = *input.Name
	}

	if err := config.DB.Save(&account).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, account)
}

func (fc *FinanceController) DeleteBankAccount(c *gin.Context) {
	accountUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	result := config.DB.Delete(&models.BankAccount{}, "id = ?", accountUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.Status(http.StatusNoContent)
}
