package http

import (
	"net/http"

	"soundstage/pkg/logger"
	"soundstage/pkg/money"
	"soundstage/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	withdrawalUseCase usecase.WithdrawalUseCase
	logger            *logger.Logger
}

func NewWithdrawalHandler(withdrawalUseCase usecase.WithdrawalUseCase, logger *logger.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalUseCase: withdrawalUseCase,
		logger:            logger,
	}
}

type WithdrawalRequest struct {
	Amount        money.Cents `json:"amount" swaggertype:"number" example:"1000.00"`
	BankName      string      `json:"bank_name"`
	AccountNumber string      `json:"account_number"`
	AccountHolder string      `json:"account_holder"`
}

// RequestWithdrawal godoc
// @Summary      Request a withdrawal
// @Description  Withdraw available earnings to a bank account. Minimum R1000.
// @Tags         withdrawals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WithdrawalRequest true "Withdrawal"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /withdrawals [post]
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID := c.GetString("user_id")

	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.withdrawalUseCase.Request(c.Request.Context(), userID, usecase.WithdrawalInput{
		Amount:        req.Amount,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"withdrawal": withdrawal,
		"message":    "Withdrawal request submitted successfully",
	})
}

// ListWithdrawals godoc
// @Summary      Withdrawal history
// @Tags         withdrawals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /withdrawals [get]
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	userID := c.GetString("user_id")

	withdrawals, err := h.withdrawalUseCase.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

// AvailableEarnings godoc
// @Summary      Withdrawable earnings
// @Tags         withdrawals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /earnings/available [get]
func (h *WithdrawalHandler) AvailableEarnings(c *gin.Context) {
	userID := c.GetString("user_id")

	available, err := h.withdrawalUseCase.AvailableBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available":    available,
		"minimum":      usecase.MinimumWithdrawal,
		"can_withdraw": available >= usecase.MinimumWithdrawal,
	})
}

// ExportPending godoc
// @Summary      Export pending payouts
// @Description  Writes pending withdrawals to a CSV payout file and marks them PROCESSING. Admin only.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usecase.ExportResult
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/withdrawals/export [post]
func (h *WithdrawalHandler) ExportPending(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := h.withdrawalUseCase.ExportPending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
