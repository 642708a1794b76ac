package http

import (
	"net/http"
	"strconv"

	"soundstage/pkg/logger"
	"soundstage/pkg/money"
	"soundstage/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CoinHandler struct {
	coinUseCase usecase.CoinUseCase
	logger      *logger.Logger
}

func NewCoinHandler(coinUseCase usecase.CoinUseCase, logger *logger.Logger) *CoinHandler {
	return &CoinHandler{
		coinUseCase: coinUseCase,
		logger:      logger,
	}
}

type PurchaseCoinsRequest struct {
	Amount money.Cents `json:"amount" swaggertype:"number" example:"100.00"`
}

// Purchase godoc
// @Summary      Buy coins
// @Description  Create a payment intent for a coin purchase. Coins are credited once the payment is confirmed.
// @Tags         coins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PurchaseCoinsRequest true "Amount in rand, R10 to R10000"
// @Success      200  {object}  usecase.PurchaseResult
// @Failure      400  {object}  map[string]string
// @Router       /coins/purchase [post]
func (h *CoinHandler) Purchase(c *gin.Context) {
	userID := c.GetString("user_id")

	var req PurchaseCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.coinUseCase.Purchase(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBalance godoc
// @Summary      Get coin balance
// @Tags         coins
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /coins/balance [get]
func (h *CoinHandler) GetBalance(c *gin.Context) {
	userID := c.GetString("user_id")

	balance, err := h.coinUseCase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coin_balance": balance,
		"value":        money.CoinsToCurrency(balance),
	})
}

// GetTransactions godoc
// @Summary      Get transactions
// @Description  Get transaction history for the authenticated user
// @Tags         coins
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of transactions"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /coins/transactions [get]
func (h *CoinHandler) GetTransactions(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, offset := pageParams(c)

	transactions, err := h.coinUseCase.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

func pageParams(c *gin.Context) (int, int) {
	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}
