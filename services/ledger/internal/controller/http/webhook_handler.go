package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"soundstage/pkg/logger"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/payment"
	"soundstage/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	maxWebhookBody   = 64 << 10
	webhookDedupeTTL = 24 * time.Hour
)

// EventDeduper remembers provider event IDs so redelivered webhooks are
// acknowledged without being applied twice.
type EventDeduper interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type redisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(client *redis.Client) EventDeduper {
	if client == nil {
		return nil
	}
	return &redisDeduper{client: client}
}

func (d *redisDeduper) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, "stripe_event:"+eventID, 1, webhookDedupeTTL).Result()
}

func (d *redisDeduper) Forget(ctx context.Context, eventID string) error {
	return d.client.Del(ctx, "stripe_event:"+eventID).Err()
}

type WebhookHandler struct {
	verifier    payment.WebhookVerifier
	coinUseCase usecase.CoinUseCase
	deduper     EventDeduper
	logger      *logger.Logger
}

func NewWebhookHandler(verifier payment.WebhookVerifier, coinUseCase usecase.CoinUseCase, deduper EventDeduper, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:    verifier,
		coinUseCase: coinUseCase,
		deduper:     deduper,
		logger:      logger,
	}
}

// HandleStripe godoc
// @Summary      Stripe webhook
// @Description  Confirms or fails pending coin purchases. Requires a valid Stripe-Signature header.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	event, err := h.verifier.ParseWebhook(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("Rejected webhook: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Type != payment.EventPaymentSucceeded && event.Type != payment.EventPaymentFailed {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	if h.deduper != nil {
		first, err := h.deduper.MarkProcessed(ctx, event.ID)
		if err != nil {
			h.logger.Warn("Webhook dedupe unavailable for %s: %v", event.ID, err)
		} else if !first {
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}
	}

	if event.Type == payment.EventPaymentSucceeded {
		_, err = h.coinUseCase.ConfirmPurchase(ctx, event.Reference)
	} else {
		_, err = h.coinUseCase.FailPurchase(ctx, event.Reference)
	}

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "processed"})
	case errors.Is(err, entity.ErrTransactionNotFound):
		c.JSON(http.StatusOK, gin.H{"status": "unknown"})
	case usecase.IsBusinessError(err):
		h.logger.Warn("Webhook %s for %s not applied: %v", event.ID, event.Reference, err)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	default:
		// let the provider retry
		if h.deduper != nil {
			if ferr := h.deduper.Forget(ctx, event.ID); ferr != nil {
				h.logger.Warn("Failed to release webhook %s: %v", event.ID, ferr)
			}
		}
		respondError(c, h.logger, err)
	}
}
