package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"soundstage/pkg/logger"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupWebhookRouter(verifier *MockVerifier, coins *MockCoinUseCase, deduper EventDeduper) *gin.Engine {
	handler := NewWebhookHandler(verifier, coins, deduper, logger.NewNop())
	router := setupTestRouter("")
	router.POST("/webhooks/stripe", handler.HandleStripe)
	return router
}

func postWebhook(router *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/webhooks/stripe", bytes.NewBufferString(body))
	req.Header.Set("Stripe-Signature", signature)
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	verifier := new(MockVerifier)
	coins := new(MockCoinUseCase)
	router := setupWebhookRouter(verifier, coins, nil)

	verifier.On("ParseWebhook", []byte(`{}`), "bad").Return(nil, payment.ErrInvalidSignature)

	w := postWebhook(router, `{}`, "bad")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	coins.AssertNotCalled(t, "ConfirmPurchase", mock.Anything, mock.Anything)
}

func TestWebhookHandler_SucceededConfirmsOnce(t *testing.T) {
	verifier := new(MockVerifier)
	coins := new(MockCoinUseCase)
	deduper := newMemoryDeduper()
	router := setupWebhookRouter(verifier, coins, deduper)

	event := &payment.WebhookEvent{ID: "evt_1", Type: payment.EventPaymentSucceeded, Reference: "pi_1"}
	verifier.On("ParseWebhook", mock.Anything, "sig").Return(event, nil)
	coins.On("ConfirmPurchase", mock.Anything, "pi_1").
		Return(&entity.Transaction{ID: "tx-1", Status: entity.TransactionStatusCompleted}, nil).Once()

	w := postWebhook(router, `{"id":"evt_1"}`, "sig")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "processed")

	w = postWebhook(router, `{"id":"evt_1"}`, "sig")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate")

	coins.AssertNumberOfCalls(t, "ConfirmPurchase", 1)
}

func TestWebhookHandler_FailedMarksTransaction(t *testing.T) {
	verifier := new(MockVerifier)
	coins := new(MockCoinUseCase)
	router := setupWebhookRouter(verifier, coins, nil)

	event := &payment.WebhookEvent{ID: "evt_2", Type: payment.EventPaymentFailed, Reference: "pi_2"}
	verifier.On("ParseWebhook", mock.Anything, "sig").Return(event, nil)
	coins.On("FailPurchase", mock.Anything, "pi_2").
		Return(&entity.Transaction{ID: "tx-2", Status: entity.TransactionStatusFailed}, nil)

	w := postWebhook(router, `{}`, "sig")

	assert.Equal(t, http.StatusOK, w.Code)
	coins.AssertExpectations(t)
}

func TestWebhookHandler_UnknownReference(t *testing.T) {
	verifier := new(MockVerifier)
	coins := new(MockCoinUseCase)
	router := setupWebhookRouter(verifier, coins, nil)

	event := &payment.WebhookEvent{ID: "evt_3", Type: payment.EventPaymentSucceeded, Reference: "pi_other"}
	verifier.On("ParseWebhook", mock.Anything, "sig").Return(event, nil)
	coins.On("ConfirmPurchase", mock.Anything, "pi_other").Return(nil, entity.ErrTransactionNotFound)

	w := postWebhook(router, `{}`, "sig")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unknown")
}

func TestWebhookHandler_IgnoresOtherEventTypes(t *testing.T) {
	verifier := new(MockVerifier)
	coins := new(MockCoinUseCase)
	router := setupWebhookRouter(verifier, coins, nil)

	event := &payment.WebhookEvent{ID: "evt_4", Type: "charge.refunded"}
	verifier.On("ParseWebhook", mock.Anything, "sig").Return(event, nil)

	w := postWebhook(router, `{}`, "sig")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
	coins.AssertNotCalled(t, "ConfirmPurchase", mock.Anything, mock.Anything)
}

func TestWebhookHandler_InternalErrorReleasesEvent(t *testing.T) {
	verifier := new(MockVerifier)
	coins := new(MockCoinUseCase)
	deduper := newMemoryDeduper()
	router := setupWebhookRouter(verifier, coins, deduper)

	event := &payment.WebhookEvent{ID: "evt_5", Type: payment.EventPaymentSucceeded, Reference: "pi_5"}
	verifier.On("ParseWebhook", mock.Anything, "sig").Return(event, nil)
	coins.On("ConfirmPurchase", mock.Anything, "pi_5").Return(nil, errors.New("database is locked"))

	w := postWebhook(router, `{}`, "sig")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"evt_5"}, deduper.forgotten)
	assert.False(t, deduper.seen["evt_5"])
}
