package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"soundstage/pkg/jwt"
	"soundstage/pkg/logger"
	"soundstage/pkg/queue"
	notificationHTTP "soundstage/services/notification/internal/controller/http"
	"soundstage/services/notification/internal/entity"
	"soundstage/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	err error
}

func (s stubUseCase) HandleLedgerEvent(context.Context, queue.LedgerEvent) error { return s.err }

func (s stubUseCase) GetNotifications(context.Context, string, int, int) ([]entity.Notification, int64, error) {
	return []entity.Notification{}, 0, nil
}

func (s stubUseCase) ClearNotifications(context.Context, string) error { return nil }

type stubInspector int

func (s stubInspector) GetQueueLength() (int, error) { return int(s), nil }

func setupTestRouter() (*gin.Engine, *jwt.Service) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.NewService("test-secret")
	handler := notificationHTTP.NewNotificationHandler(stubUseCase{}, logger.NewNop())
	return newRouter(handler, jwtService, stubInspector(3)), jwtService
}

func TestRouter_HealthReportsQueueLength(t *testing.T) {
	router, _ := setupTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(3), response["queue_length"])
}

func TestRouter_NotificationsRequireToken(t *testing.T) {
	router, jwtService := setupTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/notifications", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtService.GenerateToken("fan-1", "FAN")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEventHandler_DropsInvalidEvents(t *testing.T) {
	handle := eventHandler(stubUseCase{err: fmt.Errorf("%w: unknown type", usecase.ErrInvalidEvent)}, logger.NewNop())
	assert.NoError(t, handle(queue.LedgerEvent{ID: "evt-1"}))
}

func TestEventHandler_RequeuesOtherFailures(t *testing.T) {
	handle := eventHandler(stubUseCase{err: errors.New("redis down")}, logger.NewNop())
	assert.Error(t, handle(queue.LedgerEvent{ID: "evt-1"}))
}
