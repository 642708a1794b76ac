package http

import (
	"net/http"
	"time"

	"soundstage/pkg/logger"
	"soundstage/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionUseCase usecase.SessionUseCase
	logger         *logger.Logger
}

func NewSessionHandler(sessionUseCase usecase.SessionUseCase, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

type CreateSessionRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	ScheduledAt  time.Time `json:"scheduled_at" binding:"required"`
	RSVPPrice    int64     `json:"rsvp_price" binding:"min=0"`
	MaxAttendees *int      `json:"max_attendees" binding:"omitempty,min=1"`
}

// ListSessions godoc
// @Summary      List live sessions
// @Description  Upcoming and live sessions by default, soonest first
// @Tags         live
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "SCHEDULED, LIVE or ENDED"
// @Success      200  {object}  map[string]interface{}
// @Router       /live [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionUseCase.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// CreateSession godoc
// @Summary      Schedule a live session
// @Tags         live
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateSessionRequest true "Session"
// @Success      201  {object}  entity.LiveSession
// @Failure      403  {object}  map[string]string
// @Router       /live [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionUseCase.Create(c.Request.Context(), userID, usecase.CreateSessionInput{
		Title:        req.Title,
		Description:  req.Description,
		ScheduledAt:  req.ScheduledAt,
		RSVPPrice:    req.RSVPPrice,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// RSVP godoc
// @Summary      RSVP to a live session
// @Description  Pays the RSVP price in coins and reserves a seat
// @Tags         live
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /live/{id}/rsvp [post]
func (h *SessionHandler) RSVP(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	rsvp, err := h.sessionUseCase.RSVP(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rsvp":    rsvp,
		"message": "RSVP successful",
	})
}
