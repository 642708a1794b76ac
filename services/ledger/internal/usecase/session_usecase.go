package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"soundstage/pkg/logger"
	"soundstage/pkg/metrics"
	"soundstage/pkg/money"
	"soundstage/pkg/queue"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/repo/persistent"
)

type CreateSessionInput struct {
	Title        string
	Description  string
	ScheduledAt  time.Time
	RSVPPrice    int64
	MaxAttendees *int
}

type SessionUseCase interface {
	Create(ctx context.Context, hostID string, input CreateSessionInput) (*entity.LiveSession, error)
	List(ctx context.Context, status string) ([]*entity.LiveSession, error)
	RSVP(ctx context.Context, userID, sessionID string) (*entity.RSVP, error)
}

type sessionUseCase struct {
	repo   persistent.LedgerRepository
	events eventSink
	logger *logger.Logger
}

func NewSessionUseCase(repo persistent.LedgerRepository, publisher EventPublisher, logger *logger.Logger) SessionUseCase {
	return &sessionUseCase{
		repo:   repo,
		events: eventSink{publisher: publisher, logger: logger},
		logger: logger,
	}
}

func (uc *sessionUseCase) Create(ctx context.Context, hostID string, input CreateSessionInput) (*entity.LiveSession, error) {
	if strings.TrimSpace(input.Title) == "" || input.ScheduledAt.IsZero() {
		return nil, entity.ErrMissingFields
	}
	if input.RSVPPrice < 0 {
		return nil, entity.ErrInvalidAmount
	}
	if input.MaxAttendees != nil && *input.MaxAttendees <= 0 {
		return nil, entity.ErrInvalidCapacity
	}

	host, err := uc.repo.GetUser(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if !host.HasRole(entity.RoleArtist) {
		return nil, entity.ErrForbidden
	}

	session := &entity.LiveSession{
		HostID:       hostID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		ScheduledAt:  input.ScheduledAt.UTC(),
		RSVPPrice:    input.RSVPPrice,
		MaxAttendees: input.MaxAttendees,
		Status:       entity.SessionStatusScheduled,
	}
	if err := uc.repo.CreateSession(ctx, session); err != nil {
		uc.logger.Error("Failed to create session: %v", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	uc.logger.Info("Live session %s scheduled by %s", session.ID, hostID)
	return session, nil
}

// List returns sessions with the given status, or upcoming and live ones
// when status is empty, soonest first.
func (uc *sessionUseCase) List(ctx context.Context, status string) ([]*entity.LiveSession, error) {
	statuses := []entity.SessionStatus{entity.SessionStatusScheduled, entity.SessionStatusLive}
	if status != "" {
		s := entity.SessionStatus(strings.ToUpper(status))
		if !s.Valid() {
			return nil, entity.ErrInvalidStatus
		}
		statuses = []entity.SessionStatus{s}
	}

	sessions, err := uc.repo.ListSessions(ctx, statuses)
	if err != nil {
		uc.logger.Error("Failed to list sessions: %v", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// RSVP registers the user for a session and settles the price: the buyer is
// debited, the host earns the seller share of its currency value. Checks run
// after the session and buyer rows are locked, so concurrent RSVPs serialize.
func (uc *sessionUseCase) RSVP(ctx context.Context, userID, sessionID string) (*entity.RSVP, error) {
	var (
		rsvp    *entity.RSVP
		session *entity.LiveSession
		share   money.RevenueShare
	)

	err := uc.repo.WithinTx(ctx, func(tx persistent.LedgerRepository) error {
		var err error
		session, err = tx.LockSession(ctx, sessionID)
		if err != nil {
			return err
		}

		registered, err := tx.HasRSVP(ctx, userID, sessionID)
		if err != nil {
			return err
		}
		if registered {
			return entity.ErrAlreadyRegistered
		}

		if session.IsFull() {
			return entity.ErrSessionFull
		}

		buyer, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		if buyer.CoinBalance < session.RSVPPrice {
			return entity.ErrInsufficientFunds
		}

		if session.RSVPPrice > 0 {
			if err := tx.DebitCoins(ctx, userID, session.RSVPPrice); err != nil {
				return err
			}
		}

		rsvp = &entity.RSVP{
			UserID:     userID,
			SessionID:  sessionID,
			PaidAmount: session.RSVPPrice,
		}
		if err := tx.CreateRSVP(ctx, rsvp); err != nil {
			return err
		}

		if err := tx.IncrementAttendees(ctx, sessionID); err != nil {
			return err
		}

		if err := tx.CreateTransaction(ctx, &entity.Transaction{
			UserID:      userID,
			Type:        entity.TransactionTypeRSVP,
			Amount:      session.RSVPPrice,
			Status:      entity.TransactionStatusCompleted,
			Description: fmt.Sprintf("RSVP for %s", session.Title),
		}); err != nil {
			return err
		}

		share = money.Split(money.CoinsToCurrency(session.RSVPPrice), false)
		return tx.CreateEarning(ctx, &entity.Earning{
			UserID: session.HostID,
			Type:   entity.EarningTypeRSVP,
			Amount: share.Seller,
			Source: fmt.Sprintf("RSVP: %s", session.Title),
			Status: entity.EarningStatusAvailable,
		})
	})
	metrics.RecordOperation(flowRSVP, outcome(err))
	if err != nil {
		if IsBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("Failed to settle RSVP of user %s for session %s: %v", userID, sessionID, err)
		return nil, fmt.Errorf("failed to rsvp: %w", err)
	}

	metrics.RecordDebit(flowRSVP, session.RSVPPrice)
	uc.logger.Info("User %s RSVPed to session %s for %d coins", userID, sessionID, session.RSVPPrice)

	event := queue.NewLedgerEvent(queue.EventRSVPSettled, userID, rsvp.ID)
	event.CounterpartyID = session.HostID
	event.Coins = session.RSVPPrice
	event.Amount = share.Seller
	event.Description = session.Title
	uc.events.publish(event)

	return rsvp, nil
}
