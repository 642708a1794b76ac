package persistent

import (
	"context"

	"soundstage/pkg/models"
	"soundstage/services/ledger/internal/entity"

	"gorm.io/gorm"
)

func (r *ledgerRepository) CreateSession(ctx context.Context, session *entity.LiveSession) error {
	sessionModel := ToSessionModel(session)
	if err := r.db.WithContext(ctx).Create(sessionModel).Error; err != nil {
		return err
	}
	session.ID = sessionModel.ID
	session.CreatedAt = sessionModel.CreatedAt
	return nil
}

func (r *ledgerRepository) LockSession(ctx context.Context, sessionID string) (*entity.LiveSession, error) {
	var sessionModel models.LiveSession
	if err := r.forUpdate(ctx).Where("id = ?", sessionID).First(&sessionModel).Error; err != nil {
		return nil, notFound(err, entity.ErrSessionNotFound)
	}
	return ToSessionEntity(&sessionModel), nil
}

func (r *ledgerRepository) ListSessions(ctx context.Context, statuses []entity.SessionStatus) ([]*entity.LiveSession, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	var sessionModels []models.LiveSession
	err := r.db.WithContext(ctx).
		Where("status IN ?", values).
		Order("scheduled_at ASC").
		Find(&sessionModels).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*entity.LiveSession, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = ToSessionEntity(&sessionModels[i])
	}
	return sessions, nil
}

func (r *ledgerRepository) IncrementAttendees(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).Model(&models.LiveSession{}).
		Where("id = ?", sessionID).
		Update("attendee_count", gorm.Expr("attendee_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrSessionNotFound
	}
	return nil
}

func (r *ledgerRepository) HasRSVP(ctx context.Context, userID, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RSVP{}).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ledgerRepository) CreateRSVP(ctx context.Context, rsvp *entity.RSVP) error {
	rsvpModel := ToRSVPModel(rsvp)
	if err := r.db.WithContext(ctx).Create(rsvpModel).Error; err != nil {
		if isDuplicateKey(err) {
			return entity.ErrAlreadyRegistered
		}
		return err
	}
	rsvp.ID = rsvpModel.ID
	rsvp.CreatedAt = rsvpModel.CreatedAt
	return nil
}
