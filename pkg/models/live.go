package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LiveSession struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	HostID        string    `gorm:"type:uuid;not null;index" json:"host_id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	ScheduledAt   time.Time `gorm:"not null;index" json:"scheduled_at"`
	RSVPPrice     int64     `gorm:"column:rsvp_price;not null;default:0" json:"rsvp_price"`
	MaxAttendees  *int      `json:"max_attendees,omitempty"`
	AttendeeCount int       `gorm:"not null;default:0" json:"attendee_count"`
	Status        string    `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (LiveSession) TableName() string {
	return "live_sessions"
}

func (s *LiveSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// RSVP is unique per (user, session).
type RSVP struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_rsvps_user_session" json:"user_id"`
	SessionID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_rsvps_user_session;index" json:"session_id"`
	PaidAmount int64     `gorm:"not null" json:"paid_amount"`
	CreatedAt  time.Time `json:"created_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

func (r *RSVP) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
