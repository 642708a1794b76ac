package entity

import "time"

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusLive      SessionStatus = "LIVE"
	SessionStatusEnded     SessionStatus = "ENDED"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusLive, SessionStatusEnded:
		return true
	}
	return false
}

// LiveSession is a paid listening party. RSVPPrice is in coins.
type LiveSession struct {
	ID            string        `json:"id"`
	HostID        string        `json:"host_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ScheduledAt   time.Time     `json:"scheduled_at"`
	RSVPPrice     int64         `json:"rsvp_price"`
	MaxAttendees  *int          `json:"max_attendees,omitempty"`
	AttendeeCount int           `json:"attendee_count"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// IsFull reports whether a capped session has no seats left.
func (s *LiveSession) IsFull() bool {
	return s.MaxAttendees != nil && s.AttendeeCount >= *s.MaxAttendees
}

type RSVP struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	PaidAmount int64     `json:"paid_amount"`
	CreatedAt  time.Time `json:"created_at"`
}
