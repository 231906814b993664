package models

import "time"

// Session is a scheduled meeting. Only sessions whose DateTime lies in the
// future are visible to users.
type Session struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	MeetLink    string    `json:"meetLink" db:"meet_link"`
	DateTime    time.Time `json:"dateTime" db:"date_time"`
	CreatedBy   *int64    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Upcoming reports whether the session is still in the future at now
func (s *Session) Upcoming(now time.Time) bool {
	return s.DateTime.After(now)
}
