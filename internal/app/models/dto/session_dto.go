package dto

import "time"

// SessionRequest creates or replaces a session
type SessionRequest struct {
	Title       string    `json:"title" binding:"required,max=200" example:"Mock interview prep"`
	Description string    `json:"description" binding:"max=5000"`
	MeetLink    string    `json:"meetLink" binding:"required,url" example:"https://meet.google.com/abc-defg-hij"`
	DateTime    time.Time `json:"dateTime" binding:"required" example:"2025-09-01T15:00:00Z"`
}
