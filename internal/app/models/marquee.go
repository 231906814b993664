package models

import "time"

// Marquee is a banner message; at most one is active
type Marquee struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedBy *int64    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
