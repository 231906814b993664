package dto

import "github.com/yigit/placementportal/internal/app/models"

// CreateMarqueeRequest publishes a new active banner
type CreateMarqueeRequest struct {
	Text string `json:"text" binding:"required,max=500" example:"Acme Corp drive on Friday"`
}

// UpdateMarqueeRequest edits a banner; IsActive true makes it the only active one
type UpdateMarqueeRequest struct {
	Text     *string `json:"text" binding:"omitempty,min=1,max=500"`
	IsActive *bool   `json:"isActive"`
}

// MarqueeEvent is pushed to websocket subscribers whenever the active banner changes
type MarqueeEvent struct {
	Type    string          `json:"type" example:"marquee"`
	Marquee *models.Marquee `json:"marquee"`
}
