package models

import "time"

// Topic groups questions and is listed by DisplayOrder
type Topic struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description" db:"description"`
	DisplayOrder int       `json:"order" db:"display_order"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// TopicProgress is a user's completion of one topic
type TopicProgress struct {
	TopicID    int64   `json:"topicId" db:"topic_id"`
	Topic      string  `json:"topic" db:"topic"`
	Total      int     `json:"total" db:"total"`
	Solved     int     `json:"solved" db:"solved"`
	Percentage float64 `json:"percentage" db:"-"`
}

// ComputePercentage fills Percentage as solved/total*100, or 0 when the
// topic has no questions.
func (p *TopicProgress) ComputePercentage() {
	if p.Total <= 0 {
		p.Percentage = 0
		return
	}
	p.Percentage = float64(p.Solved) / float64(p.Total) * 100
}
