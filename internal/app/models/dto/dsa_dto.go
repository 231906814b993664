package dto

import (
	"time"

	"github.com/yigit/placementportal/internal/app/models"
)

// CreateTopicRequest creates a DSA topic
type CreateTopicRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=150" example:"Arrays"`
	Description string `json:"description" binding:"max=2000" example:"Contiguous memory problems"`
	Order       int    `json:"order" binding:"min=0" example:"1"`
}

// UpdateTopicRequest updates a DSA topic; nil fields are left unchanged
type UpdateTopicRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Order       *int    `json:"order" binding:"omitempty,min=0"`
}

// CreateQuestionRequest creates one question
type CreateQuestionRequest struct {
	TopicID      int64  `json:"topicId" binding:"required,min=1" example:"1"`
	Title        string `json:"title" binding:"required,max=300" example:"Two Sum"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard" example:"Easy"`
	Link         string `json:"link" example:"https://leetcode.com/problems/two-sum/"`
	Platform     string `json:"platform" example:"LeetCode"`
	ArticleLink  string `json:"articleLink"`
	PracticeLink string `json:"practiceLink"`
}

// BulkQuestionItem is one loosely validated row of a bulk import.
// Missing or invalid fields are coerced to defaults.
type BulkQuestionItem struct {
	Title        string `json:"title" yaml:"title"`
	Difficulty   string `json:"difficulty" yaml:"difficulty"`
	Link         string `json:"link" yaml:"link"`
	Platform     string `json:"platform" yaml:"platform"`
	ArticleLink  string `json:"articleLink" yaml:"articleLink"`
	PracticeLink string `json:"practiceLink" yaml:"practiceLink"`
}

// BulkCreateQuestionsRequest imports many questions into one topic
type BulkCreateQuestionsRequest struct {
	TopicID   int64              `json:"topicId" binding:"required,min=1" example:"1"`
	Questions []BulkQuestionItem `json:"questions" binding:"required,min=1,max=500"`
}

// AddNoteRequest appends a note to a question
type AddNoteRequest struct {
	Content string `json:"content" binding:"required,max=5000" example:"Use a hash map"`
}

// QuestionResponse is a question as seen by the calling user
type QuestionResponse struct {
	ID           int64             `json:"id"`
	TopicID      int64             `json:"topicId"`
	TopicName    string            `json:"topicName"`
	Title        string            `json:"title"`
	Difficulty   models.Difficulty `json:"difficulty" enums:"Easy,Medium,Hard"`
	Link         string            `json:"link"`
	Platform     string            `json:"platform"`
	ArticleLink  string            `json:"articleLink"`
	PracticeLink string            `json:"practiceLink"`
	IsStarred    bool              `json:"isStarred"`
	IsSolved     bool              `json:"isSolved"`
	SolvedAt     *time.Time        `json:"solvedAt,omitempty"`
	Notes        []models.Note     `json:"notes"`
}

// NewQuestionResponse maps a per-user question state
func NewQuestionResponse(q *models.QuestionState) QuestionResponse {
	notes := q.Notes
	if notes == nil {
		notes = []models.Note{}
	}
	return QuestionResponse{
		ID:           q.ID,
		TopicID:      q.TopicID,
		TopicName:    q.TopicName,
		Title:        q.Title,
		Difficulty:   q.Difficulty,
		Link:         q.Link,
		Platform:     q.Platform,
		ArticleLink:  q.ArticleLink,
		PracticeLink: q.PracticeLink,
		IsStarred:    q.IsStarred,
		IsSolved:     q.IsSolved(),
		SolvedAt:     q.SolvedAt,
		Notes:        notes,
	}
}

// StarResponse reports the star state after a toggle
type StarResponse struct {
	QuestionID int64 `json:"questionId"`
	Starred    bool  `json:"starred"`
}

// SolveResponse reports the solve state of a question
type SolveResponse struct {
	QuestionID int64      `json:"questionId"`
	Solved     bool       `json:"solved"`
	SolvedAt   *time.Time `json:"solvedAt,omitempty"`
}

// ProgressResponse is one topic's completion for the calling user
type ProgressResponse struct {
	Topic      string  `json:"topic" example:"Arrays"`
	Total      int     `json:"total" example:"1"`
	Solved     int     `json:"solved" example:"1"`
	Percentage float64 `json:"percentage" example:"100"`
}
