package models

import "time"

// Question is a practice problem belonging to one topic
type Question struct {
	ID           int64      `json:"id" db:"id"`
	TopicID      int64      `json:"topicId" db:"topic_id"`
	TopicName    string     `json:"topicName,omitempty" db:"topic_name"`
	Title        string     `json:"title" db:"title"`
	Difficulty   Difficulty `json:"difficulty" db:"difficulty"`
	Link         string     `json:"link" db:"link"`
	Platform     string     `json:"platform" db:"platform"`
	ArticleLink  string     `json:"articleLink" db:"article_link"`
	PracticeLink string     `json:"practiceLink" db:"practice_link"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// QuestionState is the per-user view of a question
type QuestionState struct {
	Question
	IsStarred bool       `json:"isStarred" db:"is_starred"`
	SolvedAt  *time.Time `json:"solvedAt,omitempty" db:"solved_at"`
	Notes     []Note     `json:"notes" db:"-"`
}

// IsSolved reports whether the user has solved the question
func (q *QuestionState) IsSolved() bool {
	return q.SolvedAt != nil
}

// Note is a free-text note a user attached to a question
type Note struct {
	ID         int64     `json:"id" db:"id"`
	QuestionID int64     `json:"questionId" db:"question_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
