package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

// Defaults applied to imported questions
const (
	DefaultPlatform      = "GeeksForGeeks"
	DefaultLink          = "#"
	DefaultQuestionTitle = "Untitled"
)

// TopicStore is the topic persistence the DSA service needs
type TopicStore interface {
	Create(ctx context.Context, topic *models.Topic) error
	List(ctx context.Context) ([]models.Topic, error)
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, id int64) error
}

// QuestionStore is the question persistence the DSA service needs
type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) error
	BulkCreate(ctx context.Context, questions []*models.Question) error
	ListByTopicForUser(ctx context.Context, topicID, userID int64) ([]models.QuestionState, error)
	NotesForUser(ctx context.Context, questionIDs []int64, userID int64) ([]models.Note, error)
	AddNote(ctx context.Context, note *models.Note) error
	ToggleStar(ctx context.Context, questionID, userID int64) (bool, error)
	MarkSolved(ctx context.Context, questionID, userID int64) (time.Time, error)
	UnmarkSolved(ctx context.Context, questionID, userID int64) error
	ProgressByTopic(ctx context.Context, userID int64) ([]models.TopicProgress, error)
}

// DSAService defines the interface for the DSA sheet
type DSAService interface {
	CreateTopic(ctx context.Context, req *dto.CreateTopicRequest) (*models.Topic, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
	UpdateTopic(ctx context.Context, id int64, req *dto.UpdateTopicRequest) (*models.Topic, error)
	DeleteTopic(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*models.Question, error)
	BulkCreateQuestions(ctx context.Context, req *dto.BulkCreateQuestionsRequest) ([]*models.Question, error)
	ListQuestionsByTopic(ctx context.Context, topicID, userID int64) ([]dto.QuestionResponse, error)

	AddNote(ctx context.Context, questionID, userID int64, content string) (*models.Note, error)
	ToggleStar(ctx context.Context, questionID, userID int64) (*dto.StarResponse, error)
	MarkSolved(ctx context.Context, questionID, userID int64) (*dto.SolveResponse, error)
	UnmarkSolved(ctx context.Context, questionID, userID int64) (*dto.SolveResponse, error)
	GetProgress(ctx context.Context, userID int64) ([]dto.ProgressResponse, error)
}

type dsaServiceImpl struct {
	topics    TopicStore
	questions QuestionStore
	logger    zerolog.Logger
}

// NewDSAService creates a new DSAService
func NewDSAService(topics TopicStore, questions QuestionStore, logger zerolog.Logger) DSAService {
	return &dsaServiceImpl{
		topics:    topics,
		questions: questions,
		logger:    logger,
	}
}

// CreateTopic creates a topic; names are unique
func (s *dsaServiceImpl) CreateTopic(ctx context.Context, req *dto.CreateTopicRequest) (*models.Topic, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: topic name is required", apperrors.ErrValidationFailed)
	}

	topic := &models.Topic{
		Name:         name,
		Slug:         slug.Make(name),
		Description:  strings.TrimSpace(req.Description),
		DisplayOrder: req.Order,
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		if errors.Is(err, apperrors.ErrTopicAlreadyExists) {
			return nil, apperrors.ErrTopicAlreadyExists
		}
		return nil, fmt.Errorf("error creating topic: %w", err)
	}

	s.logger.Info().Int64("topicID", topic.ID).Str("name", topic.Name).Msg("Topic created")
	return topic, nil
}

// ListTopics returns all topics by display order
func (s *dsaServiceImpl) ListTopics(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing topics: %w", err)
	}
	return topics, nil
}

// UpdateTopic applies the non-nil fields of req
func (s *dsaServiceImpl) UpdateTopic(ctx context.Context, id int64, req *dto.UpdateTopicRequest) (*models.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: topic name is required", apperrors.ErrValidationFailed)
		}
		topic.Name = name
		topic.Slug = slug.Make(name)
	}
	if req.Description != nil {
		topic.Description = strings.TrimSpace(*req.Description)
	}
	if req.Order != nil {
		topic.DisplayOrder = *req.Order
	}

	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// DeleteTopic removes a topic together with its questions
func (s *dsaServiceImpl) DeleteTopic(ctx context.Context, id int64) error {
	if err := s.topics.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("topicID", id).Msg("Topic deleted")
	return nil
}

// CreateQuestion adds a question to an existing topic
func (s *dsaServiceImpl) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*models.Question, error) {
	topic, err := s.topics.GetByID(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidationFailed)
	}

	q := newQuestion(topic.ID, dto.BulkQuestionItem{
		Title:        req.Title,
		Difficulty:   req.Difficulty,
		Link:         req.Link,
		Platform:     req.Platform,
		ArticleLink:  req.ArticleLink,
		PracticeLink: req.PracticeLink,
	})
	q.TopicName = topic.Name
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// BulkCreateQuestions imports all items into one topic, filling defaults for
// missing fields. Nothing is stored if any insert fails.
func (s *dsaServiceImpl) BulkCreateQuestions(ctx context.Context, req *dto.BulkCreateQuestionsRequest) ([]*models.Question, error) {
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: questions must be a non-empty list", apperrors.ErrValidationFailed)
	}
	topic, err := s.topics.GetByID(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}

	questions := make([]*models.Question, 0, len(req.Questions))
	for _, item := range req.Questions {
		q := newQuestion(topic.ID, item)
		q.TopicName = topic.Name
		questions = append(questions, q)
	}

	if err := s.questions.BulkCreate(ctx, questions); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("topicID", topic.ID).Int("count", len(questions)).Msg("Questions imported")
	return questions, nil
}

// newQuestion builds a question from a loosely validated item
func newQuestion(topicID int64, item dto.BulkQuestionItem) *models.Question {
	difficulty := models.Difficulty(strings.TrimSpace(item.Difficulty))
	if !difficulty.Valid() {
		difficulty = models.DifficultyMedium
	}

	link := strings.TrimSpace(item.Link)
	practice := strings.TrimSpace(item.PracticeLink)

	return &models.Question{
		TopicID:      topicID,
		Title:        firstNonEmpty(item.Title, DefaultQuestionTitle),
		Difficulty:   difficulty,
		Link:         firstNonEmpty(link, practice, DefaultLink),
		Platform:     firstNonEmpty(item.Platform, DefaultPlatform),
		ArticleLink:  firstNonEmpty(item.ArticleLink, DefaultLink),
		PracticeLink: firstNonEmpty(practice, link, DefaultLink),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ListQuestionsByTopic returns the topic's questions with userID's star,
// solve and note state.
func (s *dsaServiceImpl) ListQuestionsByTopic(ctx context.Context, topicID, userID int64) ([]dto.QuestionResponse, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return nil, err
	}

	states, err := s.questions.ListByTopicForUser(ctx, topicID, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(states))
	for i := range states {
		ids[i] = states[i].ID
	}
	notes, err := s.questions.NotesForUser(ctx, ids, userID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[int64][]models.Note, len(states))
	for _, n := range notes {
		byQuestion[n.QuestionID] = append(byQuestion[n.QuestionID], n)
	}

	out := make([]dto.QuestionResponse, len(states))
	for i := range states {
		states[i].Notes = byQuestion[states[i].ID]
		out[i] = dto.NewQuestionResponse(&states[i])
	}
	return out, nil
}

// AddNote appends a note by userID to a question
func (s *dsaServiceImpl) AddNote(ctx context.Context, questionID, userID int64, content string) (*models.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: note content is required", apperrors.ErrValidationFailed)
	}

	note := &models.Note{QuestionID: questionID, UserID: userID, Content: content}
	if err := s.questions.AddNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// ToggleStar flips userID's star on a question
func (s *dsaServiceImpl) ToggleStar(ctx context.Context, questionID, userID int64) (*dto.StarResponse, error) {
	starred, err := s.questions.ToggleStar(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.StarResponse{QuestionID: questionID, Starred: starred}, nil
}

// MarkSolved records a solve; repeating it is a no-op
func (s *dsaServiceImpl) MarkSolved(ctx context.Context, questionID, userID int64) (*dto.SolveResponse, error) {
	solvedAt, err := s.questions.MarkSolved(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SolveResponse{QuestionID: questionID, Solved: true, SolvedAt: &solvedAt}, nil
}

// UnmarkSolved removes userID's solve if there is one
func (s *dsaServiceImpl) UnmarkSolved(ctx context.Context, questionID, userID int64) (*dto.SolveResponse, error) {
	if err := s.questions.UnmarkSolved(ctx, questionID, userID); err != nil {
		return nil, err
	}
	return &dto.SolveResponse{QuestionID: questionID, Solved: false}, nil
}

// GetProgress reports userID's completion per topic
func (s *dsaServiceImpl) GetProgress(ctx context.Context, userID int64) ([]dto.ProgressResponse, error) {
	rows, err := s.questions.ProgressByTopic(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProgressResponse, len(rows))
	for i := range rows {
		rows[i].ComputePercentage()
		out[i] = dto.ProgressResponse{
			Topic:      rows[i].Topic,
			Total:      rows[i].Total,
			Solved:     rows[i].Solved,
			Percentage: rows[i].Percentage,
		}
	}
	return out, nil
}
