package services

import (
	"context"
	"time"

	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/email"
)

var errMarqueeNotFound = apperrors.ErrMarqueeNotFound

type mockUserStore struct {
	CreateFunc          func(ctx context.Context, user *models.User) error
	GetByIDFunc         func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	UpdateRoleFunc      func(ctx context.Context, id int64, role models.Role) error
	SetResetTokenFunc   func(ctx context.Context, id int64, tokenHash string, expires time.Time) error
	ClearResetTokenFunc func(ctx context.Context, id int64) error
	ResetPasswordFunc   func(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserStore) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	return m.UpdateRoleFunc(ctx, id, role)
}

func (m *mockUserStore) SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error {
	return m.SetResetTokenFunc(ctx, id, tokenHash, expires)
}

func (m *mockUserStore) ClearResetToken(ctx context.Context, id int64) error {
	return m.ClearResetTokenFunc(ctx, id)
}

func (m *mockUserStore) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	return m.ResetPasswordFunc(ctx, tokenHash, passwordHash, now)
}

type mockTokenIssuer struct{}

func (mockTokenIssuer) GenerateToken(userID int64) (string, time.Time, error) {
	return "signed-token", time.Now().Add(24 * time.Hour), nil
}

type mockSender struct {
	sent []email.Message
	err  error
}

func (m *mockSender) Send(_ context.Context, msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockLimiter struct {
	allowed bool
	err     error
}

func (m mockLimiter) Allow(context.Context, string) (bool, error) {
	return m.allowed, m.err
}

type mockTopicStore struct {
	CreateFunc  func(ctx context.Context, topic *models.Topic) error
	ListFunc    func(ctx context.Context) ([]models.Topic, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.Topic, error)
	UpdateFunc  func(ctx context.Context, topic *models.Topic) error
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockTopicStore) Create(ctx context.Context, topic *models.Topic) error {
	return m.CreateFunc(ctx, topic)
}

func (m *mockTopicStore) List(ctx context.Context) ([]models.Topic, error) {
	return m.ListFunc(ctx)
}

func (m *mockTopicStore) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockTopicStore) Update(ctx context.Context, topic *models.Topic) error {
	return m.UpdateFunc(ctx, topic)
}

func (m *mockTopicStore) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type mockQuestionStore struct {
	CreateFunc             func(ctx context.Context, q *models.Question) error
	BulkCreateFunc         func(ctx context.Context, questions []*models.Question) error
	ListByTopicForUserFunc func(ctx context.Context, topicID, userID int64) ([]models.QuestionState, error)
	NotesForUserFunc       func(ctx context.Context, questionIDs []int64, userID int64) ([]models.Note, error)
	AddNoteFunc            func(ctx context.Context, note *models.Note) error
	ToggleStarFunc         func(ctx context.Context, questionID, userID int64) (bool, error)
	MarkSolvedFunc         func(ctx context.Context, questionID, userID int64) (time.Time, error)
	UnmarkSolvedFunc       func(ctx context.Context, questionID, userID int64) error
	ProgressByTopicFunc    func(ctx context.Context, userID int64) ([]models.TopicProgress, error)
}

func (m *mockQuestionStore) Create(ctx context.Context, q *models.Question) error {
	return m.CreateFunc(ctx, q)
}

func (m *mockQuestionStore) BulkCreate(ctx context.Context, questions []*models.Question) error {
	return m.BulkCreateFunc(ctx, questions)
}

func (m *mockQuestionStore) ListByTopicForUser(ctx context.Context, topicID, userID int64) ([]models.QuestionState, error) {
	return m.ListByTopicForUserFunc(ctx, topicID, userID)
}

func (m *mockQuestionStore) NotesForUser(ctx context.Context, questionIDs []int64, userID int64) ([]models.Note, error) {
	return m.NotesForUserFunc(ctx, questionIDs, userID)
}

func (m *mockQuestionStore) AddNote(ctx context.Context, note *models.Note) error {
	return m.AddNoteFunc(ctx, note)
}

func (m *mockQuestionStore) ToggleStar(ctx context.Context, questionID, userID int64) (bool, error) {
	return m.ToggleStarFunc(ctx, questionID, userID)
}

func (m *mockQuestionStore) MarkSolved(ctx context.Context, questionID, userID int64) (time.Time, error) {
	return m.MarkSolvedFunc(ctx, questionID, userID)
}

func (m *mockQuestionStore) UnmarkSolved(ctx context.Context, questionID, userID int64) error {
	return m.UnmarkSolvedFunc(ctx, questionID, userID)
}

func (m *mockQuestionStore) ProgressByTopic(ctx context.Context, userID int64) ([]models.TopicProgress, error) {
	return m.ProgressByTopicFunc(ctx, userID)
}

type mockSessionStore struct {
	CreateFunc          func(ctx context.Context, s *models.Session) error
	ListUpcomingFunc    func(ctx context.Context, now time.Time) ([]models.Session, error)
	GetUpcomingByIDFunc func(ctx context.Context, id int64, now time.Time) (*models.Session, error)
	UpdateFunc          func(ctx context.Context, s *models.Session, now time.Time) error
	DeleteFunc          func(ctx context.Context, id int64) error
	DeleteExpiredFunc   func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionStore) Create(ctx context.Context, s *models.Session) error {
	return m.CreateFunc(ctx, s)
}

func (m *mockSessionStore) ListUpcoming(ctx context.Context, now time.Time) ([]models.Session, error) {
	return m.ListUpcomingFunc(ctx, now)
}

func (m *mockSessionStore) GetUpcomingByID(ctx context.Context, id int64, now time.Time) (*models.Session, error) {
	return m.GetUpcomingByIDFunc(ctx, id, now)
}

func (m *mockSessionStore) Update(ctx context.Context, s *models.Session, now time.Time) error {
	return m.UpdateFunc(ctx, s, now)
}

func (m *mockSessionStore) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.DeleteExpiredFunc(ctx, now)
}

// memMarqueeStore keeps marquees in memory with the single-active rule
type memMarqueeStore struct {
	items  []models.Marquee
	nextID int64
}

func (m *memMarqueeStore) deactivateExcept(id int64) {
	for i := range m.items {
		if m.items[i].ID != id {
			m.items[i].IsActive = false
		}
	}
}

func (m *memMarqueeStore) Create(_ context.Context, mq *models.Marquee) error {
	m.nextID++
	mq.ID = m.nextID
	mq.IsActive = true
	mq.CreatedAt = time.Now()
	m.deactivateExcept(0)
	m.items = append(m.items, *mq)
	return nil
}

func (m *memMarqueeStore) GetActive(context.Context) (*models.Marquee, error) {
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].IsActive {
			mq := m.items[i]
			return &mq, nil
		}
	}
	return nil, errMarqueeNotFound
}

func (m *memMarqueeStore) List(context.Context) ([]models.Marquee, error) {
	out := make([]models.Marquee, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

func (m *memMarqueeStore) Update(_ context.Context, id int64, text *string, isActive *bool) (*models.Marquee, error) {
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if isActive != nil && *isActive {
			m.deactivateExcept(id)
		}
		if text != nil {
			m.items[i].Text = *text
		}
		if isActive != nil {
			m.items[i].IsActive = *isActive
		}
		mq := m.items[i]
		return &mq, nil
	}
	return nil, errMarqueeNotFound
}

func (m *memMarqueeStore) Delete(_ context.Context, id int64) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errMarqueeNotFound
}

type recordingBroadcaster struct {
	events []interface{}
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, v interface{}) error {
	b.events = append(b.events, v)
	return nil
}
