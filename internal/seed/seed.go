// Package seed creates the default admin account and imports DSA sheets.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/app/services"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/auth"
	"gopkg.in/yaml.v3"
)

// AdminStore is what the admin bootstrap needs from the user repository
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id int64, role models.Role) error
}

// Admin describes the account created on first start
type Admin struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the admin account if the email is unknown, or promotes
// the existing account. An empty email disables it.
func EnsureAdmin(ctx context.Context, users AdminStore, hasher *auth.PasswordHasher, admin Admin, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
			return nil
		}
		if err := users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("error promoting %s: %w", email, err)
		}
		lgr.Info().Int64("userID", existing.ID).Msg("Existing user promoted to admin")
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return fmt.Errorf("error checking admin user: %w", err)
	}

	if len(admin.Password) < 6 {
		return fmt.Errorf("admin password must be at least 6 characters")
	}
	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	name := strings.TrimSpace(admin.Name)
	if name == "" {
		name = "Administrator"
	}
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Int64("adminID", user.ID).Msg("Default admin user created successfully")
	return nil
}

// SheetTopic is one topic of a DSA sheet file
type SheetTopic struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Order       int                    `yaml:"order"`
	Questions   []dto.BulkQuestionItem `yaml:"questions"`
}

// Sheet is a curated list of topics and questions:
//
//	topics:
//	  - name: Arrays
//	    order: 1
//	    questions:
//	      - title: Two Sum
//	        difficulty: Easy
//	        link: https://leetcode.com/problems/two-sum/
type Sheet struct {
	Topics []SheetTopic `yaml:"topics"`
}

// ParseSheet decodes a YAML sheet
func ParseSheet(r io.Reader) (*Sheet, error) {
	var sheet Sheet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sheet); err != nil {
		if errors.Is(err, io.EOF) {
			return &sheet, nil
		}
		return nil, fmt.Errorf("invalid sheet: %w", err)
	}
	return &sheet, nil
}

// LoadSheet reads and decodes the sheet at path
func LoadSheet(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening sheet: %w", err)
	}
	defer f.Close()
	return ParseSheet(f)
}

// ImportResult counts what an import changed
type ImportResult struct {
	TopicsCreated    int
	TopicsSkipped    int
	QuestionsCreated int
}

// ImportSheet creates the sheet's topics with their questions. Topics that
// already exist are skipped whole, so importing the same sheet twice is a no-op.
// A topic whose questions fail to insert is deleted again, so a rerun retries it.
func ImportSheet(ctx context.Context, dsa services.DSAService, sheet *Sheet, lgr zerolog.Logger) (ImportResult, error) {
	var res ImportResult
	for i, st := range sheet.Topics {
		order := st.Order
		if order == 0 {
			order = i + 1
		}

		topic, err := dsa.CreateTopic(ctx, &dto.CreateTopicRequest{
			Name:        st.Name,
			Description: st.Description,
			Order:       order,
		})
		if errors.Is(err, apperrors.ErrTopicAlreadyExists) {
			lgr.Info().Str("topic", st.Name).Msg("Topic exists, skipping")
			res.TopicsSkipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("topic %q: %w", st.Name, err)
		}
		res.TopicsCreated++

		if len(st.Questions) == 0 {
			continue
		}
		created, err := dsa.BulkCreateQuestions(ctx, &dto.BulkCreateQuestionsRequest{
			TopicID:   topic.ID,
			Questions: st.Questions,
		})
		if err != nil {
			res.TopicsCreated--
			if delErr := dsa.DeleteTopic(context.WithoutCancel(ctx), topic.ID); delErr != nil {
				lgr.Error().Err(delErr).Str("topic", st.Name).Int64("topicId", topic.ID).
					Msg("Failed to remove topic after question import failure")
			}
			return res, fmt.Errorf("questions of %q: %w", st.Name, err)
		}
		res.QuestionsCreated += len(created)
	}

	lgr.Info().
		Int("topicsCreated", res.TopicsCreated).
		Int("topicsSkipped", res.TopicsSkipped).
		Int("questionsCreated", res.QuestionsCreated).
		Msg("DSA sheet imported")
	return res, nil
}
