package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/dberrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	TopicRepository    *TopicRepository
	QuestionRepository *QuestionRepository
	CompanyRepository  *CompanyRepository
	SessionRepository  *SessionRepository
	MarqueeRepository  *MarqueeRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(conn),
		TopicRepository:    NewTopicRepository(conn),
		QuestionRepository: NewQuestionRepository(conn),
		CompanyRepository:  NewCompanyRepository(conn),
		SessionRepository:  NewSessionRepository(conn),
		MarqueeRepository:  NewMarqueeRepository(conn),
	}
}

// statementBuilder renders squirrel queries with $n placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// getOne runs a built select and scans a single row into dst.
// It returns pgx.ErrNoRows when nothing matched.
func getOne(ctx context.Context, q pgxscan.Querier, dst interface{}, b squirrel.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if err := pgxscan.Get(ctx, q, dst, sql, args...); err != nil {
		if isNoRows(err) {
			return pgx.ErrNoRows
		}
		return err
	}
	return nil
}

// selectAll runs a built select and scans every row into dst (a slice pointer)
func selectAll(ctx context.Context, q pgxscan.Querier, dst interface{}, b squirrel.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return pgxscan.Select(ctx, q, dst, sql, args...)
}

func isNoRows(err error) bool {
	return dberrors.IsNoRows(err)
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
