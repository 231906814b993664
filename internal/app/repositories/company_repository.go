package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/logger"
)

var companyColumns = []string{
	"id", "name", "description", "month", "year", "visit_date", "ctc", "min_cgpa", "max_backlog",
	"branches", "job_description_url", "created_by", "created_at", "updated_at",
}

// CompanyRepository handles placement-calendar database operations
type CompanyRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(conn db.DBTX) *CompanyRepository {
	return &CompanyRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// Create inserts a company
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	sql, args, err := r.sb.Insert("companies").
		Columns("name", "description", "month", "year", "visit_date", "ctc", "min_cgpa",
			"max_backlog", "branches", "job_description_url", "created_by").
		Values(c.Name, c.Description, c.Month, c.Year, c.VisitDate, c.CTC, c.MinCGPA,
			c.MaxBacklog, c.Branches, c.JobDescriptionURL, c.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create company query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("name", c.Name).Msg("Error creating company")
		return fmt.Errorf("error creating company: %w", err)
	}
	return nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	var c models.Company
	if err := getOne(ctx, r.db, &c, r.sb.Select(companyColumns...).From("companies").Where(squirrel.Eq{"id": id}).Limit(1)); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error getting company: %w", err)
	}
	return &c, nil
}

// List returns companies matching filter ordered by visit date
func (r *CompanyRepository) List(ctx context.Context, filter models.CompanyFilter) ([]models.Company, error) {
	b := r.sb.Select(companyColumns...).From("companies")
	if filter.Month != "" {
		b = b.Where(squirrel.Eq{"month": filter.Month})
	}
	if filter.Year != 0 {
		b = b.Where(squirrel.Eq{"year": filter.Year})
	}
	b = b.OrderBy("visit_date ASC", "id ASC")

	companies := []models.Company{}
	if err := selectAll(ctx, r.db, &companies, b); err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}
	return companies, nil
}

// Update replaces every editable field of a company
func (r *CompanyRepository) Update(ctx context.Context, c *models.Company) error {
	sql, args, err := r.sb.Update("companies").
		SetMap(map[string]interface{}{
			"name":                c.Name,
			"description":         c.Description,
			"month":               c.Month,
			"year":                c.Year,
			"visit_date":          c.VisitDate,
			"ctc":                 c.CTC,
			"min_cgpa":            c.MinCGPA,
			"max_backlog":         c.MaxBacklog,
			"branches":            c.Branches,
			"job_description_url": c.JobDescriptionURL,
			"updated_at":          squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING created_by, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update company query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.ErrCompanyNotFound
		}
		return fmt.Errorf("error updating company: %w", err)
	}
	return nil
}

// Delete removes a company
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("companies").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete company query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}
