package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

// CompanyStore is the company persistence the calendar needs
type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	List(ctx context.Context, filter models.CompanyFilter) ([]models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	Delete(ctx context.Context, id int64) error
}

// CompanyService defines the interface for the placement calendar
type CompanyService interface {
	Create(ctx context.Context, req *dto.CompanyRequest, createdBy int64) (*dto.CompanyResponse, error)
	Get(ctx context.Context, id int64) (*dto.CompanyResponse, error)
	List(ctx context.Context, filter models.CompanyFilter) ([]dto.CompanyResponse, error)
	Update(ctx context.Context, id int64, req *dto.CompanyRequest) (*dto.CompanyResponse, error)
	Delete(ctx context.Context, id int64) error
}

type companyServiceImpl struct {
	companies CompanyStore
	logger    zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companies CompanyStore, logger zerolog.Logger) CompanyService {
	return &companyServiceImpl{
		companies: companies,
		logger:    logger,
	}
}

func companyFromRequest(req *dto.CompanyRequest) (*models.Company, error) {
	month := models.Month(strings.TrimSpace(req.Month))
	if !month.Valid() {
		return nil, fmt.Errorf("%w: month must be a full English month name", apperrors.ErrValidationFailed)
	}
	if req.Year < 2000 || req.Year > 2100 {
		return nil, fmt.Errorf("%w: year must be between 2000 and 2100", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidationFailed)
	}

	c := &models.Company{
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Month:             month,
		Year:              req.Year,
		VisitDate:         req.VisitDate,
		CTC:               req.CTC,
		JobDescriptionURL: req.JobDescriptionURL,
	}
	c.SetEligibility(models.Eligibility{
		MinCGPA:    req.Eligibility.MinCGPA,
		MaxBacklog: req.Eligibility.MaxBacklog,
		Branches:   req.Eligibility.Branches,
	})
	return c, nil
}

// Create adds a calendar entry
func (s *companyServiceImpl) Create(ctx context.Context, req *dto.CompanyRequest, createdBy int64) (*dto.CompanyResponse, error) {
	c, err := companyFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.CreatedBy = &createdBy

	if err := s.companies.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("companyID", c.ID).Str("name", c.Name).Msg("Company created")
	resp := dto.NewCompanyResponse(c)
	return &resp, nil
}

// Get returns one calendar entry
func (s *companyServiceImpl) Get(ctx context.Context, id int64) (*dto.CompanyResponse, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCompanyResponse(c)
	return &resp, nil
}

// List returns entries matching filter ordered by visit date
func (s *companyServiceImpl) List(ctx context.Context, filter models.CompanyFilter) ([]dto.CompanyResponse, error) {
	companies, err := s.companies.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CompanyResponse, len(companies))
	for i := range companies {
		out[i] = dto.NewCompanyResponse(&companies[i])
	}
	return out, nil
}

// Update replaces an entry's fields
func (s *companyServiceImpl) Update(ctx context.Context, id int64, req *dto.CompanyRequest) (*dto.CompanyResponse, error) {
	c, err := companyFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = id

	if err := s.companies.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.NewCompanyResponse(c)
	return &resp, nil
}

// Delete removes an entry
func (s *companyServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("companyID", id).Msg("Company deleted")
	return nil
}
