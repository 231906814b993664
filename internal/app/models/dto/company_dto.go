package dto

import (
	"time"

	"github.com/yigit/placementportal/internal/app/models"
)

// EligibilityRequest is the structured eligibility criteria
type EligibilityRequest struct {
	MinCGPA    *float64 `json:"minCgpa" binding:"omitempty,gte=0,lte=10,cgpa" example:"7.5"`
	MaxBacklog *int     `json:"maxBacklog" binding:"omitempty,gte=0" example:"0"`
	Branches   []string `json:"branches" binding:"omitempty,dive,required,max=100" example:"CSE,IT"`
}

// CompanyRequest creates or replaces a placement-calendar entry
type CompanyRequest struct {
	Name              string             `json:"name" binding:"required,max=200" example:"Acme Corp"`
	Description       string             `json:"description" binding:"max=10000"`
	Month             string             `json:"month" binding:"required,month" example:"August"`
	Year              int                `json:"year" binding:"required,gte=2000,lte=2100" example:"2025"`
	VisitDate         time.Time          `json:"visitDate" binding:"required" example:"2025-08-14T10:00:00Z"`
	CTC               string             `json:"ctc" binding:"max=100" example:"12 LPA"`
	Eligibility       EligibilityRequest `json:"eligibility"`
	JobDescriptionURL string             `json:"jobDescriptionUrl" binding:"omitempty,url"`
}

// CompanyResponse is a calendar entry with its eligibility nested
type CompanyResponse struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Month             models.Month       `json:"month"`
	Year              int                `json:"year"`
	VisitDate         time.Time          `json:"visitDate"`
	CTC               string             `json:"ctc"`
	Eligibility       models.Eligibility `json:"eligibility"`
	JobDescriptionURL string             `json:"jobDescriptionUrl"`
	CreatedBy         *int64             `json:"createdBy,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// NewCompanyResponse maps a company model
func NewCompanyResponse(c *models.Company) CompanyResponse {
	return CompanyResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		Month:             c.Month,
		Year:              c.Year,
		VisitDate:         c.VisitDate,
		CTC:               c.CTC,
		Eligibility:       c.Eligibility(),
		JobDescriptionURL: c.JobDescriptionURL,
		CreatedBy:         c.CreatedBy,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
