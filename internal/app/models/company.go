package models

import "time"

// Eligibility is the structured eligibility criteria of a company visit
type Eligibility struct {
	MinCGPA    *float64 `json:"minCgpa,omitempty"`
	MaxBacklog *int     `json:"maxBacklog,omitempty"`
	Branches   []string `json:"branches"`
}

// Company is a placement-calendar entry
type Company struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	Month             Month     `json:"month" db:"month"`
	Year              int       `json:"year" db:"year"`
	VisitDate         time.Time `json:"visitDate" db:"visit_date"`
	CTC               string    `json:"ctc" db:"ctc"`
	MinCGPA           *float64  `json:"-" db:"min_cgpa"`
	MaxBacklog        *int      `json:"-" db:"max_backlog"`
	Branches          []string  `json:"-" db:"branches"`
	JobDescriptionURL string    `json:"jobDescriptionUrl" db:"job_description_url"`
	CreatedBy         *int64    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// Eligibility assembles the eligibility criteria from the flat columns
func (c *Company) Eligibility() Eligibility {
	branches := c.Branches
	if branches == nil {
		branches = []string{}
	}
	return Eligibility{MinCGPA: c.MinCGPA, MaxBacklog: c.MaxBacklog, Branches: branches}
}

// SetEligibility spreads e over the flat columns
func (c *Company) SetEligibility(e Eligibility) {
	c.MinCGPA = e.MinCGPA
	c.MaxBacklog = e.MaxBacklog
	c.Branches = e.Branches
	if c.Branches == nil {
		c.Branches = []string{}
	}
}

// CompanyFilter narrows the calendar listing; zero values are ignored
type CompanyFilter struct {
	Month Month
	Year  int
}
