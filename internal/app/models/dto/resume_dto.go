package dto

import "encoding/json"

// ResumeAnalysisResponse wraps the analyzer output
type ResumeAnalysisResponse struct {
	Success  bool            `json:"success" example:"true"`
	Analysis json.RawMessage `json:"analysis" swaggertype:"object"`
}
