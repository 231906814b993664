package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/app/services"
	"github.com/yigit/placementportal/internal/middleware"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

// Multipart overhead allowed on top of the resume itself
const resumeFormSlack = 1 << 20

// ResumeController proxies resumes to the analyzer
type ResumeController struct {
	resumeService services.ResumeService
	logger        zerolog.Logger
}

// NewResumeController creates a new ResumeController
func NewResumeController(resumeService services.ResumeService, logger zerolog.Logger) *ResumeController {
	return &ResumeController{
		resumeService: resumeService,
		logger:        logger,
	}
}

// Analyze godoc
// @Summary Analyze a resume against a job description
// @Tags resume
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "Resume (PDF, max 5 MB)"
// @Param job_description formData string false "Job description"
// @Param analysis_option formData string false "Analysis option" default(Quick Scan)
// @Success 200 {object} dto.APIResponse{data=dto.ResumeAnalysisResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid upload"
// @Failure 500 {object} dto.ErrorResponse "External service unavailable"
// @Router /resume/analyze [post]
func (c *ResumeController) Analyze(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, services.MaxResumeSize+resumeFormSlack)

	file, err := ctx.FormFile("resume")
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: resume file is required (PDF, max 5 MB)", apperrors.ErrValidationFailed))
		return
	}

	analysis, err := c.resumeService.Analyze(ctx.Request.Context(), file,
		ctx.PostForm("job_description"), ctx.PostForm("analysis_option"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ResumeAnalysisResponse{
		Success:  true,
		Analysis: analysis,
	}, ""))
}
