package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/app/services"
	"github.com/yigit/placementportal/internal/middleware"
	"github.com/yigit/placementportal/internal/pkg/helpers"
)

// DSAController handles the DSA sheet: topics, questions and per-user progress
type DSAController struct {
	dsaService services.DSAService
	logger     zerolog.Logger
}

// NewDSAController creates a new DSAController
func NewDSAController(dsaService services.DSAService, logger zerolog.Logger) *DSAController {
	return &DSAController{
		dsaService: dsaService,
		logger:     logger,
	}
}

// CreateTopic godoc
// @Summary Create a topic
// @Tags dsa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTopicRequest true "Topic"
// @Success 201 {object} dto.APIResponse{data=models.Topic}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 409 {object} dto.ErrorResponse "Topic already exists"
// @Router /dsa/topics [post]
func (c *DSAController) CreateTopic(ctx *gin.Context) {
	var req dto.CreateTopicRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	topic, err := c.dsaService.CreateTopic(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(topic, "Topic created"))
}

// ListTopics godoc
// @Summary List topics
// @Description Topics in display order
// @Tags dsa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Topic}
// @Router /dsa/topics [get]
func (c *DSAController) ListTopics(ctx *gin.Context) {
	topics, err := c.dsaService.ListTopics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(topics, ""))
}

// UpdateTopic godoc
// @Summary Update a topic
// @Tags dsa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "Topic ID"
// @Param request body dto.UpdateTopicRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Topic}
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /dsa/topics/{topicId} [put]
func (c *DSAController) UpdateTopic(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "topicId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateTopicRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	topic, err := c.dsaService.UpdateTopic(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(topic, "Topic updated"))
}

// DeleteTopic godoc
// @Summary Delete a topic and its questions
// @Tags dsa
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "Topic ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /dsa/topics/{topicId} [delete]
func (c *DSAController) DeleteTopic(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "topicId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.dsaService.DeleteTopic(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg := "Topic deleted"
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.MessageResponse{Message: msg}, msg))
}

// ListQuestions godoc
// @Summary Questions of a topic
// @Description Sorted Easy, Medium, Hard. Each item carries the caller's star, solve and notes.
// @Tags dsa
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "Topic ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionResponse}
// @Router /dsa/topics/{topicId}/questions [get]
func (c *DSAController) ListQuestions(ctx *gin.Context) {
	topicID, err := helpers.ParseIDParam(ctx, "topicId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	questions, err := c.dsaService.ListQuestionsByTopic(ctx.Request.Context(), topicID, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(questions, ""))
}

// CreateQuestion godoc
// @Summary Create a question
// @Tags dsa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.APIResponse{data=models.Question}
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /dsa/questions [post]
func (c *DSAController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	question, err := c.dsaService.CreateQuestion(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(question, "Question created"))
}

// BulkCreateQuestions godoc
// @Summary Add many questions to a topic
// @Description Missing fields fall back to defaults. All rows are inserted in one transaction.
// @Tags dsa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkCreateQuestionsRequest true "Questions"
// @Success 201 {object} dto.APIResponse{data=[]models.Question}
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /dsa/questions/bulk [post]
func (c *DSAController) BulkCreateQuestions(ctx *gin.Context) {
	var req dto.BulkCreateQuestionsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	questions, err := c.dsaService.BulkCreateQuestions(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(questions, "Questions created"))
}

// AddNote godoc
// @Summary Add a personal note to a question
// @Tags dsa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body dto.AddNoteRequest true "Note"
// @Success 201 {object} dto.APIResponse{data=models.Note}
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /dsa/questions/{id}/notes [post]
func (c *DSAController) AddNote(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AddNoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	note, err := c.dsaService.AddNote(ctx.Request.Context(), id, middleware.CurrentUserID(ctx), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(note, "Note added"))
}

// ToggleStar godoc
// @Summary Star or unstar a question
// @Tags dsa
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.StarResponse}
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /dsa/questions/{id}/star [post]
func (c *DSAController) ToggleStar(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.dsaService.ToggleStar(ctx.Request.Context(), id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, ""))
}

// MarkSolved godoc
// @Summary Mark a question solved
// @Description Idempotent. Returns the time of the first solve.
// @Tags dsa
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.SolveResponse}
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /dsa/questions/{id}/solve [post]
func (c *DSAController) MarkSolved(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.dsaService.MarkSolved(ctx.Request.Context(), id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Question marked as solved"))
}

// UnmarkSolved godoc
// @Summary Clear the solved mark of a question
// @Tags dsa
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.SolveResponse}
// @Router /dsa/questions/{id}/solve [delete]
func (c *DSAController) UnmarkSolved(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.dsaService.UnmarkSolved(ctx.Request.Context(), id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, ""))
}

// GetProgress godoc
// @Summary Solved counts per topic for the caller
// @Tags dsa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProgressResponse}
// @Router /dsa/progress [get]
func (c *DSAController) GetProgress(ctx *gin.Context) {
	progress, err := c.dsaService.GetProgress(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(progress, ""))
}
