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

// MarqueeController handles the announcement banner
type MarqueeController struct {
	marqueeService services.MarqueeService
	logger         zerolog.Logger
}

// NewMarqueeController creates a new MarqueeController
func NewMarqueeController(marqueeService services.MarqueeService, logger zerolog.Logger) *MarqueeController {
	return &MarqueeController{
		marqueeService: marqueeService,
		logger:         logger,
	}
}

// GetActive godoc
// @Summary The active banner
// @Tags marquee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Marquee}
// @Failure 404 {object} dto.ErrorResponse "No active marquee found"
// @Router /marquee/active [get]
func (c *MarqueeController) GetActive(ctx *gin.Context) {
	marquee, err := c.marqueeService.GetActive(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(marquee, ""))
}

// List godoc
// @Summary All banners, newest first
// @Tags marquee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Marquee}
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /marquee [get]
func (c *MarqueeController) List(ctx *gin.Context) {
	marquees, err := c.marqueeService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(marquees, ""))
}

// Create godoc
// @Summary Publish a banner
// @Description The new banner becomes the only active one
// @Tags marquee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMarqueeRequest true "Banner"
// @Success 201 {object} dto.APIResponse{data=models.Marquee}
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /marquee [post]
func (c *MarqueeController) Create(ctx *gin.Context) {
	var req dto.CreateMarqueeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	marquee, err := c.marqueeService.Create(ctx.Request.Context(), req.Text, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(marquee, "Marquee created"))
}

// Update godoc
// @Summary Edit a banner
// @Description Setting isActive to true deactivates every other banner
// @Tags marquee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Marquee ID"
// @Param request body dto.UpdateMarqueeRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Marquee}
// @Failure 404 {object} dto.ErrorResponse "Marquee not found"
// @Router /marquee/{id} [put]
func (c *MarqueeController) Update(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateMarqueeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	marquee, err := c.marqueeService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(marquee, "Marquee updated"))
}

// Delete godoc
// @Summary Remove a banner
// @Tags marquee
// @Produce json
// @Security BearerAuth
// @Param id path int true "Marquee ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse "Marquee not found"
// @Router /marquee/{id} [delete]
func (c *MarqueeController) Delete(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.marqueeService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg := "Marquee deleted"
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.MessageResponse{Message: msg}, msg))
}
