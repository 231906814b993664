package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/app/services"
	"github.com/yigit/placementportal/internal/middleware"
)

// ProfileController serves public coding profiles
type ProfileController struct {
	profileService services.ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile godoc
// @Summary LeetCode profile of a user
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param username path string true "LeetCode username"
// @Success 200 {object} dto.APIResponse{data=profilescraper.Profile}
// @Failure 400 {object} dto.ErrorResponse "Invalid username"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "External service unavailable"
// @Router /profile/leetcode/{username} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := c.profileService.GetProfile(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(profile, ""))
}

// GetOwnProfile godoc
// @Summary LeetCode profile of the caller
// @Description Uses the LeetCode username stored on the account
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=profilescraper.Profile}
// @Failure 400 {object} dto.ErrorResponse "No LeetCode username set"
// @Router /profile/leetcode [get]
func (c *ProfileController) GetOwnProfile(ctx *gin.Context) {
	profile, err := c.profileService.GetOwnProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(profile, ""))
}
