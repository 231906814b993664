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

// CompanyController handles the placement calendar
type CompanyController struct {
	companyService services.CompanyService
	logger         zerolog.Logger
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService services.CompanyService, logger zerolog.Logger) *CompanyController {
	return &CompanyController{
		companyService: companyService,
		logger:         logger,
	}
}

// ListCompanies godoc
// @Summary List calendar entries
// @Description Filter by month, year or both. Sorted by visit date.
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param month query string false "Full month name" example(August)
// @Param year query int false "Year between 2000 and 2100"
// @Success 200 {object} dto.APIResponse{data=[]dto.CompanyResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /companies [get]
func (c *CompanyController) ListCompanies(ctx *gin.Context) {
	filter, err := helpers.ParseCompanyFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	companies, err := c.companyService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(companies, ""))
}

// GetCompany godoc
// @Summary Get a calendar entry
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id} [get]
func (c *CompanyController) GetCompany(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	company, err := c.companyService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(company, ""))
}

// CreateCompany godoc
// @Summary Add a calendar entry
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CompanyRequest true "Company"
// @Success 201 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /companies [post]
func (c *CompanyController) CreateCompany(ctx *gin.Context) {
	var req dto.CompanyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	company, err := c.companyService.Create(ctx.Request.Context(), &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(company, "Company created"))
}

// UpdateCompany godoc
// @Summary Replace a calendar entry
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param request body dto.CompanyRequest true "Company"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id} [put]
func (c *CompanyController) UpdateCompany(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CompanyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	company, err := c.companyService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(company, "Company updated"))
}

// DeleteCompany godoc
// @Summary Remove a calendar entry
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id} [delete]
func (c *CompanyController) DeleteCompany(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.companyService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg := "Company deleted"
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.MessageResponse{Message: msg}, msg))
}
