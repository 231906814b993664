package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

// ParseIDParam reads a positive int64 path parameter
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// ParseCompanyFilter reads the optional month and year query parameters.
// Month is matched case-insensitively against full English month names.
func ParseCompanyFilter(c *gin.Context) (models.CompanyFilter, error) {
	var filter models.CompanyFilter

	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		month, ok := normalizeMonth(raw)
		if !ok {
			return filter, apperrors.NewBadRequestError("month must be a full month name")
		}
		filter.Month = month
	}

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 2000 || year > 2100 {
			return filter, apperrors.NewBadRequestError("year must be between 2000 and 2100")
		}
		filter.Year = year
	}

	return filter, nil
}

func normalizeMonth(raw string) (models.Month, bool) {
	for _, m := range models.Months {
		if strings.EqualFold(string(m), raw) {
			return m, true
		}
	}
	return "", false
}
