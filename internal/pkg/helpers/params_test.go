package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

func newContext(target string, params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	c.Params = params
	return c
}

func TestParseIDParam(t *testing.T) {
	id, err := ParseIDParam(newContext("/", gin.Params{{Key: "id", Value: "42"}}), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := ParseIDParam(newContext("/", gin.Params{{Key: "id", Value: bad}}), "id")
		assert.ErrorIs(t, err, apperrors.ErrBadRequest, bad)
	}
}

func TestParseCompanyFilter(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    models.CompanyFilter
		wantErr bool
	}{
		{name: "none", target: "/companies", want: models.CompanyFilter{}},
		{name: "both", target: "/companies?month=august&year=2025", want: models.CompanyFilter{Month: "August", Year: 2025}},
		{name: "year only", target: "/companies?year=2024", want: models.CompanyFilter{Year: 2024}},
		{name: "bad month", target: "/companies?month=Aug", wantErr: true},
		{name: "bad year", target: "/companies?year=1999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompanyFilter(newContext(tt.target, nil))
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
