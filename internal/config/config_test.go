package config

import (
	"testing"
	"time"

	"grievance/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDepartmentName(t *testing.T) {
	assert.Equal(t, "General Department", DepartmentName(models.CategoryOther))
	assert.Equal(t, "Healthcare Department", DepartmentName(models.CategoryHealthcare))
	// Unknown categories keep their raw label.
	assert.Equal(t, "Parks", DepartmentName(models.Category("Parks")))
}

func TestDepartmentNames_CoverAllCategories(t *testing.T) {
	for _, c := range models.Categories {
		assert.Contains(t, DepartmentNames, c)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("ANALYSIS_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}
