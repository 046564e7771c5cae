package handlers

import (
	"net/http"

	"feeder-fund-calc/internal/api/models"
	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/policy"

	"github.com/gin-gonic/gin"
)

// ListPolicies handles GET /api/v1/policies
func ListPolicies(c *gin.Context) {
	desc := policy.Describe()
	out := make([]models.PolicyInfo, 0, len(desc))
	for _, kind := range model.PolicyKinds() {
		out = append(out, models.PolicyInfo{
			Name:        string(kind),
			Description: desc[kind],
			Default:     kind == model.DefaultEngineConfig().Policy,
		})
	}
	c.JSON(http.StatusOK, gin.H{"policies": out})
}

// ListFrequencies handles GET /api/v1/frequencies
func ListFrequencies(c *gin.Context) {
	out := make([]models.FrequencyInfo, 0, 3)
	for _, f := range model.Frequencies() {
		months := make([]int, 0, 12)
		for m := 1; m <= 12; m++ {
			if f.Fires(m) {
				months = append(months, m)
			}
		}
		out = append(out, models.FrequencyInfo{
			Name:           string(f),
			PeriodsPerYear: f.PeriodsPerYear(),
			Months:         months,
		})
	}
	c.JSON(http.StatusOK, gin.H{"frequencies": out})
}
