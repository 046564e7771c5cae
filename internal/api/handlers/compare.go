package handlers

import (
	"net/http"
	"time"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/api/models"
	"feeder-fund-calc/internal/data"
	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/waterfall"

	"github.com/gin-gonic/gin"
)

// Compare handles POST /api/v1/compare
func (h *CalcHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	periods, err := data.BuildPeriodsFromJSON(req.Periods)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	cfg, err := requestConfig(req.BaseConfig, req.Input)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	cfg.Variations = req.Variations
	if err := cfg.Validate(); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	scenarios, err := cfg.Scenarios(cfg.Input.BaseRow.Resolve(periods))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	configs := make([]model.EngineConfig, len(scenarios))
	for i, s := range scenarios {
		configs[i] = s.Config
	}
	start := time.Now()
	results, err := h.engine.RunMany(c.Request.Context(), periods, configs)
	elapsed := time.Since(start)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}

	named := make([]analysis.Scenario, len(results))
	ids := make(map[string]string, len(results))
	byName := make(map[string]*waterfall.Result, len(results))
	for i, res := range results {
		if h.metrics != nil {
			h.metrics.ObserveRun(string(res.Config.Policy), elapsed, res, nil)
		}
		named[i] = analysis.Scenario{Name: scenarios[i].Name, Result: res}
		ids[scenarios[i].Name] = h.store(res)
		byName[scenarios[i].Name] = res
	}

	ranked := analysis.RankByFinalNAV(named)
	out := make([]models.ComparisonResult, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, models.ComparisonResult{
			Rank:    r.Rank,
			Name:    r.Name,
			RunID:   ids[r.Name],
			Config:  models.NewConfigInfo(byName[r.Name].Config),
			Summary: models.NewSummary(r.Summary),
		})
	}
	c.JSON(http.StatusOK, models.CompareResponse{Comparison: out})
}
