package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/api/models"
	"feeder-fund-calc/internal/config"
	"feeder-fund-calc/internal/data"
	"feeder-fund-calc/internal/metrics"
	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/waterfall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RunStore keeps finished runs for later ledger and export requests.
type RunStore = data.RunCache[*waterfall.Result]

// CalcHandler handles fee calculation requests
type CalcHandler struct {
	engine  *waterfall.Engine
	runs    *RunStore
	metrics *metrics.Registry
}

// NewCalcHandler creates a new calculation handler. m may be nil.
func NewCalcHandler(runs *RunStore, m *metrics.Registry) *CalcHandler {
	return &CalcHandler{
		engine:  waterfall.New(),
		runs:    runs,
		metrics: m,
	}
}

// Calculate handles POST /api/v1/calculate
func (h *CalcHandler) Calculate(c *gin.Context) {
	var req models.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	periods, err := data.BuildPeriodsFromJSON(req.Periods)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	h.respond(c, periods, req.Config, req.Input, req.Options)
}

// Upload handles POST /api/v1/calculate/upload: a multipart "file" (csv,
// xlsx or json) plus an optional "config" field holding models.UploadForm.
func (h *CalcHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart field \"file\" is required", nil)
		return
	}
	var form models.UploadForm
	if raw := c.PostForm("config"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form); err != nil {
			abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("config field: %v", err), nil)
			return
		}
	}

	format, err := data.FormatFromName(fh.Filename)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	defer f.Close()

	table, err := data.ReadTable(f, format)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	table.Source = fh.Filename
	periods, err := data.BuildPeriods(table)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	h.respond(c, periods, form.Config, form.Input, form.Options)
}

func (h *CalcHandler) respond(c *gin.Context, periods []model.Period, fees config.FeeConfig, in models.InputOptions, opts models.CalculateOptions) {
	cfg, err := resolveConfig(fees, in, periods)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	res, err := h.run(periods, cfg)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	id := h.store(res)

	resp := models.CalculateResponse{
		ID:      id,
		Status:  "completed",
		Config:  models.NewConfigInfo(res.Config),
		Summary: models.NewSummary(analysis.Summarize(res)),
		Skipped: models.NewSkipped(res.Skipped),
	}
	if opts.IncludeLedger {
		resp.Ledger = models.NewLedger(res.Ledger)
	}
	log.Info().
		Str("run_id", id).
		Int("periods", len(res.Ledger)).
		Int("skipped", len(res.Skipped)).
		Str("policy", string(cfg.Policy)).
		Msg("calculation completed")
	c.JSON(http.StatusOK, resp)
}

func (h *CalcHandler) run(periods []model.Period, cfg model.EngineConfig) (*waterfall.Result, error) {
	var timer *metrics.RunTimer
	if h.metrics != nil {
		timer = h.metrics.StartRun(string(cfg.Policy))
	}
	res, err := h.engine.Run(periods, cfg)
	timer.Stop(res, err)
	return res, err
}

func (h *CalcHandler) store(res *waterfall.Result) string {
	id := h.runs.Put(res)
	if h.metrics != nil {
		h.metrics.CachedRuns.Set(float64(h.runs.Len()))
	}
	return id
}

// resolveConfig turns request fees and input options into an engine
// configuration for these periods.
func resolveConfig(fees config.FeeConfig, in models.InputOptions, periods []model.Period) (model.EngineConfig, error) {
	c, err := requestConfig(fees, in)
	if err != nil {
		return model.EngineConfig{}, err
	}
	return c.EngineConfig(c.Input.BaseRow.Resolve(periods))
}

func requestConfig(fees config.FeeConfig, in models.InputOptions) (*config.Config, error) {
	mode, err := config.ParseBaseRowMode(in.BaseRow)
	if err != nil {
		return nil, err
	}
	return &config.Config{
		Fees:  fees,
		Input: config.InputConfig{BaseRow: mode, SkipUndated: in.SkipUndated},
	}, nil
}
