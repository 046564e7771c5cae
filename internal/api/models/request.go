package models

import (
	"feeder-fund-calc/internal/config"
	"feeder-fund-calc/internal/data"
)

// CalculateRequest is the body of POST /api/v1/calculate.
type CalculateRequest struct {
	Config  config.FeeConfig `json:"config"`
	Input   InputOptions     `json:"input,omitempty"`
	Periods []data.JSONRow   `json:"periods" binding:"required,min=1"`
	Options CalculateOptions `json:"options,omitempty"`
}

// InputOptions controls how rows are interpreted before the engine runs.
type InputOptions struct {
	BaseRow     string `json:"base_row,omitempty"` // auto (default), true, false
	SkipUndated bool   `json:"skip_undated,omitempty"`
}

type CalculateOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// UploadForm is the JSON carried in the "config" field of a multipart
// upload to /api/v1/calculate/upload.
type UploadForm struct {
	Config  config.FeeConfig `json:"config"`
	Input   InputOptions     `json:"input,omitempty"`
	Options CalculateOptions `json:"options,omitempty"`
}

// CompareRequest runs one set of periods under a base configuration and
// each named variation of it.
type CompareRequest struct {
	Periods    []data.JSONRow     `json:"periods" binding:"required,min=1"`
	Input      InputOptions       `json:"input,omitempty"`
	BaseConfig config.FeeConfig   `json:"base_config"`
	Variations []config.Variation `json:"variations" binding:"required,min=1"`
}
