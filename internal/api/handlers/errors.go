package handlers

import (
	"errors"
	"net/http"

	"feeder-fund-calc/internal/api/models"
	"feeder-fund-calc/internal/data"
	"feeder-fund-calc/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func abortWithError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeError maps known failures to their API code. Anything unrecognized
// is reported with fallback.
func writeError(c *gin.Context, err error, fallback int) {
	var rangeErr *model.RangeError
	switch {
	case errors.As(err, &rangeErr):
		abortWithError(c, http.StatusBadRequest, "CONFIG_OUT_OF_RANGE", err.Error(), map[string]interface{}{
			"param": rangeErr.Param,
			"value": rangeErr.Value,
			"min":   rangeErr.Min,
			"max":   rangeErr.Max,
		})
	case errors.Is(err, data.ErrInputShape):
		abortWithError(c, http.StatusBadRequest, "INPUT_SHAPE", err.Error(), nil)
	case errors.Is(err, data.ErrAllValuesUnparseable):
		abortWithError(c, http.StatusUnprocessableEntity, "UNPARSEABLE_RETURNS", err.Error(), nil)
	case errors.Is(err, model.ErrUnknownFrequency), errors.Is(err, model.ErrUnknownPolicy):
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case fallback >= http.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		abortWithError(c, fallback, "INTERNAL_ERROR", err.Error(), nil)
	default:
		abortWithError(c, fallback, "INVALID_REQUEST", err.Error(), nil)
	}
	if fallback < http.StatusInternalServerError {
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("request rejected")
	}
}
