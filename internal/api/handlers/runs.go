package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/api/models"
	"feeder-fund-calc/internal/report"
	"feeder-fund-calc/internal/waterfall"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Ledger handles GET /api/v1/runs/:id/ledger
func (h *CalcHandler) Ledger(c *gin.Context) {
	id := c.Param("id")
	res, ok := h.lookup(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:      id,
		Summary: models.NewSummary(analysis.Summarize(res)),
		Skipped: models.NewSkipped(res.Skipped),
		Ledger:  models.NewLedger(res.Ledger),
	})
}

// Export handles GET /api/v1/runs/:id/export?format=xlsx|csv|summary-csv|md
func (h *CalcHandler) Export(c *gin.Context) {
	id := c.Param("id")
	res, ok := h.lookup(c, id)
	if !ok {
		return
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		ext         string
	)
	switch format := strings.ToLower(c.DefaultQuery("format", "xlsx")); format {
	case "xlsx":
		err = report.WriteXLSX(&buf, res)
		contentType, ext = xlsxContentType, "xlsx"
	case "csv":
		err = report.WriteLedgerCSV(&buf, res.Ledger)
		contentType, ext = "text/csv", "csv"
	case "summary-csv":
		err = report.WriteSummaryCSV(&buf, res)
		contentType, ext = "text/csv", "summary.csv"
	case "md", "markdown":
		buf.WriteString(report.Markdown("Fee ledger "+id, res))
		contentType, ext = "text/markdown; charset=utf-8", "md"
	default:
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Sprintf("unsupported export format %q (want xlsx, csv, summary-csv or md)", format), nil)
		return
	}
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=fund_fees_%s.%s", id, ext))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *CalcHandler) lookup(c *gin.Context, id string) (*waterfall.Result, bool) {
	res, ok := h.runs.Get(id)
	if !ok {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("run %q not found or expired", id), nil)
		return nil, false
	}
	return res, true
}
