package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/dto"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportHandler handles HTTP requests related to price reports
type reportHandler struct {
	reportService portssvc.PriceReportSvc
}

// newReportHandler creates a new reportHandler
func newReportHandler(rs portssvc.PriceReportSvc) *reportHandler {
	return &reportHandler{
		reportService: rs,
	}
}

// registerReportRoutes registers routes related to price reports
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.PriceReportSvc) {
	h := newReportHandler(reportService)

	reportGroup := rg.Group("/reports")
	{
		reportGroup.POST("/last-prices", h.generateLastPrices)
	}
}

// generateLastPrices runs the last-price pipeline and returns its rows.
// The body is optional; an empty body uses the configured home currency and does not
// write the output file.
func (h *reportHandler) generateLastPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Invalid report request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	logger.Info("Received request to generate last price report",
		slog.String("home_currency", req.HomeCurrency),
		slog.Bool("write_output", req.WriteOutput))

	report, err := h.reportService.Generate(c.Request.Context(), portssvc.ReportOptions{
		HomeCurrency: req.HomeCurrency,
		WriteOutput:  req.WriteOutput,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMissingInput):
			logger.Error("Order source unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order source unavailable"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid order data", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to generate last price report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		}
		return
	}

	logger.Info("Last price report generated successfully", slog.Int("row_count", len(report.Rows)))
	c.JSON(http.StatusOK, dto.ToPriceReportResponse(report))
}
