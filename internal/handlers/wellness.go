package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/breathe/backend/internal/analytics"
	"github.com/JonnyWalker81/breathe/backend/internal/apierror"
	"github.com/JonnyWalker81/breathe/backend/internal/middleware"
	"github.com/JonnyWalker81/breathe/backend/internal/models"
	"github.com/JonnyWalker81/breathe/backend/internal/service"
)

// MaxAnalyzeBodyBytes bounds the body of POST /wellness/analyze
const MaxAnalyzeBodyBytes = 8 << 20

// WellnessHandler handles wellness analysis HTTP requests
type WellnessHandler struct {
	wellnessService service.WellnessService
	defaultTZOffset string
}

// NewWellnessHandler creates a new wellness handler. defaultTZOffset is used
// when a request has no tz_offset.
func NewWellnessHandler(wellnessService service.WellnessService, defaultTZOffset string) *WellnessHandler {
	return &WellnessHandler{
		wellnessService: wellnessService,
		defaultTZOffset: defaultTZOffset,
	}
}

// RegisterWellnessRoutes mounts the wellness endpoints under rg
func RegisterWellnessRoutes(rg *gin.RouterGroup, h *WellnessHandler) {
	wellness := rg.Group("/wellness")
	{
		wellness.GET("/analysis", h.GetAnalysis)
		wellness.GET("/daily-metrics", h.GetDailyMetrics)
		wellness.GET("/correlations", h.GetCorrelations)
		wellness.GET("/craving-predictions", h.GetCravingPredictions)
		wellness.GET("/trends", h.GetTrends)
		wellness.POST("/analyze", h.AnalyzeLogs)
	}
}

// GetAnalysis returns the full analysis for the authenticated user
// GET /api/v1/wellness/analysis
func (h *WellnessHandler) GetAnalysis(c *gin.Context) {
	req, ok := h.bindWindow(c)
	if !ok {
		return
	}

	result, err := h.wellnessService.Analyze(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDailyMetrics returns one aggregated row per day of the window
// GET /api/v1/wellness/daily-metrics
func (h *WellnessHandler) GetDailyMetrics(c *gin.Context) {
	req, ok := h.bindWindow(c)
	if !ok {
		return
	}

	days, err := h.wellnessService.GetDailyMetrics(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	sufficient := false
	for _, d := range days {
		if d.HasData() {
			sufficient = true
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"daily_metrics":   days,
		"data_sufficient": sufficient,
	})
}

// GetCorrelations returns the metric correlations, strongest first
// GET /api/v1/wellness/correlations
func (h *WellnessHandler) GetCorrelations(c *gin.Context) {
	req, ok := h.bindWindow(c)
	if !ok {
		return
	}

	correlations, err := h.wellnessService.GetCorrelations(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"correlations":    correlations,
		"data_sufficient": len(correlations) > 0,
	})
}

// GetCravingPredictions returns the highest-risk hours of the day
// GET /api/v1/wellness/craving-predictions
func (h *WellnessHandler) GetCravingPredictions(c *gin.Context) {
	req, ok := h.bindWindow(c)
	if !ok {
		return
	}

	predictions, err := h.wellnessService.GetCravingPredictions(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"craving_predictions": predictions,
		"data_sufficient":     len(predictions) > 0,
	})
}

// GetTrends returns the trend of every daily metric
// GET /api/v1/wellness/trends
func (h *WellnessHandler) GetTrends(c *gin.Context) {
	req, ok := h.bindWindow(c)
	if !ok {
		return
	}

	trends, err := h.wellnessService.GetTrends(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	sufficient := false
	for _, t := range trends {
		if t.DataPoints >= analytics.MinTrendPoints {
			sufficient = true
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"trends":          trends,
		"data_sufficient": sufficient,
	})
}

// AnalyzeLogs runs a full analysis over logs supplied in the request body.
// Nothing is read from or written to the store.
// POST /api/v1/wellness/analyze
func (h *WellnessHandler) AnalyzeLogs(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxAnalyzeBodyBytes)

	var req models.AnalyzeLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c),
			err.Error(),
			"The request body must be JSON with start_date and end_date",
		))
		return
	}
	if strings.TrimSpace(req.TZOffset) == "" {
		req.TZOffset = h.defaultTZOffset
	}

	result, err := h.wellnessService.AnalyzeLogs(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindWindow parses start_date, end_date and tz_offset. It writes the
// problem response itself and returns false on failure.
func (h *WellnessHandler) bindWindow(c *gin.Context) (service.AnalysisRequest, bool) {
	tz := c.Query("tz_offset")
	switch {
	case strings.TrimSpace(tz) == "":
		tz = h.defaultTZOffset
	case strings.HasPrefix(tz, " "):
		// An unescaped "+" arrives as a space
		tz = "+" + strings.TrimSpace(tz)
	}

	req, err := service.ParseAnalysisRequest(c.Query("start_date"), c.Query("end_date"), tz)
	if err != nil {
		writeServiceError(c, err)
		return service.AnalysisRequest{}, false
	}
	return req, true
}
