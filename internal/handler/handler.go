package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/cohortics/churn-analytics-service/docs"
	"github.com/cohortics/churn-analytics-service/internal/dto"
	"github.com/cohortics/churn-analytics-service/internal/service"
)

type Handler struct {
	analytics service.AnalyticsServicer
	router    *gin.Engine
	log       *zap.Logger
}

func NewHandler(analytics service.AnalyticsServicer, log *zap.Logger) *Handler {
	h := &Handler{
		analytics: analytics,
		router:    gin.Default(),
		log:       log,
	}

	h.router.Use(requestID())
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// requestID tags every request so log lines and error responses can be
// correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/activity", h.recordActivity)
	h.router.POST("/activity/bulk", h.recordActivityBulk)
	h.router.GET("/analytics/retention/monthly", h.monthlyRetention)
	h.router.GET("/analytics/churn/monthly", h.monthlyChurn)
	h.router.GET("/analytics/lifecycle", h.lifecycleStatus)
	h.router.GET("/analytics/retention", h.retentionBetween)
	h.router.GET("/analytics/churn", h.churnAt)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// respondError maps service errors to HTTP responses. Validation sentinels
// become 400s; everything else is a 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidMonth),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrNoPredecessor):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		h.log.Error("Request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// recordActivity handles POST /activity
// @Summary Record a single activity fact
// @Description Enqueue one (user, active month) observation for ingestion
// @Tags activity
// @Accept json
// @Produce json
// @Param fact body dto.RecordActivityRequest true "Activity fact"
// @Success 202 {object} dto.RecordActivityResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /activity [post]
func (h *Handler) recordActivity(c *gin.Context) {
	var req dto.RecordActivityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid activity request",
			zap.Error(err),
			zap.String("user_id", req.UserID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	factID, err := h.analytics.RecordActivity(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("Activity fact accepted",
		zap.String("fact_id", factID),
		zap.String("user_id", req.UserID))

	c.JSON(http.StatusAccepted, dto.RecordActivityResponse{
		FactID: factID,
		Status: "accepted",
	})
}

// recordActivityBulk handles POST /activity/bulk
// @Summary Record multiple activity facts
// @Description Enqueue many activity observations in one request
// @Tags activity
// @Accept json
// @Produce json
// @Param facts body dto.RecordActivityBulkRequest true "Bulk activity facts"
// @Success 202 {object} dto.RecordActivityBulkResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /activity/bulk [post]
func (h *Handler) recordActivityBulk(c *gin.Context) {
	var bulkRequest dto.RecordActivityBulkRequest

	if err := c.ShouldBindJSON(&bulkRequest); err != nil {
		h.log.Warn("Invalid bulk activity request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	factIDs, rowErrors, err := h.analytics.RecordActivityBulk(c.Request.Context(), bulkRequest.Facts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("Bulk activity processed",
		zap.Int("accepted", len(factIDs)),
		zap.Int("rejected", len(rowErrors)),
		zap.Int("total", len(bulkRequest.Facts)))

	c.JSON(http.StatusAccepted, dto.RecordActivityBulkResponse{
		Accepted: len(factIDs),
		Rejected: len(rowErrors),
		FactIDs:  factIDs,
		Errors:   rowErrors,
	})
}

// monthlyRetention handles GET /analytics/retention/monthly
// @Summary Monthly retention summary
// @Description Per month: retained users, total active users and their ratio
// @Tags analytics
// @Produce json
// @Param from query string false "Window start (YYYY-MM)"
// @Param to query string false "Window end (YYYY-MM)"
// @Success 200 {object} dto.MonthlyRetentionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/retention/monthly [get]
func (h *Handler) monthlyRetention(c *gin.Context) {
	var query dto.MonthWindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	response, err := h.analytics.MonthlyRetention(c.Request.Context(), &query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// monthlyChurn handles GET /analytics/churn/monthly
// @Summary Monthly churn summary
// @Description Users inferred churned entering each month
// @Tags analytics
// @Produce json
// @Param from query string false "Window start (YYYY-MM)"
// @Param to query string false "Window end (YYYY-MM)"
// @Param count_final_month query bool false "Count churn inferred from the final in-range month"
// @Success 200 {object} dto.MonthlyChurnResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/churn/monthly [get]
func (h *Handler) monthlyChurn(c *gin.Context) {
	var query dto.MonthlyChurnQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	response, err := h.analytics.MonthlyChurn(c.Request.Context(), &query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// lifecycleStatus handles GET /analytics/lifecycle
// @Summary Lifecycle status breakdown
// @Description User counts per (month, lifecycle label)
// @Tags analytics
// @Produce json
// @Param from query string false "Window start (YYYY-MM)"
// @Param to query string false "Window end (YYYY-MM)"
// @Success 200 {object} dto.LifecycleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/lifecycle [get]
func (h *Handler) lifecycleStatus(c *gin.Context) {
	var query dto.MonthWindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	response, err := h.analytics.LifecycleStatus(c.Request.Context(), &query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// retentionBetween handles GET /analytics/retention
// @Summary Retention between two months
// @Description Of the users active in start_month, how many were still active in target_month
// @Tags analytics
// @Produce json
// @Param start_month query string true "Start month (YYYY-MM)"
// @Param target_month query string true "Target month (YYYY-MM)"
// @Success 200 {object} dto.RetentionBetweenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/retention [get]
func (h *Handler) retentionBetween(c *gin.Context) {
	var query dto.RetentionBetweenQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	response, err := h.analytics.RetentionBetween(c.Request.Context(), &query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// churnAt handles GET /analytics/churn
// @Summary Churn at a reference month
// @Description Of the users active in the month before reference_month, how many did not return
// @Tags analytics
// @Produce json
// @Param reference_month query string true "Reference month (YYYY-MM)"
// @Success 200 {object} dto.ChurnAtResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/churn [get]
func (h *Handler) churnAt(c *gin.Context) {
	var query dto.ChurnAtQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	response, err := h.analytics.ChurnAt(c.Request.Context(), &query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
