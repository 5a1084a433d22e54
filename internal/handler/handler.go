package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/service"
)

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	runService service.RunServicer
	router     *gin.Engine
	log        *zap.Logger
}

func NewHandler(runService service.RunServicer, log *zap.Logger) *Handler {
	h := &Handler{
		runService: runService,
		router:     gin.Default(),
		log:        log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/v1/ingest/run", h.triggerRun)
	h.router.GET("/v1/ingest/status", h.runStatus)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// triggerRun handles POST /v1/ingest/run. The run executes synchronously;
// a request arriving while a run is active is refused with 409 so that at
// most one run ever mutates the registry.
func (h *Handler) triggerRun(c *gin.Context) {
	summary, err := h.runService.Trigger(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRunActive) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "run_active",
				Message: "an ingestion run is already in progress",
			})
			return
		}
		h.log.Error("Ingestion run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "run_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// runStatus handles GET /v1/ingest/status
func (h *Handler) runStatus(c *gin.Context) {
	summary, err := h.runService.LastRun()
	if summary == nil && err == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "no_runs",
			Message: "no ingestion run has completed yet",
		})
		return
	}

	resp := gin.H{"summary": summary}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
