package app

import (
	"net/http"

	"filesmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public gin.IRoutes) {
	public.GET("/status", h.GetStatus)
	public.GET("/stats", h.GetStats)
}

// GetStatus reports whether the session cache and the database answer.
// @Summary		Service status
// @Tags		App
// @Success		200	{object}	map[string]interface{}	"cache, db"
// @Router		/status [GET]
func (h *Handler) GetStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, h.svc.Status(c.Request.Context()))
}

// GetStats returns the number of users and files.
// @Summary		Service stats
// @Tags		App
// @Success		200	{object}	map[string]interface{}	"users, files"
// @Failure		500	{object}	map[string]interface{}	"Database error"
// @Router		/stats [GET]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	response.Success(c, http.StatusOK, stats)
}
