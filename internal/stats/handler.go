package stats

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/analyses"
	"cv-analyzer-backend/internal/shared/server/middleware"
	"cv-analyzer-backend/internal/shared/server/respond"
)

// Handler serves the dashboard stats route.
type Handler struct {
	Analyses *analyses.Service
}

// RegisterRoutes mounts the stats route on group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/user/stats", h.Get)
}

// Get returns the caller's aggregate stats. The average is rounded to one
// decimal place for display.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	stats, err := h.Analyses.StatsForUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "Erro ao buscar estatísticas do usuário")
		return
	}
	stats.AverageScore = math.Round(stats.AverageScore*10) / 10
	respond.OK(c, stats)
}
