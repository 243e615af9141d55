package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	dashboardService "github.com/jwalitptl/clinic-ops-api/internal/service/dashboard"
	"github.com/jwalitptl/clinic-ops-api/pkg/httputil"
)

type Handler struct {
	service *dashboardService.Service
}

func NewHandler(service *dashboardService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.GetSnapshot)
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context(), time.Now())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, snapshot)
}
