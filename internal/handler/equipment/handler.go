package equipment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	equipmentService "github.com/jwalitptl/clinic-ops-api/internal/service/equipment"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
	"github.com/jwalitptl/clinic-ops-api/pkg/httputil"
)

type Handler struct {
	service *equipmentService.Service
}

func NewHandler(service *equipmentService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	equipment := r.Group("/equipment")
	{
		equipment.POST("", h.CreateEquipment)
		equipment.GET("", h.ListEquipment)
		equipment.GET("/:id", h.GetEquipment)
		equipment.GET("/:id/bindings", h.ListBindings)
		equipment.POST("/:id/deactivate", h.DeactivateEquipment)
	}
}

func (h *Handler) CreateEquipment(c *gin.Context) {
	var req model.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	eq, err := h.service.CreateEquipment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, eq)
}

func (h *Handler) GetEquipment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	eq, err := h.service.GetEquipment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, eq)
}

func (h *Handler) ListEquipment(c *gin.Context) {
	equipment, err := h.service.ListEquipment(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, equipment)
}

func (h *Handler) ListBindings(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	bindings, err := h.service.ListBindings(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, bindings)
}

func (h *Handler) DeactivateEquipment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeactivateEquipment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"message": "equipment deactivated"})
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid equipment ID: %s", c.Param("id"))
	}
	return id, nil
}
