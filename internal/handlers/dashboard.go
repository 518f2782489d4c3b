package handlers

import (
	"errors"
	"net/http"

	"github.com/contenthub/content-service/internal/middleware"
	"github.com/contenthub/content-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler handles the combined user/profile dashboard endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(dashboardService service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Get godoc
// @Summary Get dashboard
// @Description Returns the caller's user record with the nested profile (null until first profile write)
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.Dashboard
// @Failure 401 {object} map[string]string
// @Router /dashboard/ [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := h.dashboardService.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not found")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Update godoc
// @Summary Update dashboard
// @Description Partially update user fields and nested profile fields in one transaction
// @Tags dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.DashboardUpdate true "Fields to update"
// @Success 200 {object} service.Dashboard
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /dashboard/ [patch]
func (h *DashboardHandler) Update(c *gin.Context) {
	var update service.DashboardUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dashboard, err := h.dashboardService.Update(c.Request.Context(), middleware.UserID(c), update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			RespondError(c, http.StatusNotFound, "not found")
		case errors.Is(err, service.ErrInvalidInput):
			RespondError(c, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		default:
			LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to update dashboard")
		}
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
