package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
)

// DashboardController handles dashboard endpoints
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Stats returns aggregated counts for the caller's scope. Results are
// cached; use the refresh endpoint to force a recomputation.
// @Summary Dashboard statistics
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Success 200 {object} dto.APIResponse{data=services.DashboardStats}
// @Router /dashboard/stats [get]
func (ctrl *DashboardController) Stats(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	stats, err := ctrl.dashboardService.Stats(c, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// Refresh recomputes dashboard statistics, replaces the cached entry and
// notifies subscribed clients
// @Summary Refresh dashboard statistics
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Success 200 {object} dto.APIResponse{data=services.DashboardStats}
// @Router /dashboard/stats/refresh [post]
func (ctrl *DashboardController) Refresh(c *gin.Context) {
	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	stats, err := ctrl.dashboardService.Refresh(c, scope, user.Username)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}
