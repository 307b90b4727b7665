package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
)

// HostelController handles hostel endpoints
type HostelController struct {
	hostelService *services.HostelService
}

// NewHostelController creates a new HostelController
func NewHostelController(hostelService *services.HostelService) *HostelController {
	return &HostelController{hostelService: hostelService}
}

// CreateHostel registers a new hostel (owner only)
// @Summary Create a hostel
// @Tags hostels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.HostelRequest true "Hostel information"
// @Success 201 {object} dto.APIResponse{data=models.Hostel}
// @Failure 409 {object} dto.ErrorResponse "Name already taken"
// @Router /hostels [post]
func (ctrl *HostelController) CreateHostel(c *gin.Context) {
	var req dto.HostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	_, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	hostel := &models.Hostel{
		Name:          req.Name,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactNumber: req.ContactNumber,
	}
	if err := ctrl.hostelService.CreateHostel(c, hostel, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(hostel))
}

// ListHostels lists hostels visible to the caller
// @Summary List hostels
// @Tags hostels
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Hostel}
// @Router /hostels [get]
func (ctrl *HostelController) ListHostels(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	hostels, err := ctrl.hostelService.ListHostels(c, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(hostels))
}

// GetHostel retrieves one hostel
// @Summary Get hostel by ID
// @Tags hostels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Success 200 {object} dto.APIResponse{data=models.Hostel}
// @Failure 404 {object} dto.ErrorResponse "Not found or not visible"
// @Router /hostels/{id} [get]
func (ctrl *HostelController) GetHostel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	hostel, err := ctrl.hostelService.GetHostel(c, id, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(hostel))
}

// UpdateHostel modifies a hostel
// @Summary Update a hostel
// @Tags hostels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Param request body dto.HostelRequest true "Hostel information"
// @Success 200 {object} dto.APIResponse{data=models.Hostel}
// @Router /hostels/{id} [put]
func (ctrl *HostelController) UpdateHostel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.HostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	hostel := &models.Hostel{
		ID:            id,
		Name:          req.Name,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactNumber: req.ContactNumber,
	}
	if err := ctrl.hostelService.UpdateHostel(c, hostel, scope); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(hostel))
}

// DeleteHostel removes an empty hostel (owner only)
// @Summary Delete a hostel
// @Tags hostels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 409 {object} dto.ErrorResponse "Hostel has dependents"
// @Router /hostels/{id} [delete]
func (ctrl *HostelController) DeleteHostel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.hostelService.DeleteHostel(c, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Hostel deleted"}))
}
