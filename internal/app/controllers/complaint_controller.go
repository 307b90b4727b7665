package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
)

// ComplaintController handles complaint endpoints
type ComplaintController struct {
	complaintService *services.ComplaintService
}

// NewComplaintController creates a new ComplaintController
func NewComplaintController(complaintService *services.ComplaintService) *ComplaintController {
	return &ComplaintController{complaintService: complaintService}
}

// CreateComplaint files a new complaint
// @Summary Create a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateComplaintRequest true "Complaint information"
// @Success 201 {object} dto.APIResponse{data=models.Complaint}
// @Failure 404 {object} dto.ErrorResponse "Room not visible in scope"
// @Router /complaints [post]
func (ctrl *ComplaintController) CreateComplaint(c *gin.Context) {
	var req dto.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	complaint := &models.Complaint{
		RoomID:       req.RoomID,
		ReportedByID: req.ReportedByID,
		Description:  req.Description,
		Priority:     req.Priority,
		HostelID:     req.HostelID,
	}
	if err := ctrl.complaintService.CreateComplaint(c, complaint, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(complaint))
}

// ListComplaints lists complaints within the caller's scope
// @Summary List complaints
// @Tags complaints
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Param status query string false "Filter by status" Enums(Pending, In Progress, Resolved, Closed)
// @Success 200 {object} dto.APIResponse{data=[]models.Complaint}
// @Router /complaints [get]
func (ctrl *ComplaintController) ListComplaints(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var status *models.ComplaintStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ComplaintStatus(raw)
		status = &s
	}

	complaints, err := ctrl.complaintService.ListComplaints(c, scope, status)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(complaints))
}

// GetComplaint retrieves one complaint
// @Summary Get a complaint
// @Tags complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} dto.APIResponse{data=models.Complaint}
// @Failure 404 {object} dto.ErrorResponse
// @Router /complaints/{id} [get]
func (ctrl *ComplaintController) GetComplaint(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	complaint, err := ctrl.complaintService.GetComplaint(c, id, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(complaint))
}

// UpdateComplaint changes a complaint, including lifecycle moves
// @Summary Update a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body dto.UpdateComplaintRequest true "Complaint information"
// @Success 200 {object} dto.APIResponse{data=models.Complaint}
// @Failure 404 {object} dto.ErrorResponse
// @Router /complaints/{id} [put]
func (ctrl *ComplaintController) UpdateComplaint(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	complaint := &models.Complaint{
		ID:              id,
		RoomID:          req.RoomID,
		Description:     req.Description,
		Priority:        req.Priority,
		Status:          req.Status,
		ResolutionNotes: req.ResolutionNotes,
	}
	if err := ctrl.complaintService.UpdateComplaint(c, complaint, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(complaint))
}

// DeleteComplaint removes a complaint
// @Summary Delete a complaint
// @Tags complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /complaints/{id} [delete]
func (ctrl *ComplaintController) DeleteComplaint(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.complaintService.DeleteComplaint(c, id, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Complaint deleted successfully"}))
}
