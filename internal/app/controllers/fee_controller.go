package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
)

// FeeController handles fee endpoints
type FeeController struct {
	feeService *services.FeeService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService *services.FeeService) *FeeController {
	return &FeeController{feeService: feeService}
}

// CreateFee raises a fee against a student
// @Summary Create a fee
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFeeRequest true "Fee information"
// @Success 201 {object} dto.APIResponse{data=models.Fee}
// @Failure 404 {object} dto.ErrorResponse "Student not visible in scope"
// @Router /fees [post]
func (ctrl *FeeController) CreateFee(c *gin.Context) {
	var req dto.CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	fee := &models.Fee{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
	}
	if err := ctrl.feeService.CreateFee(c, fee, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(fee))
}

// ListFees lists fees within the caller's scope
// @Summary List fees
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Param status query string false "Filter by status" Enums(Pending, Paid, Overdue)
// @Success 200 {object} dto.APIResponse{data=[]models.Fee}
// @Router /fees [get]
func (ctrl *FeeController) ListFees(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var status *models.FeeStatus
	if raw := c.Query("status"); raw != "" {
		s := models.FeeStatus(raw)
		status = &s
	}

	fees, err := ctrl.feeService.ListFees(c, scope, status)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(fees))
}

// ListOverdue lists overdue fees within the caller's scope
// @Summary List overdue fees
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Success 200 {object} dto.APIResponse{data=[]models.Fee}
// @Router /fees/overdue [get]
func (ctrl *FeeController) ListOverdue(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	status := models.FeeStatusOverdue
	fees, err := ctrl.feeService.ListFees(c, scope, &status)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(fees))
}

// Sweep flips past-due Pending fees to Overdue right now
// @Summary Sweep overdue fees
// @Description Marks every past-due Pending fee in the caller's scope as Overdue
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Success 200 {object} dto.APIResponse{data=dto.SweepResponse}
// @Router /fees/sweep [post]
func (ctrl *FeeController) Sweep(c *gin.Context) {
	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	count, err := ctrl.feeService.SweepNow(c, scope, user.Username)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SweepResponse{MarkedOverdue: count}))
}

// GetFee retrieves one fee
// @Summary Get a fee
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=models.Fee}
// @Failure 404 {object} dto.ErrorResponse
// @Router /fees/{id} [get]
func (ctrl *FeeController) GetFee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	fee, err := ctrl.feeService.GetFee(c, id, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(fee))
}

// UpdateFee changes the amount or due date of an unsettled fee
// @Summary Update a fee
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Param request body dto.UpdateFeeRequest true "Fee information"
// @Success 200 {object} dto.APIResponse{data=models.Fee}
// @Failure 409 {object} dto.ErrorResponse "Fee already paid"
// @Router /fees/{id} [put]
func (ctrl *FeeController) UpdateFee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	fee := &models.Fee{
		ID:      id,
		Amount:  req.Amount,
		DueDate: req.DueDate,
	}
	if err := ctrl.feeService.UpdateFee(c, fee, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(fee))
}

// PayFee settles a pending or overdue fee
// @Summary Mark a fee as paid
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=models.Fee}
// @Failure 409 {object} dto.ErrorResponse "Fee already paid"
// @Router /fees/{id}/pay [post]
func (ctrl *FeeController) PayFee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	fee, err := ctrl.feeService.MarkPaid(c, id, scope, user.Username)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(fee))
}

// RemindFee emails a payment reminder to the student
// @Summary Send a fee reminder
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 409 {object} dto.ErrorResponse "Fee already paid"
// @Router /fees/{id}/remind [post]
func (ctrl *FeeController) RemindFee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.feeService.SendReminder(c, id, scope); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Reminder sent"}))
}

// DeleteFee removes a fee
// @Summary Delete a fee
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /fees/{id} [delete]
func (ctrl *FeeController) DeleteFee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.feeService.DeleteFee(c, id, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Fee deleted successfully"}))
}
