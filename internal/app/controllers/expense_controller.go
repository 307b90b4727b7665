package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// ExpenseController handles expense endpoints
type ExpenseController struct {
	expenseService *services.ExpenseService
}

// NewExpenseController creates a new ExpenseController
func NewExpenseController(expenseService *services.ExpenseService) *ExpenseController {
	return &ExpenseController{expenseService: expenseService}
}

func expenseFromRequest(req *dto.ExpenseRequest) *models.Expense {
	return &models.Expense{
		Description:   req.Description,
		Amount:        req.Amount,
		ExpenseDate:   req.ExpenseDate,
		Category:      req.Category,
		ExpenseType:   req.ExpenseType,
		VendorName:    req.VendorName,
		ReceiptNumber: req.ReceiptNumber,
		PaymentMethod: req.PaymentMethod,
		ApprovedBy:    req.ApprovedBy,
		Notes:         req.Notes,
		HostelID:      req.HostelID,
	}
}

// CreateExpense records an operational expense
// @Summary Create an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ExpenseRequest true "Expense information"
// @Success 201 {object} dto.APIResponse{data=models.Expense}
// @Failure 400 {object} dto.ErrorResponse "Unknown category or type"
// @Router /expenses [post]
func (ctrl *ExpenseController) CreateExpense(c *gin.Context) {
	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	expense := expenseFromRequest(&req)
	if err := ctrl.expenseService.CreateExpense(c, expense, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(expense))
}

// ListExpenses lists expenses within the caller's scope
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Param category query string false "Filter by category"
// @Success 200 {object} dto.APIResponse{data=[]models.Expense}
// @Router /expenses [get]
func (ctrl *ExpenseController) ListExpenses(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	expenses, err := ctrl.expenseService.ListExpenses(c, scope, c.Query("category"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(expenses))
}

// GetExpense retrieves one expense
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} dto.APIResponse{data=models.Expense}
// @Failure 404 {object} dto.ErrorResponse
// @Router /expenses/{id} [get]
func (ctrl *ExpenseController) GetExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	expense, err := ctrl.expenseService.GetExpense(c, id, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(expense))
}

// UpdateExpense changes an expense
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param request body dto.ExpenseRequest true "Expense information"
// @Success 200 {object} dto.APIResponse{data=models.Expense}
// @Failure 404 {object} dto.ErrorResponse
// @Router /expenses/{id} [put]
func (ctrl *ExpenseController) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	expense := expenseFromRequest(&req)
	expense.ID = id
	if err := ctrl.expenseService.UpdateExpense(c, expense, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(expense))
}

// MonthTotal sums expenses for one calendar month
// @Summary Monthly expense total
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Param year query int false "Calendar year, defaults to current"
// @Param month query int false "Month 1-12, defaults to current"
// @Success 200 {object} dto.APIResponse{data=dto.MonthTotalResponse}
// @Router /expenses/month-total [get]
func (ctrl *ExpenseController) MonthTotal(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if raw := c.Query("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			middleware.HandleAPIError(c, apperrors.NewValidationError("year must be a number"))
			return
		}
	}
	if raw := c.Query("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			middleware.HandleAPIError(c, apperrors.NewValidationError("month must be a number"))
			return
		}
	}

	total, err := ctrl.expenseService.MonthTotal(c, scope, year, month)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.MonthTotalResponse{
		Year:  year,
		Month: month,
		Total: total,
	}))
}

// DeleteExpense removes an expense
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /expenses/{id} [delete]
func (ctrl *ExpenseController) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.expenseService.DeleteExpense(c, id, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Expense deleted successfully"}))
}
