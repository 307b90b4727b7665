package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
)

// UserController handles manager account endpoints (owner only)
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// CreateManager creates a manager account
// @Summary Create a manager
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateManagerRequest true "Manager account"
// @Success 201 {object} dto.APIResponse{data=models.User}
// @Failure 409 {object} dto.ErrorResponse "Username taken"
// @Router /users/managers [post]
func (ctrl *UserController) CreateManager(c *gin.Context) {
	var req dto.CreateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		HostelID: &req.HostelID,
	}
	if err := ctrl.userService.CreateManager(c, user, req.Password); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(user))
}

// ListManagers lists all manager accounts
// @Summary List managers
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Router /users/managers [get]
func (ctrl *UserController) ListManagers(c *gin.Context) {
	managers, err := ctrl.userService.ListManagers(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(managers))
}

// UpdateManager modifies a manager account
// @Summary Update a manager
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateManagerRequest true "Manager account"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Router /users/managers/{id} [put]
func (ctrl *UserController) UpdateManager(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user := &models.User{
		ID:       id,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		HostelID: &req.HostelID,
	}
	if err := ctrl.userService.UpdateManager(c, user, req.Password); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// DeleteManager removes a manager account
// @Summary Delete a manager
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /users/managers/{id} [delete]
func (ctrl *UserController) DeleteManager(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	requester, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	if err := ctrl.userService.DeleteManager(c, id, requester.ID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Manager deleted"}))
}
