package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
)

// RoomController handles room endpoints
type RoomController struct {
	roomService *services.RoomService
}

// NewRoomController creates a new RoomController
func NewRoomController(roomService *services.RoomService) *RoomController {
	return &RoomController{roomService: roomService}
}

// CreateRoom adds a room to a hostel
// @Summary Create a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoomRequest true "Room information"
// @Success 201 {object} dto.APIResponse{data=models.Room}
// @Failure 409 {object} dto.ErrorResponse "Room number taken in hostel"
// @Router /rooms [post]
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	room := &models.Room{
		RoomNumber: req.RoomNumber,
		Capacity:   req.Capacity,
		Status:     models.RoomStatusAvailable,
		HostelID:   req.HostelID,
	}
	if err := ctrl.roomService.CreateRoom(c, room, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(room))
}

// ListRooms lists rooms within the caller's scope
// @Summary List rooms
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Param available query bool false "Only rooms with free spots"
// @Success 200 {object} dto.APIResponse{data=[]models.Room}
// @Router /rooms [get]
func (ctrl *RoomController) ListRooms(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var rooms []models.Room
	if c.Query("available") == "true" {
		rooms, err = ctrl.roomService.ListAvailableRooms(c, scope)
	} else {
		rooms, err = ctrl.roomService.ListRooms(c, scope)
	}
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(rooms))
}

// ListAvailable lists rooms that can take another student
// @Summary List available rooms
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Success 200 {object} dto.APIResponse{data=[]models.Room}
// @Router /rooms/available [get]
func (ctrl *RoomController) ListAvailable(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	rooms, err := ctrl.roomService.ListAvailableRooms(c, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(rooms))
}

// GetRoom retrieves one room
// @Summary Get room by ID
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} dto.APIResponse{data=models.Room}
// @Failure 404 {object} dto.ErrorResponse "Not found or not visible"
// @Router /rooms/{id} [get]
func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	room, err := ctrl.roomService.GetRoom(c, id, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(room))
}

// UpdateRoom modifies a room's number, capacity or status
// @Summary Update a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Room changes"
// @Success 200 {object} dto.APIResponse{data=models.Room}
// @Failure 400 {object} dto.ErrorResponse "Capacity below current occupancy"
// @Router /rooms/{id} [put]
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	room := &models.Room{
		ID:         id,
		RoomNumber: req.RoomNumber,
		Capacity:   req.Capacity,
		Status:     req.Status,
	}
	updated, err := ctrl.roomService.UpdateRoom(c, room, scope, user.Username)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(updated))
}

// BulkUpdateStatus sets a status on many rooms at once
// @Summary Bulk update room status
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkRoomStatusRequest true "Room IDs and status"
// @Success 200 {object} dto.APIResponse{data=map[string]int64}
// @Router /rooms/bulk-status [post]
func (ctrl *RoomController) BulkUpdateStatus(c *gin.Context) {
	var req dto.BulkRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	updated, err := ctrl.roomService.BulkUpdateStatus(c, req.RoomIDs, req.Status, scope, user.Username)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(map[string]int64{"updated": updated}))
}

// DeleteRoom removes an empty room
// @Summary Delete a room
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 409 {object} dto.ErrorResponse "Room has occupants"
// @Router /rooms/{id} [delete]
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.roomService.DeleteRoom(c, id, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Room deleted"}))
}
