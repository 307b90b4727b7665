package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/app/services"
	"github.com/devrim/hostelhub/internal/middleware"
)

// StudentController handles student endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// CreateStudent admits a student, optionally placing them into a room
// @Summary Admit a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 409 {object} dto.ErrorResponse "Duplicate identifier or room at capacity"
// @Router /students [post]
func (ctrl *StudentController) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	student := &models.Student{
		Name:                 req.Name,
		StudentIDNumber:      req.StudentIDNumber,
		Contact:              req.Contact,
		Email:                req.Email,
		AdmissionDate:        req.AdmissionDate,
		ExpectedCheckoutDate: req.ExpectedCheckoutDate,
		Course:               req.Course,
		RoomID:               req.RoomID,
		HostelID:             req.HostelID,
	}
	if req.Details != nil {
		student.Details = req.Details.ToModel(0)
	}

	if err := ctrl.studentService.CreateStudent(c, student, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(student))
}

// ListStudents lists students within the caller's scope
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /students [get]
func (ctrl *StudentController) ListStudents(c *gin.Context) {
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	students, err := ctrl.studentService.ListStudents(c, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(students))
}

// GetStudent retrieves one student with their extended profile
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [get]
func (ctrl *StudentController) GetStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	student, err := ctrl.studentService.GetStudent(c, id, scope)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// UpdateStudent changes a student's personal information. Room
// placement is handled by the transfer endpoint.
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [put]
func (ctrl *StudentController) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	student := &models.Student{
		ID:                   id,
		Name:                 req.Name,
		StudentIDNumber:      req.StudentIDNumber,
		Contact:              req.Contact,
		Email:                req.Email,
		AdmissionDate:        req.AdmissionDate,
		ExpectedCheckoutDate: req.ExpectedCheckoutDate,
		Course:               req.Course,
	}
	if req.Details != nil {
		student.Details = req.Details.ToModel(id)
	}

	if err := ctrl.studentService.UpdateStudent(c, student, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// TransferRoom moves a student to another room, or checks them out of
// any room when roomId is null
// @Summary Transfer a student between rooms
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.TransferRoomRequest true "Target room, null to check out"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 409 {object} dto.ErrorResponse "Target room at capacity"
// @Router /students/{id}/room [put]
func (ctrl *StudentController) TransferRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.TransferRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	student, err := ctrl.studentService.TransferRoom(c, id, req.RoomID, scope, user.Username)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// UpdateDetails upserts a student's extended profile
// @Summary Update student details
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.StudentDetailsRequest true "Extended profile"
// @Success 200 {object} dto.APIResponse{data=models.StudentDetails}
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id}/details [put]
func (ctrl *StudentController) UpdateDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.StudentDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, _, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	details := req.ToModel(id)
	if err := ctrl.studentService.UpdateDetails(c, id, details, scope); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(details))
}

// DeleteStudent removes a student, freeing their room spot
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [delete]
func (ctrl *StudentController) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	scope, user, err := resolveScope(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.studentService.DeleteStudent(c, id, scope, user.Username); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deleted successfully"}))
}
