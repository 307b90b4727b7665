package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/models/dto"
	"github.com/devrim/hostelhub/internal/middleware"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// resolveScope derives the caller's tenant scope from the JWT claims and
// the optional hostel_id query parameter. Managers are pinned to their own
// hostel regardless of the parameter; owners may narrow to one hostel.
func resolveScope(c *gin.Context) (auth.AccessScope, *models.User, error) {
	user, ok := middleware.PrincipalFrom(c)
	if !ok {
		return auth.AccessScope{}, nil, apperrors.ErrPermissionDenied
	}

	var requested *int64
	if raw := c.Query("hostel_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return auth.AccessScope{}, nil, apperrors.NewValidationError("hostel_id must be a number")
		}
		requested = &id
	}

	scope, err := auth.Resolve(user, requested)
	if err != nil {
		return auth.AccessScope{}, nil, err
	}
	return scope, user, nil
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID")
		errorDetail = errorDetail.WithDetails("ID must be a positive number")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindError responds with a validation error for a malformed request body
func bindError(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
	errorDetail = errorDetail.WithDetails(err.Error())
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
