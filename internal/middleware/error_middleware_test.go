package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

func handleOnTestContext(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleAPIError(c, err)
	return w
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found or denied", apperrors.ErrNotFoundOrDenied, 404},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401},
		{"expired token", apperrors.ErrTokenExpired, 401},
		{"permission denied", apperrors.ErrPermissionDenied, 403},
		{"manager without hostel", apperrors.ErrManagerWithoutHostel, 403},
		{"duplicate username", apperrors.ErrUsernameExists, 409},
		{"fee already paid", apperrors.ErrFeeAlreadyPaid, 409},
		{"room at capacity", apperrors.ErrRoomAtCapacity, 409},
		{"capacity below occupancy", apperrors.ErrCapacityBelowOccupancy, 400},
		{"validation failure", apperrors.NewValidationError("bad input"), 400},
		{"transient store", apperrors.ErrTransientStore, 503},
		{"unknown error", fmt.Errorf("something odd"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := handleOnTestContext(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleAPIErrorMatchesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("student 12: %w", apperrors.ErrNotFoundOrDenied)

	w := handleOnTestContext(t, wrapped)

	assert.Equal(t, 404, w.Code)
}
