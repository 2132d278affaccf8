package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{err: Invalid("x"), want: http.StatusBadRequest},
		{err: NotFound("x"), want: http.StatusNotFound},
		{err: Conflict("x"), want: http.StatusConflict},
		{err: Unauthorized("x"), want: http.StatusUnauthorized},
		{err: Internal("x"), want: http.StatusInternalServerError},
		{err: errors.New("raw"), want: http.StatusInternalServerError},
		{err: fmt.Errorf("wrapped: %w", NotFound("x")), want: http.StatusNotFound},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
	}
}

func TestBodyHidesNonAPIErrors(t *testing.T) {
	body := Body(errors.New("dial tcp 127.0.0.1:3306: connection refused"))
	dto, ok := body.(errorDTO)
	assert.True(t, ok)
	assert.Equal(t, CodeInternal, dto.Error.Code)
	assert.NotContains(t, dto.Error.Message, "3306")
}

func TestBodyKeepsAPIErrors(t *testing.T) {
	body := Body(Conflict("book unavailable"))
	dto, ok := body.(errorDTO)
	assert.True(t, ok)
	assert.Equal(t, CodeConflict, dto.Error.Code)
	assert.Equal(t, "book unavailable", dto.Error.Message)
}
