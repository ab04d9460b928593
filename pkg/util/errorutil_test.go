package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		err        error
		code       string
		httpStatus int
	}{
		{NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewMissingInput("comment"), "MISSING_INPUT", http.StatusBadRequest},
		{NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewForbidden("not allowed"), "FORBIDDEN", http.StatusForbidden},
		{NewNotFound("report", nil), "NOT_FOUND", http.StatusNotFound},
		{NewInvalidTransition("pending", "resolved"), "INVALID_TRANSITION", http.StatusConflict},
		{NewConflict("stale version", nil), "CONFLICT", http.StatusConflict},
		{NewBackendUnavailable(errors.New("redis down")), "BACKEND_UNAVAILABLE", http.StatusServiceUnavailable},
		{NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			var domainErr *DomainError
			require.ErrorAs(t, tc.err, &domainErr)
			assert.Equal(t, tc.code, domainErr.Code)
			assert.Equal(t, tc.httpStatus, domainErr.HTTPStatus)
			assert.True(t, IsCode(tc.err, tc.code))
		})
	}
}

func TestInvalidTransitionDetails(t *testing.T) {
	var domainErr *DomainError
	require.ErrorAs(t, NewInvalidTransition("pending", "resolved"), &domainErr)
	assert.Equal(t, "pending", domainErr.Details["from"])
	assert.Equal(t, "resolved", domainErr.Details["to"])
	assert.Contains(t, domainErr.Error(), "pending")
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	cause := errors.New("pgx: connection refused")
	domainErr := ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.ErrorIs(t, domainErr, cause)
}

func TestToDomainErrorPreservesWrapped(t *testing.T) {
	inner := NewForbidden("nope")
	wrapped := fmt.Errorf("list reports: %w", inner)

	domainErr := ToDomainError(wrapped)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.False(t, IsCode(errors.New("plain"), "FORBIDDEN"))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
}
