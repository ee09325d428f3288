package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"
)

// conflictOrBadRequest maps workflow violations to 409 and everything
// else to 400.
func conflictOrBadRequest(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotDraft),
		errors.Is(err, service.ErrNotPendingApproval),
		errors.Is(err, service.ErrLastLineItem):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// gateStatus maps submission gate failures to 422 so a client can show
// the gate result rather than a generic validation error.
func gateStatus(err error) int {
	if errors.Is(err, service.ErrBelowThreshold) || errors.Is(err, service.ErrThresholdExceeded) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
