package service

import "errors"

// Sentinel errors services return for state conflicts the handlers map
// to 409, as opposed to plain validation failures (400) and not-found
// lookups (404).
var (
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrNotDraft           = errors.New("invoice is not in draft status")
	ErrLastLineItem       = errors.New("an invoice must retain at least one line item")
	ErrNotPendingApproval = errors.New("entry is not pending approval")
	ErrBelowThreshold     = errors.New("period total is below the submission threshold")
	ErrThresholdExceeded  = errors.New("period total exceeds the submission threshold; manager submission required")
	ErrDraftSchema        = errors.New("draft payload schema version mismatch")
)
