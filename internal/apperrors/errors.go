package apperrors

import "errors"

// ErrNotFound indicates that a requested record could not be found upstream or in cache.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that form input failed schema validation. Field-level
// detail travels as a schema.Errors value alongside this sentinel.
var ErrValidation = errors.New("validation error")

// ErrUpload indicates a staged asset failed to upload. Non-fatal: the
// submission proceeds with the prior asset URL.
var ErrUpload = errors.New("asset upload failed")

// ErrSubmission indicates the upstream write call failed. The attempt is over;
// form state is preserved so the user can resubmit.
var ErrSubmission = errors.New("submission failed")

// ErrConflictNoop indicates a requested change matches the current state
// (e.g. setting a status to its present value). Not a failure; no call is made.
var ErrConflictNoop = errors.New("requested change is a no-op")

// ErrSubmissionInFlight indicates a submit was attempted while another
// submission for the same record instance is still running.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrDeleteNotConfirmed indicates a delete was attempted without a matching
// pending confirmation.
var ErrDeleteNotConfirmed = errors.New("delete has no pending confirmation")
