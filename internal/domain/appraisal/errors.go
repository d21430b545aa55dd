package appraisal

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("submission not valid for current status")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
)
