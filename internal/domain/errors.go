package domain

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so a WithError copy still compares equal to
// its sentinel under errors.Is.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrPersonNotFound = &AppError{
		Code:       "PERSON_NOT_FOUND",
		Message:    "Person not found",
		StatusCode: 404,
	}

	ErrFaceNotFound = &AppError{
		Code:       "FACE_NOT_FOUND",
		Message:    "Face not found",
		StatusCode: 404,
	}

	ErrCollectionNotFound = &AppError{
		Code:       "COLLECTION_NOT_FOUND",
		Message:    "No own-face collection registered for account",
		StatusCode: 404,
	}

	// ErrDimensionMismatch indicates embeddings of different lengths were
	// compared. Always a caller bug, never retried.
	ErrDimensionMismatch = &AppError{
		Code:       "DIMENSION_MISMATCH",
		Message:    "Embedding dimensions do not match",
		StatusCode: 422,
	}

	// ErrDegenerateVector indicates a zero or near-zero norm embedding.
	ErrDegenerateVector = &AppError{
		Code:       "DEGENERATE_VECTOR",
		Message:    "Embedding has zero norm and cannot be normalized",
		StatusCode: 422,
	}

	// ErrInvalidMergeRequest covers a target listed in the sources, an
	// empty source list, or a nonexistent person id. Rejected before any
	// mutation.
	ErrInvalidMergeRequest = &AppError{
		Code:       "INVALID_MERGE_REQUEST",
		Message:    "Merge request is invalid",
		StatusCode: 422,
	}

	// ErrConsistencyViolation is fatal: a face was observed pointing at a
	// nonexistent person. The offending transaction must abort; the
	// reference is never silently repaired.
	ErrConsistencyViolation = &AppError{
		Code:       "CONSISTENCY_VIOLATION",
		Message:    "Face references a person that does not exist",
		StatusCode: 500,
	}

	ErrAccountAlreadyClaimed = &AppError{
		Code:       "ACCOUNT_ALREADY_CLAIMED",
		Message:    "Account already claims another person",
		StatusCode: 409,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Threshold must be between -1 and 1",
		StatusCode: 422,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}
)
