package services

import "fmt"

// ValidationError marks a request with missing or malformed required fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError marks a referenced entity that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// RateLimitError marks a request rejected by the social-interaction daily cap.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return e.Message }

// DataStoreError wraps an underlying database failure.
type DataStoreError struct {
	Op  string
	Err error
}

func (e *DataStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataStoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &DataStoreError{Op: op, Err: err}
}
