package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict with current state")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned for unexpected storage or infrastructure failures.
var ErrInternal = errors.New("internal error")

// Ledger specific errors.
var (
	// ErrImbalancedEntry is returned when total debits differ from total credits.
	ErrImbalancedEntry = errors.New("entry is not balanced")
	// ErrReferentialIntegrity is returned when a change would break references held by posted lines.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	// ErrPeriodClosed is returned when a write targets a date inside a closed period.
	ErrPeriodClosed = errors.New("period is closed")
	// ErrPrecedingMonthsOpen is returned when a year close is attempted before every month is closed.
	ErrPrecedingMonthsOpen = errors.New("preceding months are still open")
	// ErrAlreadyReversed is returned when reversing an entry that is no longer reversible.
	ErrAlreadyReversed = errors.New("entry already reversed or cancelled")
	// ErrIntegrityViolation is returned when the hash chain or its audit mirror does not verify.
	ErrIntegrityViolation = errors.New("integrity chain violation")
	// ErrReconciliationMismatch is returned when completing a reconciliation whose difference is not zero.
	ErrReconciliationMismatch = errors.New("reconciliation difference is not zero")
	// ErrReconciliationConflict is returned when a match would break the 1:1 pairing or amount rules.
	ErrReconciliationConflict = errors.New("reconciliation match conflict")
)

// AppError carries an HTTP status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError builds an AppError. A nil cause on a 5xx code is replaced by ErrInternal
// so that errors.Is(err, ErrInternal) holds for every server side failure.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil && code >= http.StatusInternalServerError {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the name of the missing resource.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

// IntegrityViolation describes the first entry at which the hash chain stopped verifying.
type IntegrityViolation struct {
	TempleID    string `json:"templeID"`
	EntryID     string `json:"entryID"`
	EntryNumber int64  `json:"entryNumber"`
	ChainSeq    int64  `json:"chainSeq"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Reason      string `json:"reason"`
}

func (v *IntegrityViolation) Error() string {
	return fmt.Sprintf("integrity violation at entry %s (seq %d): %s: expected %q, got %q",
		v.EntryID, v.ChainSeq, v.Reason, v.Expected, v.Actual)
}

// Is lets errors.Is(err, ErrIntegrityViolation) match a typed violation.
func (v *IntegrityViolation) Is(target error) bool {
	return target == ErrIntegrityViolation
}

// HTTPStatus maps an error to the status code handlers should answer with.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrImbalancedEntry):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrReferentialIntegrity),
		errors.Is(err, ErrPeriodClosed),
		errors.Is(err, ErrPrecedingMonthsOpen),
		errors.Is(err, ErrAlreadyReversed),
		errors.Is(err, ErrReconciliationMismatch),
		errors.Is(err, ErrReconciliationConflict):
		return http.StatusConflict
	case errors.Is(err, ErrIntegrityViolation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &appErr):
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
