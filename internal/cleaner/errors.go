package cleaner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrNotSafe is returned when deletion is requested for something not
// flagged safe to delete. Nothing on disk is touched in that case.
var ErrNotSafe = errors.New("not flagged safe to delete")

// ErrorReason categorizes why a deletion failed.
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorNotFound
	ErrorProtectedPath
	ErrorUnknown
)

// String returns a human-readable error reason.
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "permission denied"
	case ErrorFileInUse:
		return "file is in use"
	case ErrorNotFound:
		return "not found"
	case ErrorProtectedPath:
		return "protected path"
	case ErrorUnknown:
		return "unknown error"
	default:
		return "unspecified error"
	}
}

// DeletionError records one failed removal with enough context to tell the
// user what went wrong and whether retrying could help.
type DeletionError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

func (e *DeletionError) Unwrap() error {
	return e.Original
}

// CategorizeError maps a raw removal error onto the deletion taxonomy.
func CategorizeError(path string, err error) *DeletionError {
	if err == nil {
		return nil
	}

	delErr := &DeletionError{Path: path, Original: err, Reason: ErrorUnknown}

	if os.IsNotExist(err) {
		delErr.Reason = ErrorNotFound
		return delErr
	}
	if os.IsPermission(err) {
		delErr.Reason = ErrorPermissionDenied
		return delErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			delErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			delErr.Reason = ErrorFileInUse
			delErr.Retryable = true
		case syscall.ENOENT:
			delErr.Reason = ErrorNotFound
		}
	}
	return delErr
}

// GroupErrors groups deletion errors by reason.
func GroupErrors(errs []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}
