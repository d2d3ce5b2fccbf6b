package retouch

import (
	"errors"
	"fmt"

	"github.com/gogpu/retouch/history"
)

// Session errors.
var (
	// ErrBusy is returned when a destructive operation is already pending
	// on the session. The rejected call has no effect.
	ErrBusy = errors.New("retouch: operation in progress")

	// ErrEmptyHistory is returned by operations that need a current image
	// before one has been loaded.
	ErrEmptyHistory = history.ErrEmpty

	// ErrExternalOperation is matched by every collaborator failure.
	ErrExternalOperation = errors.New("retouch: external operation failed")

	// ErrNotConfigured is returned (inside an ExternalOperationError) when a
	// collaborator is required but none was configured.
	ErrNotConfigured = errors.New("retouch: collaborator not configured")

	// ErrOperationPanicked is matched by an OperationPanicError.
	ErrOperationPanicked = errors.New("retouch: operation panicked")

	// ErrStickerNotFound is returned for an unknown sticker ID.
	ErrStickerNotFound = errors.New("retouch: sticker not found")
)

// ExternalOperationError reports a failed call to a Transformer, or an
// unusable result from one. It matches ErrExternalOperation with errors.Is.
type ExternalOperationError struct {
	Op  string
	Err error
}

func (e *ExternalOperationError) Error() string {
	return fmt.Sprintf("retouch: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExternalOperationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrExternalOperation.
func (e *ExternalOperationError) Is(target error) bool {
	return target == ErrExternalOperation
}

// OperationPanicError reports a destructive operation that panicked. The
// session history is unchanged and the session accepts new operations.
type OperationPanicError struct {
	Op    string
	Value any
}

func (e *OperationPanicError) Error() string {
	return fmt.Sprintf("retouch: %s panicked: %v", e.Op, e.Value)
}

// Is reports whether target is ErrOperationPanicked.
func (e *OperationPanicError) Is(target error) bool {
	return target == ErrOperationPanicked
}
