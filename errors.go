package jsondiff

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Addressing errors
var (
	ErrMalformedPointer = errors.New("malformed pointer")
	ErrKeyNotFound      = errors.New("key not found")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrInvalidIndex     = errors.New("invalid array index")
	ErrNotContainer     = errors.New("not a container")
	ErrCannotDeleteRoot = errors.New("cannot delete document root")
)

// Patch document errors
var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrMissingField         = errors.New("missing field")
	ErrMoveIntoChild        = errors.New("cannot move a value into one of its own children")
	ErrInvalidValue         = errors.New("invalid document value")
)

// ErrTestFailed is the error TestFailedError matches with errors.Is. a failed
// test is an expected outcome of applying a patch, not malformed input
var ErrTestFailed = errors.New("test failed")

// PointerError describes a failure to resolve a pointer against a document
type PointerError struct {
	// one of the addressing errors
	Err error
	// Pointer is the pointer prefix up to & including the token that failed
	Pointer string
	// Token is the raw token that failed
	Token string
	// Index & Len are set for ErrIndexOutOfRange
	Index, Len int
}

// Error implements the error interface
func (e *PointerError) Error() string {
	ptr := e.Pointer
	if ptr == "" {
		ptr = "(root)"
	}
	switch e.Err {
	case ErrIndexOutOfRange:
		return fmt.Sprintf("%s at %s: index %d, length %d", e.Err, ptr, e.Index, e.Len)
	case ErrKeyNotFound, ErrInvalidIndex:
		return fmt.Sprintf("%s at %s: %q", e.Err, ptr, e.Token)
	default:
		return fmt.Sprintf("%s at %s", e.Err, ptr)
	}
}

// Unwrap returns the addressing error kind
func (e *PointerError) Unwrap() error {
	return e.Err
}

// OperationError reports which operation of a patch failed
type OperationError struct {
	// position of the operation within the patch
	Index int
	Op    OpType
	Err   error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("operation %d: %s", e.Index, e.Err)
	}
	return fmt.Sprintf("operation %d (%s): %s", e.Index, e.Op, e.Err)
}

// Unwrap returns the underlying failure
func (e *OperationError) Unwrap() error {
	return e.Err
}

// TestFailedError is returned when a test operation finds a value other than
// the expected one. it carries both values for reporting
type TestFailedError struct {
	Path     Path
	Expected interface{}
	Actual   interface{}
}

// Error implements the error interface
func (e *TestFailedError) Error() string {
	return fmt.Sprintf("test failed at %q: expected %s, got %s", e.Path.Pointer(), jsonString(e.Expected), jsonString(e.Actual))
}

// Is makes TestFailedError match ErrTestFailed
func (e *TestFailedError) Is(target error) bool {
	return target == ErrTestFailed
}

// IsTestFailure reports whether err is, or wraps, a failed test operation
func IsTestFailure(err error) bool {
	return errors.Is(err, ErrTestFailed)
}

func jsonString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
