package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError wraps a value recovered from a panic during a poll
type PanicError struct {
	Value      interface{}
	Stacktrace string
}

// Error implements the error interface
func (p *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", p.Value)
}

// RecoverPanic must be called directly from a deferred function. It stores
// the recovered panic, if any, into *errp so the caller can return it.
//
//	func poll() (err error) {
//		defer errors.RecoverPanic(&err)
//		...
//	}
func RecoverPanic(errp *error) {
	if r := recover(); r != nil {
		*errp = &PanicError{
			Value:      r,
			Stacktrace: string(debug.Stack()),
		}
	}
}

// FormatPanicForLog returns a formatted string suitable for logging
func FormatPanicForLog(panicErr *PanicError) string {
	return fmt.Sprintf("PANIC: %v\n\nStack Trace:\n%s", panicErr.Value, panicErr.Stacktrace)
}
