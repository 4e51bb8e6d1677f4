// Package access holds errors raised when the storage service refuses
// the configured credentials.
package access

import (
	"github.com/timemore/publicstore/errors"
)

// Error is an abstract error type for all credential and
// permission-related errors returned by a storage service.
type Error interface {
	error
	AccessError() Error
}

// Msg creates an access error which wraps a simple message error.
func Msg(errMsg string) Error {
	return &errorWrap{errors.New(errMsg)}
}

// Wrap creates an access error which provides additional context to
// another error.
func Wrap(contextMsg string, causeErr error) Error {
	return &errorWrap{errors.Wrap(contextMsg, causeErr)}
}

// IsAccessError reports whether any error in err's chain is an access
// error.
func IsAccessError(err error) bool {
	var accessErr Error
	return errors.As(err, &accessErr)
}

type errorWrap struct {
	innerErr error
}

func (e *errorWrap) Error() string {
	if e != nil && e.innerErr != nil {
		return e.innerErr.Error()
	}
	return "access error"
}

func (e *errorWrap) Unwrap() error {
	if e != nil {
		return e.innerErr
	}
	return nil
}

func (e *errorWrap) AccessError() Error { return e }

var (
	_ Error              = &errorWrap{}
	_ errors.Unwrappable = &errorWrap{}
)
