package errors

import (
	"github.com/timemore/publicstore/errors"
)

type Error interface {
	error
	ApplicationError() Error
}

// Configuration is returned when the process cannot proceed with the
// configuration it was given, e.g. a missing bucket or rejected
// credentials.
type Configuration interface {
	Error
	ConfigurationError() Configuration
}

type configurationWrap struct {
	innerErr error
}

func (e *configurationWrap) Error() string {
	if e != nil && e.innerErr != nil {
		return "configuration: " + e.innerErr.Error()
	}
	return "configuration error"
}

func (e *configurationWrap) Unwrap() error {
	if e != nil {
		return e.innerErr
	}
	return nil
}

func (e *configurationWrap) ApplicationError() Error           { return e }
func (e *configurationWrap) ConfigurationError() Configuration { return e }

func NewConfiguration(innerErr error) Configuration {
	return &configurationWrap{innerErr}
}

// IsConfiguration reports whether any error in err's chain is a
// configuration error.
func IsConfiguration(err error) bool {
	var cfgErr Configuration
	return errors.As(err, &cfgErr)
}

var _ Configuration = &configurationWrap{}
