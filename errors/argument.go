package errors

// ArgumentError is returned when a caller passed an unusable value,
// typically a configuration field.
type ArgumentError interface {
	ArgumentName() string
}

func ArgMsg(argName, errMsg string) error {
	return &argumentError{entityError{
		identifier: argName,
		err:        Msg(errMsg),
	}}
}

func ArgWrap(argName, contextMessage string, err error) error {
	return &argumentError{entityError{
		identifier: argName,
		err:        Wrap(contextMessage, err),
	}}
}

// IsArgumentError reports whether any error in err's chain is an
// argument error.
func IsArgumentError(err error) bool {
	var argErr ArgumentError
	return As(err, &argErr)
}

type argumentError struct {
	entityError
}

var (
	_ error         = &argumentError{}
	_ Unwrappable   = &argumentError{}
	_ CallError     = &argumentError{}
	_ EntityError   = &argumentError{}
	_ ArgumentError = &argumentError{}
)

func (e argumentError) ArgumentName() string {
	return e.entityError.identifier
}

func (argumentError) CallError() {}

func (e argumentError) Error() string {
	var errMsg string
	if e.err != nil {
		errMsg = e.err.Error()
	}
	if e.identifier != "" {
		if errMsg != "" {
			return "arg " + e.identifier + ": " + errMsg
		}
		return "arg " + e.identifier + " invalid"
	}
	if errMsg != "" {
		return "arg " + errMsg
	}
	return "invalid arg"
}
