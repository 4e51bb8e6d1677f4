package errors

// CallError marks errors caused by the caller rather than by the
// storage service.
type CallError interface {
	error
	CallError()
}

func IsCallError(e error) bool {
	var v CallError
	return As(e, &v) && v != nil
}
