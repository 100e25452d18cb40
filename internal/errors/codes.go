package errors

// Code classifies an error
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Expected reports whether errors with this code describe a normal game
// outcome (a missing character, a closed shop) rather than a fault.
func (c Code) Expected() bool {
	switch c {
	case CodeNotFound, CodeInvalidArgument, CodeAlreadyExists,
		CodePermissionDenied, CodeFailedPrecondition, CodeCanceled:
		return true
	default:
		return false
	}
}
