package gateway

import "errors"

// Machine-readable provider error codes recognized by FromCode.
const (
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeEmailNotFound   = "EMAIL_NOT_FOUND"
	CodeInvalidPassword = "INVALID_PASSWORD"
)

const (
	msgUnknown         = "An unknown error occurred!"
	msgEmailExists     = "This email exists already!"
	msgEmailNotFound   = "This email does not exist!"
	msgInvalidPassword = "Password was invalid!"
)

// Failure is a normalized provider rejection. It carries exactly one
// human-readable message; the provider code is kept for logging only.
type Failure struct {
	Code    string // empty when the provider sent no recognizable code
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Unknown is the failure used when nothing more specific is known:
// transport errors, missing error bodies, unrecognized codes.
func Unknown() *Failure {
	return &Failure{Message: msgUnknown}
}

// FromCode maps a provider error code to a normalized Failure.
// Unrecognized or empty codes map to the unknown failure.
func FromCode(code string) *Failure {
	msg := msgUnknown

	switch code {
	case CodeEmailExists:
		msg = msgEmailExists
	case CodeEmailNotFound:
		msg = msgEmailNotFound
	case CodeInvalidPassword:
		msg = msgInvalidPassword
	}

	return &Failure{Code: code, Message: msg}
}

// Normalize converts any gateway error into a Failure, so callers can
// report a single message without branching on error shape.
func Normalize(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Unknown()
}
