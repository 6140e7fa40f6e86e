package ocrbot

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// The codes drive the user-facing reply policy: ENOTEXT and EUNSUPPORTED
// describe expected input and are reported as plain information; the rest
// are failures that are logged and apologized for.
const (
	EDECODE      = "decode"      // bytes are not a decodable image
	EEXPORT      = "export"      // rendering or writing an export file failed
	EINTERNAL    = "internal"    // anything not otherwise classified
	EINVALID     = "invalid"     // validation failed
	ENOTEXT      = "no_text"     // well-formed input with no extractable content
	ENOTFOUND    = "not_found"   // entity does not exist
	EPARSE       = "parse"       // malformed PDF or XML container
	ERECOGNITION = "recognition" // OCR engine or provider failure
	EUNSUPPORTED = "unsupported" // file type outside the accepted set
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the application error codes above.
	Code string
	// Message is a human-readable description safe to show to the user.
	Message string
}

// Error implements the error interface. Not intended for end users; use
// ErrorMessage for user-facing text.
func (e *Error) Error() string {
	return fmt.Sprintf("ocrbot error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper to construct an Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL; nil returns the empty
// string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error."; nil returns the
// empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
