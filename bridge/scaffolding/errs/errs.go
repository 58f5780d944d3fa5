// Package errs provides types and support related to web error
// functionality.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode represents an error code in the system.
type ErrCode struct {
	value int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return codeNames[ec.value]
}

var (
	OK                 = ErrCode{value: 0}
	InvalidArgument    = ErrCode{value: 1}
	Unauthenticated    = ErrCode{value: 2}
	PermissionDenied   = ErrCode{value: 3}
	NotFound           = ErrCode{value: 4}
	Conflict           = ErrCode{value: 5}
	FailedPrecondition = ErrCode{value: 6}
	Internal           = ErrCode{value: 7}
	InternalOnlyLog    = ErrCode{value: 8}
)

var codeNames = map[int]string{
	0: "ok",
	1: "invalid_argument",
	2: "unauthenticated",
	3: "permission_denied",
	4: "not_found",
	5: "conflict",
	6: "failed_precondition",
	7: "internal",
	8: "internal_only_log",
}

var httpStatus = map[int]int{
	0: http.StatusOK,
	1: http.StatusBadRequest,
	2: http.StatusUnauthorized,
	3: http.StatusForbidden,
	4: http.StatusNotFound,
	5: http.StatusConflict,
	6: http.StatusUnprocessableEntity,
	7: http.StatusInternalServerError,
	8: http.StatusInternalServerError,
}

// Error represents an error in the system.
type Error struct {
	Code     ErrCode `json:"code"`
	Message  string  `json:"message"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on an error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus implements the web package status interface.
func (e *Error) HTTPStatus() int {
	status, ok := httpStatus[e.Code.value]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

// Encode implements the web.Encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	type response struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	data, err := json.Marshal(response{
		Code:    e.Code.String(),
		Message: e.Message,
	})
	return data, "application/json", err
}

// IsError tests whether the underlying error is an *errs.Error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// GetError extracts the *errs.Error from err, or wraps it as Internal.
func GetError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(Internal, err)
}
