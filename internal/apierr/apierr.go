package apierr

import (
  "errors"
  "fmt"
  "net/http"
)

// Error is the error shape services hand back to the transport layer. The
// HTTP boundary maps Status onto the response code; everything else a
// service returns is treated as a 500.
type Error struct {
  Status int
  Code   string
  Err    error
}

func (e *Error) Error() string {
  if e == nil {
    return ""
  }
  if e.Err != nil {
    return e.Err.Error()
  }
  if e.Code != "" {
    return e.Code
  }
  if e.Status != 0 {
    return fmt.Sprintf("api error (%d)", e.Status)
  }
  return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
  return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
  return New(http.StatusBadRequest, "validation", fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
  return New(http.StatusNotFound, "not_found", fmt.Errorf(format, args...))
}

func PermissionDenied(permission string) *Error {
  return New(http.StatusForbidden, "permission_denied", fmt.Errorf("Permission denied: %s", permission))
}

func Storage(err error) *Error {
  return New(http.StatusInternalServerError, "storage", err)
}

// Wrap keeps an existing *Error intact and downgrades anything else to a
// storage error, so repo failures surface as 500s without each caller
// re-classifying them.
func Wrap(err error) error {
  if err == nil {
    return nil
  }
  var ae *Error
  if errors.As(err, &ae) {
    return ae
  }
  return Storage(err)
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
  var ae *Error
  if errors.As(err, &ae) && ae.Status != 0 {
    return ae.Status
  }
  return http.StatusInternalServerError
}
