package apperr

import (
	"errors"
	"net/http"
)

// Fault is an error that carries the HTTP status it should be rendered with.
type Fault struct {
	Status  int
	Message string
	Err     error
}

func New(status int, message string) *Fault {
	return &Fault{Status: status, Message: message}
}

func Wrap(status int, err error) *Fault {
	return &Fault{Status: status, Err: err}
}

func (f *Fault) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return http.StatusText(f.status())
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func (f *Fault) status() int {
	if f.Status == 0 {
		return http.StatusInternalServerError
	}
	return f.Status
}

// StatusOf returns the status carried by err, falling back to 500.
func StatusOf(err error) int {
	var f *Fault
	if errors.As(err, &f) {
		return f.status()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the text rendered in the {message} body.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}

	var f *Fault
	if errors.As(err, &f) {
		return f.Error()
	}
	return err.Error()
}
