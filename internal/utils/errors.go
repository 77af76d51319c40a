package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application errors so handlers can map them to HTTP
// status codes without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindConfig
)

// AppError is the error type returned by services. Message is safe to show
// to API callers.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Validation builds a 400-class error.
func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a 404-class error.
func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Auth builds a 401-class error.
func Auth(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

// Config builds a 500-class error for server misconfiguration.
func Config(message string) *AppError {
	return &AppError{Kind: KindConfig, Message: message}
}

// Unknown wraps an unexpected failure, keeping the cause for logs.
func Unknown(err error, message string) *AppError {
	return &AppError{Kind: KindUnknown, Message: message, Err: err}
}

// KindOf extracts the error kind, defaulting to unknown.
func KindOf(err error) ErrorKind {
	var app *AppError
	if errors.As(err, &app) {
		return app.Kind
	}
	return KindUnknown
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Message
	}
	return "Server error"
}
