// Package ctxhelper provides helper functions for working with the context
package ctxhelper

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var (
	// KeyLogger is the context key for storing the logger in the context
	KeyLogger = ctxKey("logger")
	// KeyRequestID is the context key for storing the ID of the current HTTP request
	KeyRequestID = ctxKey("requestId")
)

// internal context key
type ctxKey string

// Logger returns the logger from the current context. If no logger is available, it panics
func Logger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(KeyLogger).(*logrus.Entry)
	if ok {
		return logger
	}
	panic("No logger in context")
}

// LoggerOr returns the logger from the current context or the fallback logger if the context carries none
func LoggerOr(ctx context.Context, fallback *logrus.Entry) *logrus.Entry {
	if logger, ok := ctx.Value(KeyLogger).(*logrus.Entry); ok {
		return logger
	}
	return fallback
}

// RequestID returns the ID of the current request or an empty string
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}
