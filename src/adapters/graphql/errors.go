package graphqladapter

import (
	"context"
	"fmt"
	"log/slog"

	"domaintracker/src/helper/i18n"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeAuthentication = "AUTHENTICATION_ERROR"
)

// queryError is a localized message safe to show to the caller.
type queryError struct {
	message string
	code    string
}

func (e *queryError) Error() string {
	return e.message
}

func (e *queryError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func newNotFoundError(ctx context.Context, noun string) error {
	return &queryError{message: i18n.T(ctx, i18n.MsgNotFound, i18n.T(ctx, noun)), code: CodeNotFound}
}

func newAuthenticationError(ctx context.Context) error {
	return &queryError{message: i18n.T(ctx, i18n.MsgAuthentication), code: CodeAuthentication}
}

// panicLogger reports resolver panics through slog instead of the
// standard logger graphql-go defaults to.
type panicLogger struct {
	logger *slog.Logger
}

func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.ErrorContext(ctx, "Resolver panicked", "panic", fmt.Sprint(value))
}
