package connection

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"domaintracker/src/helper/auth"
	"domaintracker/src/helper/i18n"
)

// MaxPageSize caps first and last.
const MaxPageSize = 100

// Window is a validated page request.
type Window struct {
	Limit    int
	Backward bool
}

// Validate checks the first/last pair of a connection request. Failures are
// logged as warnings and returned as localized errors before any I/O.
func Validate(ctx context.Context, logger *slog.Logger, loader string, nodeName string, first any, last any) (Window, error) {
	userKey := auth.UserKey(ctx)

	if first == nil && last == nil {
		logger.Warn("User did not have either `first` or `last` arguments set",
			"user_key", userKey,
			"loader", loader)
		return Window{}, newPaginationError(i18n.T(ctx, i18n.MsgPaginationMissing, nodeName))
	}

	if first != nil && last != nil {
		logger.Warn("User attempted to have `first` and `last` arguments set",
			"user_key", userKey,
			"loader", loader)
		return Window{}, newPaginationError(i18n.T(ctx, i18n.MsgPaginationBoth, nodeName))
	}

	param, value, backward := "first", first, false
	if first == nil {
		param, value, backward = "last", last, true
	}

	n, ok := amount(value)
	if !ok || math.IsNaN(n) {
		kind := typeName(value)
		logger.Warn("User attempted to have pagination argument set to a non-number",
			"user_key", userKey,
			"loader", loader,
			"argument", param,
			"type", kind)
		return Window{}, newPaginationTypeError(i18n.T(ctx, i18n.MsgPaginationType, param, kind))
	}

	if n < 0 {
		logger.Warn("User attempted to have pagination argument set below zero",
			"user_key", userKey,
			"loader", loader,
			"argument", param,
			"amount", n)
		return Window{}, newPaginationRangeError(i18n.T(ctx, i18n.MsgPaginationNegative, param, nodeName))
	}

	if n > MaxPageSize {
		logger.Warn("User attempted to have pagination argument set above the limit",
			"user_key", userKey,
			"loader", loader,
			"argument", param,
			"amount", n)
		return Window{}, newPaginationRangeError(i18n.T(ctx, i18n.MsgPaginationLimit,
			strconv.FormatFloat(n, 'f', -1, 64), nodeName, param, strconv.Itoa(MaxPageSize)))
	}

	return Window{Limit: int(n), Backward: backward}, nil
}
