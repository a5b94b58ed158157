package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/coldreach/cedb/pkg/configuration"
	"github.com/coldreach/cedb/pkg/constants"
)

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to the global
// configuration logger outside a request.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok {
		return logger
	}
	return logrus.NewEntry(configuration.Use().Logger())
}
