// Package notify implements the user notification sink over structured
// logging. It stands in for the client-side toast surface: messages are
// fire-and-forget and carry no delivery guarantee.
package notify

import (
	"context"
	"log/slog"

	"roomrequests/internal/domain"
)

type slogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier returns a Notifier that emits each message as a log record.
func NewSlogNotifier(logger *slog.Logger) domain.Notifier {
	return &slogNotifier{logger: logger}
}

func (n *slogNotifier) Success(ctx context.Context, message string) {
	n.logger.InfoContext(ctx, message, "notice", "success")
}

func (n *slogNotifier) Info(ctx context.Context, message string) {
	n.logger.InfoContext(ctx, message, "notice", "info")
}

func (n *slogNotifier) Error(ctx context.Context, message string) {
	n.logger.WarnContext(ctx, message, "notice", "error")
}
