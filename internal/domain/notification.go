package domain

import "context"

// Notifier is the fire-and-forget user notification sink. There is no
// delivery contract; implementations may drop messages.
type Notifier interface {
	Success(ctx context.Context, message string)
	Info(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}
