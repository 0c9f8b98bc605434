package app

import (
	"context"
	"log/slog"
)

// Notifier shows transient notices to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) {
	n.log.InfoContext(ctx, "Notice is shown", "message", message)
}
