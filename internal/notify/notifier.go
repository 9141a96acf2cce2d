package notify

import (
	"context"
	"log/slog"

	"github.com/nathanyu/balance-transfer/internal/domain"
)

// Notifier delivers a transfer notification to an account holder. Delivery
// is at-most-once and best-effort: implementations log and swallow their own
// failures, so the engine never sees a notification error.
type Notifier interface {
	Notify(ctx context.Context, account domain.Account, n domain.Notification)
}

// LogNotifier writes notifications to the structured log. It is the fallback
// sink when no NATS server is configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification message.
func (l *LogNotifier) Notify(ctx context.Context, account domain.Account, n domain.Notification) {
	slog.InfoContext(ctx, "transfer notification",
		slog.String("account", account.ID),
		slog.String("transaction_id", n.TransactionID),
		slog.String("message", n.Message()),
	)
}
