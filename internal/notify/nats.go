package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nathanyu/balance-transfer/internal/domain"
	"github.com/nathanyu/balance-transfer/internal/telemetry"
)

// NotificationSubject is the NATS subject notifications are published to.
const NotificationSubject = "ledger.notifications"

// NATSNotifier publishes transfer notifications to a NATS subject.
// Publishing is fire-and-forget: errors are counted and logged, never
// surfaced to the caller.
type NATSNotifier struct {
	conn *nats.Conn
}

// NewNATSNotifier connects to NATS and returns a notifier backed by it.
func NewNATSNotifier(url string) (*NATSNotifier, error) {
	opts := []nats.Option{
		nats.Name("balance-transfer"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSNotifier{conn: conn}, nil
}

// Notify serializes the notification and publishes it. Any failure is
// swallowed after logging; a lost notification must not affect the transfer.
func (c *NATSNotifier) Notify(ctx context.Context, account domain.Account, n domain.Notification) {
	data, err := domain.SerializeNotification(n)
	if err != nil {
		telemetry.NotificationFailuresTotal.Inc()
		slog.ErrorContext(ctx, "failed to serialize notification",
			slog.String("account", account.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.conn.Publish(NotificationSubject, data); err != nil {
		telemetry.NotificationFailuresTotal.Inc()
		slog.ErrorContext(ctx, "failed to publish notification",
			slog.String("account", account.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	telemetry.NotificationsPublishedTotal.WithLabelValues(NotificationSubject).Inc()
}

// Close drains and closes the NATS connection.
func (c *NATSNotifier) Close() {
	if c.conn != nil {
		c.conn.Drain()
		c.conn.Close()
	}
}
