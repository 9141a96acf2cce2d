package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Notification direction constants
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// Notification tells an account holder about one side of a completed
// transfer. Delivery is best-effort; losing a notification never affects
// the transfer itself.
type Notification struct {
	TransactionID  string          `json:"transaction_id"`
	AccountID      string          `json:"account_id"`
	Direction      string          `json:"direction"`
	Amount         decimal.Decimal `json:"amount"`
	CounterpartyID string          `json:"counterparty_id"`
}

// Message renders the human-readable notification text.
func (n Notification) Message() string {
	if n.Direction == DirectionReceived {
		return fmt.Sprintf("Received %s from account %s", n.Amount, n.CounterpartyID)
	}
	return fmt.Sprintf("Transferred %s to account %s", n.Amount, n.CounterpartyID)
}

// NotificationEnvelope wraps a notification with metadata for the wire.
type NotificationEnvelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

const notificationType = "TransferNotification"

// SerializeNotification converts a notification to JSON bytes with envelope.
func SerializeNotification(n Notification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}

	envelope := NotificationEnvelope{
		Type:      notificationType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	return json.Marshal(envelope)
}

// DeserializeNotification converts envelope JSON bytes back to a Notification.
func DeserializeNotification(data []byte) (Notification, error) {
	var envelope NotificationEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Notification{}, err
	}

	if envelope.Type != notificationType {
		return Notification{}, fmt.Errorf("unknown notification type: %s", envelope.Type)
	}

	var n Notification
	if err := json.Unmarshal(envelope.Data, &n); err != nil {
		return Notification{}, err
	}

	return n, nil
}
