package engine

import (
	"context"
	"sync"
	"time"

	"github.com/nathanyu/balance-transfer/internal/domain"
	"github.com/nathanyu/balance-transfer/internal/notify"
	"github.com/nathanyu/balance-transfer/internal/store"
	"github.com/nathanyu/balance-transfer/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TransferEngine orchestrates balance transfers: fetch both accounts,
// validate, write both new balances, then notify. It owns the serialization
// policy for the whole ledger: a single mutex makes the read-validate-write
// sequence one critical section across all transfers, and the store applies
// the two balance replacements under one lock so concurrent reads never see
// a half-applied transfer.
type TransferEngine struct {
	store    *store.AccountStore
	notifier notify.Notifier

	// transferMu serializes the critical section of every transfer.
	transferMu sync.Mutex
	// wg tracks in-flight notification goroutines for shutdown.
	wg sync.WaitGroup
}

// NewTransferEngine creates an engine over the given store and notifier.
func NewTransferEngine(accounts *store.AccountStore, notifier notify.Notifier) *TransferEngine {
	return &TransferEngine{
		store:    accounts,
		notifier: notifier,
	}
}

// CreateAccount registers a new account. The starting balance must not be
// negative; a taken id fails with a duplicate-account error.
func (e *TransferEngine) CreateAccount(ctx context.Context, account domain.Account) error {
	if account.ID == "" {
		return domain.ErrInvalidArgument("account id must not be empty")
	}
	if account.Balance.IsNegative() {
		return domain.ErrInvalidArgument("initial balance must not be negative")
	}

	if err := e.store.Create(account); err != nil {
		return err
	}

	telemetry.AccountCount.Set(float64(e.store.Count()))
	return nil
}

// GetAccount returns the current snapshot of an account.
func (e *TransferEngine) GetAccount(ctx context.Context, id string) (domain.Account, bool) {
	return e.store.Get(id)
}

// Accounts returns a snapshot of every account keyed by id.
func (e *TransferEngine) Accounts() map[string]domain.Account {
	return e.store.All()
}

// Transfer moves the requested amount from the source account to the
// destination account, all or nothing. transactionID is used only for
// correlation in notifications, spans and logs.
//
// All validation happens before any write, so no write is ever rolled back.
// Notifications are dispatched after the critical section is released;
// their failure or slowness never stalls or fails a transfer.
func (e *TransferEngine) Transfer(ctx context.Context, transactionID string, req domain.TransferRequest) error {
	start := time.Now()

	if telemetry.Tracer != nil {
		var span trace.Span
		ctx, span = telemetry.Tracer.Start(ctx, "engine.Transfer",
			trace.WithAttributes(
				attribute.String("transaction_id", transactionID),
				attribute.String("source_account", req.SourceAccountID),
				attribute.String("destination_account", req.DestinationAccountID),
				attribute.String("amount", req.Amount.String()),
			),
		)
		defer span.End()
	}

	err := e.executeTransfer(req)

	telemetry.TransferProcessingDuration.Observe(time.Since(start).Seconds())
	e.recordTransferMetrics(req, err)

	if err != nil {
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("failure_kind", domain.KindOf(err).String()))
		}
		return err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetStatus(codes.Ok, "")
	}

	e.dispatchNotifications(transactionID, req)
	return nil
}

// executeTransfer runs the critical section: read both accounts, validate,
// write both updated balances.
func (e *TransferEngine) executeTransfer(req domain.TransferRequest) error {
	e.transferMu.Lock()
	defer e.transferMu.Unlock()

	source, ok := e.store.Get(req.SourceAccountID)
	if !ok {
		return domain.ErrAccountNotFound(req.SourceAccountID)
	}

	destination, ok := e.store.Get(req.DestinationAccountID)
	if !ok {
		return domain.ErrAccountNotFound(req.DestinationAccountID)
	}

	if !req.Amount.IsPositive() {
		return domain.ErrInvalidArgument("transfer amount must be positive")
	}

	if source.Balance.LessThan(req.Amount) {
		return domain.ErrInsufficientFunds(source.ID)
	}

	newSource := source.WithBalance(source.Balance.Sub(req.Amount))

	// A self-transfer credits the already-debited snapshot, netting to zero.
	creditBase := destination
	if destination.ID == newSource.ID {
		creditBase = newSource
	}
	newDestination := creditBase.WithBalance(creditBase.Balance.Add(req.Amount))

	e.store.UpdatePair(newSource, newDestination)
	return nil
}

// dispatchNotifications tells both account holders about the completed
// transfer on a separate goroutine, outside the critical section.
func (e *TransferEngine) dispatchNotifications(transactionID string, req domain.TransferRequest) {
	source, _ := e.store.Get(req.SourceAccountID)
	destination, _ := e.store.Get(req.DestinationAccountID)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx := context.Background()
		e.notifier.Notify(ctx, source, domain.Notification{
			TransactionID:  transactionID,
			AccountID:      source.ID,
			Direction:      domain.DirectionSent,
			Amount:         req.Amount,
			CounterpartyID: destination.ID,
		})
		e.notifier.Notify(ctx, destination, domain.Notification{
			TransactionID:  transactionID,
			AccountID:      destination.ID,
			Direction:      domain.DirectionReceived,
			Amount:         req.Amount,
			CounterpartyID: source.ID,
		})
	}()
}

// recordTransferMetrics records counters, the amount histogram and the
// balance gauges for one transfer attempt.
func (e *TransferEngine) recordTransferMetrics(req domain.TransferRequest, err error) {
	status := "success"
	if err != nil {
		status = domain.KindOf(err).String()
	}

	telemetry.TransfersTotal.WithLabelValues(status).Inc()
	amount, _ := req.Amount.Float64()
	telemetry.TransferAmount.WithLabelValues(status).Observe(amount)

	if err == nil {
		total, _ := e.store.TotalBalance().Float64()
		telemetry.TotalBalanceGauge.Set(total)
	}
}

// Close waits for in-flight notification dispatches to finish.
func (e *TransferEngine) Close() {
	e.wg.Wait()
}
