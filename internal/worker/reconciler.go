package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/confirmation"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"
	domainEvent "github.com/BouramaNG/designfrontwaw-sub001/internal/domain/event"
	infraKafka "github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/kafka"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// ConsumerName identifies the reconciler in the inbox table.
const ConsumerName = "checkout-reconciler"

const pendingStatus = "pending"

var (
	checkoutsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consumer_checkouts_reconciled_total",
		Help: "The total number of checkouts whose payment status was stored",
	})
	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "consumer_processing_duration_seconds",
		Help:    "Time taken to reconcile one event",
		Buckets: []float64{0.1, 0.5, 1, 2, 5},
	})
	messagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consumer_messages_dropped_total",
		Help: "Messages committed without being handled after exhausting retries",
	})
)

type MessageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type InboxStore interface {
	Exists(ctx context.Context, consumer, eventID string) (bool, error)
	SaveIfNotExists(ctx context.Context, consumer, eventID, eventType, correlationID string) (bool, error)
}

type CheckoutReconciler interface {
	Reconcile(ctx context.Context, id string, paymentStatus string) error
}

type Reconciler struct {
	source     MessageSource
	tx         postgres.Transactor
	inbox      InboxStore
	checkouts  CheckoutReconciler
	orders     confirmation.StatusFetcher
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

func NewReconciler(
	source MessageSource,
	tx postgres.Transactor,
	inbox InboxStore,
	checkouts CheckoutReconciler,
	orders confirmation.StatusFetcher,
	maxRetries int,
	logger *slog.Logger,
) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		source:     source,
		tx:         tx,
		inbox:      inbox,
		checkouts:  checkouts,
		orders:     orders,
		maxRetries: maxRetries,
		backoff:    time.Second,
		logger:     logger,
	}
}

func (r *Reconciler) Run(ctx context.Context) error {
	r.logger.Info("reconciler started", "consumer", ConsumerName)

	for {
		msg, err := r.source.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger.Error("failed to fetch message", "error", err)
			if !sleep(ctx, r.backoff) {
				return nil
			}
			continue
		}

		if !r.process(ctx, msg) {
			return nil
		}
	}
}

// process handles msg with exponential backoff and commits it once it is
// handled or out of retries. It reports false when ctx ended first.
func (r *Reconciler) process(ctx context.Context, msg kafka.Message) bool {
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := r.backoff * time.Duration(1<<attempt)
			r.logger.Info("retry attempt", "attempt", attempt, "max", r.maxRetries, "backoff", backoff)
			if !sleep(ctx, backoff) {
				return false
			}
		}

		err := r.Handle(ctx, msg)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return false
		}

		r.logger.Error("processing failed", "attempt", attempt, "offset", msg.Offset, "error", err)
		if attempt == r.maxRetries {
			r.logger.Error("dropping message after retries", "retries", r.maxRetries, "offset", msg.Offset, "error", err)
			messagesDropped.Inc()
		}
	}

	if err := r.source.CommitMessages(ctx, msg); err != nil {
		r.logger.Error("failed to commit kafka message", "error", err)
	}
	return true
}

type checkoutRef struct {
	CheckoutID string `json:"checkout_id"`
	RefCommand string `json:"ref_command"`
}

func handles(eventType string) bool {
	switch eventType {
	case domainEvent.TypeOrderPlaced, domainEvent.TypePaymentInitiated:
		return true
	}
	return false
}

// Handle reconciles one message. Foreign or corrupt messages are skipped
// with a nil error; a redelivered event is a no-op thanks to the inbox.
func (r *Reconciler) Handle(ctx context.Context, msg kafka.Message) error {
	if t := infraKafka.EventType(msg); t != "" && !handles(t) {
		return nil
	}

	started := time.Now()
	var ev domainEvent.Message
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		r.logger.Error("failed to unmarshal event envelope", "offset", msg.Offset, "error", err)
		return nil
	}
	if !handles(ev.Type) {
		return nil
	}

	var ref checkoutRef
	if err := json.Unmarshal(ev.Payload, &ref); err != nil || ref.RefCommand == "" || ref.CheckoutID == "" {
		r.logger.Warn("event carries no checkout reference", "event_id", ev.ID, "type", ev.Type)
		return nil
	}

	seen, err := r.inbox.Exists(ctx, ConsumerName, ev.ID)
	if err != nil {
		return fmt.Errorf("inbox lookup: %w", err)
	}
	if seen {
		return nil
	}

	// fetched before the transaction opens
	res := r.orders.Status(ctx, ref.RefCommand)
	if !res.Success || res.Data == nil {
		return fmt.Errorf("order status for %s: %s", ref.RefCommand, res.Message)
	}
	paymentStatus := res.Data.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = pendingStatus
	}

	err = r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		isNew, err := r.inbox.SaveIfNotExists(txCtx, ConsumerName, ev.ID, ev.Type, ev.CorrelationID)
		if err != nil {
			return fmt.Errorf("inbox save: %w", err)
		}
		if !isNew {
			return nil
		}

		err = r.checkouts.Reconcile(txCtx, ref.CheckoutID, paymentStatus)
		if errors.Is(err, checkout.ErrNotFound) {
			r.logger.Warn("reconcile: unknown checkout", "checkout_id", ref.CheckoutID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reconcile checkout: %w", err)
		}

		r.logger.Info("checkout reconciled",
			"checkout_id", ref.CheckoutID, "ref_command", ref.RefCommand, "payment_status", paymentStatus, "event_id", ev.ID)
		checkoutsReconciled.Inc()
		return nil
	})
	if err != nil {
		return err
	}

	processingDuration.Observe(time.Since(started).Seconds())
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
