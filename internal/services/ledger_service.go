// Package services orchestrates ledger operations across SQLite, settings
// and AMQP. The database write always comes first; messaging failures are
// logged and never fail the request.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"roznamcha/internal/amqp"
	"roznamcha/internal/core"
	"roznamcha/internal/settings"
	"roznamcha/internal/storage"
)

// ErrTrialLimitReached means the shop has used its free entries and must
// activate before recording more.
var ErrTrialLimitReached = errors.New("trial transaction limit reached")

type LedgerService struct {
	storage    *storage.SQLiteRepository
	settings   *settings.Settings
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, settings *settings.Settings, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		settings:   settings,
		amqpClient: amqpClient,
	}
}

// CreateTransaction validates and saves a new ledger entry, applies its
// stock side effect, and queues a mirror sync.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	if err := s.checkTrialGate(ctx); err != nil {
		return 0, err
	}

	id, err := s.storage.InsertTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.applyStockEffect(ctx, t, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to adjust stock",
			"transaction_id", id, "error", err)
	}

	s.publishSync(ctx, id, false)

	slog.InfoContext(ctx, "Created transaction",
		"id", id,
		"category", t.Category,
		"amount", core.EffectiveAmount(t))

	return id, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	s.publishSync(ctx, t.ID, false)
	return nil
}

// DeleteTransaction removes a ledger entry and reverses its stock side
// effect, then queues a tombstone for the mirror.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	t, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := s.applyStockEffect(ctx, t, -1); err != nil {
		slog.ErrorContext(ctx, "Failed to reverse stock adjustment",
			"transaction_id", id, "error", err)
	}

	s.publishSync(ctx, id, true)
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

// RecordSettlement applies a payment against an open debt or receivable.
// Two writes: a child transaction recording the payment, then a targeted
// update of the parent's remaining amount and settled flag.
func (s *LedgerService) RecordSettlement(ctx context.Context, parentID int64, payment float64, dateMillis int64) (int64, error) {
	if payment <= 0 {
		return 0, core.ErrInvalidAmount
	}

	parent, err := s.storage.GetTransaction(ctx, parentID)
	if err != nil {
		return 0, fmt.Errorf("load parent transaction: %w", err)
	}
	if parent.Settled {
		return 0, fmt.Errorf("transaction %d is already settled", parentID)
	}

	remaining := core.EffectiveAmount(parent) - payment
	settled := remaining <= 0
	if settled {
		remaining = 0
	}

	child := core.Transaction{
		Category:            core.CategoryPayment,
		Description:         parent.Description,
		Amount:              &payment,
		OriginalAmount:      &payment,
		DateMillis:          dateMillis,
		Currency:            parent.Currency,
		PaymentStatus:       core.StatusPaid,
		Settled:             true,
		CustomerID:          parent.CustomerID,
		ParentTransactionID: &parent.ID,
	}
	childID, err := s.storage.InsertTransaction(ctx, child)
	if err != nil {
		return 0, fmt.Errorf("record payment: %w", err)
	}

	if err := s.storage.SettleTransaction(ctx, parentID, remaining, settled); err != nil {
		return 0, fmt.Errorf("update parent balance: %w", err)
	}

	status := core.StatusPartial
	if settled {
		status = core.StatusPaid
	}
	if parent.PaymentStatus != "" {
		parent.PaymentStatus = status
		parent.RemainingAmount = &remaining
		parent.Settled = settled
		if err := s.storage.UpdateTransaction(ctx, parent); err != nil {
			return 0, fmt.Errorf("update parent status: %w", err)
		}
	}

	s.publishSync(ctx, childID, false)
	s.publishSync(ctx, parentID, false)

	slog.InfoContext(ctx, "Recorded settlement",
		"parent_id", parentID,
		"payment", payment,
		"remaining", remaining,
		"settled", settled)

	return childID, nil
}

// checkTrialGate enforces the free entry limit until the shop activates.
func (s *LedgerService) checkTrialGate(ctx context.Context) error {
	activated, err := s.settings.Activated(ctx)
	if err != nil {
		return fmt.Errorf("read activation: %w", err)
	}
	if activated {
		return nil
	}

	count, err := s.storage.TransactionCount(ctx)
	if err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if count >= settings.TrialTransactionLimit {
		return ErrTrialLimitReached
	}
	return nil
}

// applyStockEffect moves linked inventory: sales take stock out, purchases
// bring it in. Direction -1 reverses the effect on delete.
func (s *LedgerService) applyStockEffect(ctx context.Context, t core.Transaction, direction float64) error {
	if t.LinkedInventoryItemID == nil || t.Quantity == nil {
		return nil
	}

	var delta float64
	switch t.Category {
	case core.CategorySale:
		delta = -*t.Quantity
	case core.CategoryPurchase:
		delta = *t.Quantity
	default:
		return nil
	}

	return s.storage.AdjustStock(ctx, *t.LinkedInventoryItemID, delta*direction)
}

func (s *LedgerService) publishSync(ctx context.Context, id int64, deleted bool) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishTransactionSync(ctx, id, deleted); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
	}
}
