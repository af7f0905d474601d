package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ticketing/entity"
)

type PendingPurchasesPostgresRepository struct {
	db *sqlx.DB
}

func NewPendingPurchasesPostgresRepository(db *sqlx.DB) *PendingPurchasesPostgresRepository {
	return &PendingPurchasesPostgresRepository{db: db}
}

func (r *PendingPurchasesPostgresRepository) Store(ctx context.Context, purchase entity.PendingPurchase) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO
		    pending_purchases (transaction_ref, order_ref, event_id, user_id, user_email, user_name, ticket_type, quantity, amount_minor, status, created_at)
		VALUES (:transaction_ref, :order_ref, :event_id, :user_id, :user_email, :user_name, :ticket_type, :quantity, :amount_minor, :status, :created_at)
		`, purchase)
	if err != nil {
		return fmt.Errorf("could not save pending purchase: %w", err)
	}
	return nil
}

func (r *PendingPurchasesPostgresRepository) Get(ctx context.Context, transactionRef string) (entity.PendingPurchase, error) {
	var purchase entity.PendingPurchase
	err := r.db.GetContext(ctx, &purchase, `
		SELECT transaction_ref, order_ref, event_id, user_id, user_email, user_name, ticket_type, quantity, amount_minor, status, created_at, completed_at
		FROM pending_purchases
		WHERE transaction_ref = $1
	`, transactionRef)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.PendingPurchase{}, entity.ErrPendingPurchaseNotFound
	}
	return purchase, err
}

// Reopen puts a consumed purchase back into its pending state so a retried
// gateway callback can finalize it. Used when ticket issuance fails after
// the purchase was already consumed; without it the paid purchase would be
// unrecoverable.
func (r *PendingPurchasesPostgresRepository) Reopen(ctx context.Context, transactionRef string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE pending_purchases
		SET status = $2, completed_at = NULL
		WHERE transaction_ref = $1 AND status = $3
	`, transactionRef, entity.PendingPurchaseStatusPending, entity.PendingPurchaseStatusCompleted)
	if err != nil {
		return fmt.Errorf("could not reopen pending purchase: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrPendingPurchaseNotFound
	}
	return nil
}

// Consume flips a pending purchase into its completed state exactly once.
// A replayed callback finds the row already completed and gets
// ErrPendingPurchaseCompleted, so the caller can treat it as a no-op.
func (r *PendingPurchasesPostgresRepository) Consume(ctx context.Context, transactionRef string) (entity.PendingPurchase, error) {
	var purchase entity.PendingPurchase
	err := r.db.GetContext(ctx, &purchase, `
		UPDATE pending_purchases
		SET status = $2, completed_at = NOW()
		WHERE transaction_ref = $1 AND status = $3
		RETURNING transaction_ref, order_ref, event_id, user_id, user_email, user_name, ticket_type, quantity, amount_minor, status, created_at, completed_at
	`, transactionRef, entity.PendingPurchaseStatusCompleted, entity.PendingPurchaseStatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		_, getErr := r.Get(ctx, transactionRef)
		if errors.Is(getErr, entity.ErrPendingPurchaseNotFound) {
			return entity.PendingPurchase{}, entity.ErrPendingPurchaseNotFound
		}
		if getErr != nil {
			return entity.PendingPurchase{}, getErr
		}
		return entity.PendingPurchase{}, entity.ErrPendingPurchaseCompleted
	}
	if err != nil {
		return entity.PendingPurchase{}, fmt.Errorf("could not consume pending purchase: %w", err)
	}
	return purchase, nil
}
