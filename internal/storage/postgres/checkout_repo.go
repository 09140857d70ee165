package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendrhub/klarna-hpp/internal/order"
)

// ErrNotFound is returned when no checkout attempt exists for an order.
var ErrNotFound = errors.New("checkout attempt not found")

// CheckoutAttempt is one redirect of a shopper to the hosted payment page.
// SessionID and SecretToken are the correlation pair the status_update
// callback is validated against; TransactionID and PaymentStatus are filled
// in once the callback confirms the payment.
type CheckoutAttempt struct {
	ID            uuid.UUID
	OrderNumber   string
	CurrencyCode  string
	OrderAmount   int64 // minor units
	Snapshot      order.Order
	SessionID     string
	SecretToken   string
	TransactionID string
	PaymentStatus string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CheckoutRepository struct {
	db *pgxpool.Pool
}

func NewCheckoutRepository(db *pgxpool.Pool) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

func (r *CheckoutRepository) Create(ctx context.Context, attempt *CheckoutAttempt) error {
	snapshot, err := json.Marshal(attempt.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO checkout_attempts (
			order_number, currency_code, order_amount, order_snapshot,
			session_id, secret_token
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_number) DO UPDATE SET
			currency_code  = EXCLUDED.currency_code,
			order_amount   = EXCLUDED.order_amount,
			order_snapshot = EXCLUDED.order_snapshot,
			session_id     = EXCLUDED.session_id,
			secret_token   = EXCLUDED.secret_token,
			updated_at     = now()
		RETURNING id, created_at, updated_at`,
		attempt.OrderNumber,
		attempt.CurrencyCode,
		attempt.OrderAmount,
		snapshot,
		attempt.SessionID,
		attempt.SecretToken,
	)
	if err := row.Scan(&attempt.ID, &attempt.CreatedAt, &attempt.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create checkout attempt: %w", err)
	}
	return nil
}

func (r *CheckoutRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*CheckoutAttempt, error) {
	var (
		attempt       CheckoutAttempt
		snapshot      []byte
		transactionID *string
		paymentStatus *string
	)

	row := r.db.QueryRow(ctx, `
		SELECT id, order_number, currency_code, order_amount, order_snapshot,
		       session_id, secret_token, transaction_id, payment_status,
		       created_at, updated_at
		FROM checkout_attempts
		WHERE order_number = $1`,
		orderNumber,
	)
	err := row.Scan(
		&attempt.ID,
		&attempt.OrderNumber,
		&attempt.CurrencyCode,
		&attempt.OrderAmount,
		&snapshot,
		&attempt.SessionID,
		&attempt.SecretToken,
		&transactionID,
		&paymentStatus,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get checkout attempt: %w", err)
	}

	if err := json.Unmarshal(snapshot, &attempt.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order snapshot: %w", err)
	}
	if transactionID != nil {
		attempt.TransactionID = *transactionID
	}
	if paymentStatus != nil {
		attempt.PaymentStatus = *paymentStatus
	}
	return &attempt, nil
}

// MarkCompleted records the transaction produced by a confirmed callback.
func (r *CheckoutRepository) MarkCompleted(ctx context.Context, orderNumber, transactionID string, status order.PaymentStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE checkout_attempts
		SET transaction_id = $2, payment_status = $3, updated_at = now()
		WHERE order_number = $1`,
		orderNumber, transactionID, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to mark checkout attempt completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
