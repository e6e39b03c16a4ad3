package repository

import (
	"context"
	"errors"

	"github.com/campusbites/checkout/internal/models"
	"github.com/campusbites/checkout/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertAttemptQuery = `
						INSERT INTO checkout_attempts (order_id, user_id, order_type, state, amount)
						values ($1, $2, $3, $4, $5)
						RETURNING created_at, updated_at
`
	updateAttemptStateQuery = `
						UPDATE checkout_attempts
						SET state = $1, updated_at = now()
						WHERE order_id = $2
`
	confirmAttemptQuery = `
						UPDATE checkout_attempts
						SET state = $1, confirmed_id = $2, updated_at = now()
						WHERE order_id = $3
`
	selectAttemptQuery = `
						SELECT order_id, user_id, order_type, state, amount, confirmed_id, created_at, updated_at
						FROM checkout_attempts
						WHERE order_id = $1
`
	selectAttemptsByStateQuery = `
						SELECT order_id, user_id, order_type, state, amount, confirmed_id, created_at, updated_at
						FROM checkout_attempts
						WHERE state = $1
						ORDER BY updated_at
`
)

// AttemptRepository records checkout attempt state transitions
type AttemptRepository struct {
	db *postgres.DB
}

// NewAttemptRepository creates new AttemptRepository instance
func NewAttemptRepository(db *postgres.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// CreateAttempt inserts new checkout attempt
func (ar *AttemptRepository) CreateAttempt(ctx context.Context, order *models.CheckoutOrder) error {
	err := ar.db.QueryRow(ctx, insertAttemptQuery,
		order.OrderID, order.UserID, order.Type, order.State, order.Bill.GrandTotal).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := ar.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return err
	}

	return nil
}

// UpdateState sets the attempt state
func (ar *AttemptRepository) UpdateState(ctx context.Context, orderID string, state models.AttemptState) error {
	cmd, err := ar.db.Exec(ctx, updateAttemptStateQuery, state, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// SetConfirmed marks the attempt confirmed and stores the authoritative order id
func (ar *AttemptRepository) SetConfirmed(ctx context.Context, orderID, confirmedID string) error {
	cmd, err := ar.db.Exec(ctx, confirmAttemptQuery, models.StateConfirmed, confirmedID, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// GetAttempt returns attempt by provisional order id
func (ar *AttemptRepository) GetAttempt(ctx context.Context, orderID string) (*models.CheckoutOrder, error) {
	order := models.CheckoutOrder{}
	var confirmedID *string

	err := ar.db.QueryRow(ctx, selectAttemptQuery, orderID).Scan(
		&order.OrderID, &order.UserID, &order.Type, &order.State,
		&order.Bill.GrandTotal, &confirmedID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	if confirmedID != nil {
		order.ConfirmedID = *confirmedID
	}

	return &order, nil
}

// GetAttemptsByState returns attempts in the given state
func (ar *AttemptRepository) GetAttemptsByState(ctx context.Context, state models.AttemptState) ([]models.CheckoutOrder, error) {
	rows, err := ar.db.Query(ctx, selectAttemptsByStateQuery, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.CheckoutOrder{}

	for rows.Next() {
		order := models.CheckoutOrder{}
		var confirmedID *string
		err = rows.Scan(&order.OrderID, &order.UserID, &order.Type, &order.State,
			&order.Bill.GrandTotal, &confirmedID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			continue
		}
		if confirmedID != nil {
			order.ConfirmedID = *confirmedID
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
