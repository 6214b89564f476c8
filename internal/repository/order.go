package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch/internal/domain"
)

// OrderRepo represents order ledger repository.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

// Get returns the order with its branch, or nil if it does not exist.
func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var (
		o        domain.Order
		lat, lng *float64
	)
	err := r.db.QueryRow(ctx, `
        SELECT o.id, o.status, o.prep_minutes, o.store_id, o.address_id, o.created_at, o.updated_at,
               b.id, b.prep_time_minutes, b.lat, b.lng
        FROM orders o
        JOIN branches b ON b.id = o.branch_id
        WHERE o.id = $1
    `, id).Scan(&o.ID, &o.Status, &o.PrepMinutes, &o.StoreID, &o.AddressID, &o.CreatedAt, &o.UpdatedAt,
		&o.Branch.ID, &o.Branch.PrepTimeMinutes, &lat, &lng)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %q: %w", id, err)
	}
	if lat != nil && lng != nil {
		o.Branch.Location = &domain.Point{Lat: *lat, Lng: *lng}
	}
	return &o, nil
}

// Create inserts an order. The branch must exist.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO orders (id, status, prep_minutes, store_id, branch_id, address_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at
    `, o.ID, o.Status, o.PrepMinutes, o.StoreID, o.Branch.ID, o.AddressID).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// CreateBranch inserts or replaces a branch.
func (r *OrderRepo) CreateBranch(ctx context.Context, b domain.Branch) error {
	var lat, lng *float64
	if b.Location != nil {
		lat, lng = &b.Location.Lat, &b.Location.Lng
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO branches (id, prep_time_minutes, lat, lng)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
        SET prep_time_minutes = EXCLUDED.prep_time_minutes, lat = EXCLUDED.lat, lng = EXCLUDED.lng
    `, b.ID, b.PrepTimeMinutes, lat, lng)
	if err != nil {
		return fmt.Errorf("create branch %q: %w", b.ID, err)
	}
	return nil
}

// Transition moves the order from one status to another.
// It reports false when the order is missing or not in from.
func (r *OrderRepo) Transition(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders SET status = $3, updated_at = now()
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("transition order %q %s->%s: %w", id, from, to, err)
	}
	return ct.RowsAffected() > 0, nil
}

// AcceptByStore records the store's prep time and moves PENDING_STORE to STORE_ACCEPTED_CONDITIONAL.
func (r *OrderRepo) AcceptByStore(ctx context.Context, id string, prepMinutes int) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders SET status = $2, prep_minutes = $3, updated_at = now()
        WHERE id = $1 AND status = $4
    `, id, string(domain.OrderStoreAcceptedConditional), prepMinutes, string(domain.OrderPendingStore))
	if err != nil {
		return false, fmt.Errorf("accept order %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Cancel moves a non-terminal order to CANCELLED.
func (r *OrderRepo) Cancel(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders SET status = $2, updated_at = now()
        WHERE id = $1 AND status NOT IN ($3, $2)
    `, id, string(domain.OrderCancelled), string(domain.OrderCompleted))
	if err != nil {
		return false, fmt.Errorf("cancel order %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
