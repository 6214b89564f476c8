package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
)

const deliveryColumns = `id, order_id, provider_type, status, driver_user_id, taxi_office_id,
    scheduled_move_at, confirmed_at, started_at, delivered_at, move_notified_at, created_at`

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var d domain.Delivery
	if err := row.Scan(&d.ID, &d.OrderID, &d.ProviderType, &d.Status, &d.DriverUserID, &d.TaxiOfficeID,
		&d.ScheduledMoveAt, &d.ConfirmedAt, &d.StartedAt, &d.DeliveredAt, &d.MoveNotifiedAt, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDeliveries(rows pgx.Rows) ([]domain.Delivery, error) {
	defer rows.Close()
	out := make([]domain.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Create inserts a delivery. A second delivery for the same order is apperr.ErrInvalidState,
// an unknown order is apperr.ErrNotFound.
func (r *DeliveryRepo) Create(ctx context.Context, d *domain.Delivery) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO deliveries (id, order_id, provider_type, status, driver_user_id, taxi_office_id,
                                scheduled_move_at, confirmed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at
    `, d.ID, d.OrderID, string(d.ProviderType), string(d.Status), d.DriverUserID, d.TaxiOfficeID,
		d.ScheduledMoveAt, d.ConfirmedAt).Scan(&d.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("delivery for order %q: %w", d.OrderID, apperr.ErrInvalidState)
		}
		if sentinel := violation(err); sentinel != nil {
			return fmt.Errorf("create delivery for order %q: %w", d.OrderID, sentinel)
		}
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

// Get returns the delivery by id, or nil.
func (r *DeliveryRepo) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %q: %w", id, err)
	}
	return d, nil
}

// GetByOrderID returns the delivery of an order, or nil.
func (r *DeliveryRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE order_id = $1`, orderID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery by order %q: %w", orderID, err)
	}
	return d, nil
}

// ConfirmTaxi binds a pending taxi delivery to the winning office.
func (r *DeliveryRepo) ConfirmTaxi(ctx context.Context, id, officeID string, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries
        SET taxi_office_id = $2, status = $3, confirmed_at = $4, updated_at = now()
        WHERE id = $1 AND status = $5 AND provider_type = $6
    `, id, officeID, string(domain.DeliveryConfirmed), at, string(domain.DeliveryPending), string(domain.ProviderTaxiOffice))
	if err != nil {
		return false, fmt.Errorf("confirm taxi delivery %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetScheduledMoveAt records when the courier should start moving.
func (r *DeliveryRepo) SetScheduledMoveAt(ctx context.Context, id string, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries SET scheduled_move_at = $2, updated_at = now()
        WHERE id = $1 AND status NOT IN ($3, $4)
    `, id, at, string(domain.DeliveryCancelled), string(domain.DeliveryDelivered))
	if err != nil {
		return false, fmt.Errorf("schedule delivery %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Cancel moves a PENDING or CONFIRMED delivery to CANCELLED.
func (r *DeliveryRepo) Cancel(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries SET status = $2, updated_at = now()
        WHERE id = $1 AND status IN ($3, $4)
    `, id, string(domain.DeliveryCancelled), string(domain.DeliveryPending), string(domain.DeliveryConfirmed))
	if err != nil {
		return false, fmt.Errorf("cancel delivery %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Claim binds an unclaimed internal delivery to driverID. Exactly one concurrent claim wins.
func (r *DeliveryRepo) Claim(ctx context.Context, id, driverID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries SET driver_user_id = $2, status = $3, updated_at = now()
        WHERE id = $1 AND status = $4 AND driver_user_id IS NULL AND provider_type = $5
    `, id, driverID, string(domain.DeliveryScheduled), string(domain.DeliveryConfirmed), string(domain.ProviderInternalDriver))
	if err != nil {
		return false, fmt.Errorf("claim delivery %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Release returns a claimed delivery to the pool. Only the bound driver may release.
func (r *DeliveryRepo) Release(ctx context.Context, id, driverID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries SET driver_user_id = NULL, status = $3, updated_at = now()
        WHERE id = $1 AND driver_user_id = $2 AND status = $4
    `, id, driverID, string(domain.DeliveryConfirmed), string(domain.DeliveryScheduled))
	if err != nil {
		return false, fmt.Errorf("release delivery %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Progress moves a delivery bound to driverID from one status to the next.
// Entering PICKING_UP stamps started_at, entering DELIVERED stamps delivered_at.
func (r *DeliveryRepo) Progress(ctx context.Context, id, driverID string, from, to domain.DeliveryStatus, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries
        SET status = $4,
            started_at = CASE WHEN $4 = 'PICKING_UP' THEN $5 ELSE started_at END,
            delivered_at = CASE WHEN $4 = 'DELIVERED' THEN $5 ELSE delivered_at END,
            updated_at = now()
        WHERE id = $1 AND driver_user_id = $2 AND status = $3
    `, id, driverID, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("progress delivery %q %s->%s: %w", id, from, to, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ListAvailable returns unclaimed internal deliveries, earliest move time first.
func (r *DeliveryRepo) ListAvailable(ctx context.Context, limit int) ([]domain.Delivery, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+deliveryColumns+`
        FROM deliveries
        WHERE status = $1 AND driver_user_id IS NULL AND provider_type = $2
        ORDER BY scheduled_move_at ASC NULLS LAST, confirmed_at ASC
        LIMIT $3
    `, string(domain.DeliveryConfirmed), string(domain.ProviderInternalDriver), limit)
	if err != nil {
		return nil, fmt.Errorf("list available deliveries: %w", err)
	}
	return collectDeliveries(rows)
}

// ListActiveByDriver returns deliveries the driver is carrying.
func (r *DeliveryRepo) ListActiveByDriver(ctx context.Context, driverID string) ([]domain.Delivery, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+deliveryColumns+`
        FROM deliveries
        WHERE driver_user_id = $1 AND status IN ($2, $3, $4)
        ORDER BY scheduled_move_at ASC NULLS LAST
    `, driverID, string(domain.DeliveryScheduled), string(domain.DeliveryPickingUp), string(domain.DeliveryOnTheWay))
	if err != nil {
		return nil, fmt.Errorf("list active deliveries of %q: %w", driverID, err)
	}
	return collectDeliveries(rows)
}

// ListDueTaxiMoves returns confirmed taxi deliveries whose move time passed and that were not reminded yet.
func (r *DeliveryRepo) ListDueTaxiMoves(ctx context.Context, now time.Time, limit int) ([]domain.Delivery, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+deliveryColumns+`
        FROM deliveries
        WHERE provider_type = $1 AND status = $2
          AND scheduled_move_at <= $3 AND move_notified_at IS NULL
        ORDER BY scheduled_move_at ASC
        LIMIT $4
    `, string(domain.ProviderTaxiOffice), string(domain.DeliveryConfirmed), now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due taxi moves: %w", err)
	}
	return collectDeliveries(rows)
}

// MarkMoveNotified records the reminder once.
func (r *DeliveryRepo) MarkMoveNotified(ctx context.Context, id string, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE deliveries SET move_notified_at = $2, updated_at = now()
        WHERE id = $1 AND move_notified_at IS NULL
    `, id, at)
	if err != nil {
		return false, fmt.Errorf("mark move notified %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
