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

// TaxiRepo represents taxi office directory and dispatch attempt repository.
type TaxiRepo struct{ db *pgxpool.Pool }

// NewTaxiRepo creates a new TaxiRepo.
func NewTaxiRepo(db *pgxpool.Pool) *TaxiRepo { return &TaxiRepo{db: db} }

// ListActiveOffices returns active offices in ascending priority.
func (r *TaxiRepo) ListActiveOffices(ctx context.Context) ([]domain.TaxiOffice, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, name, contact, priority, is_active
        FROM taxi_offices
        WHERE is_active
        ORDER BY priority ASC, id ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("list active offices: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TaxiOffice, 0)
	for rows.Next() {
		var o domain.TaxiOffice
		if err := rows.Scan(&o.ID, &o.Name, &o.Contact, &o.Priority, &o.IsActive); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetOffice returns an office by id, or nil.
func (r *TaxiRepo) GetOffice(ctx context.Context, id string) (*domain.TaxiOffice, error) {
	return r.office(ctx, `SELECT id, name, contact, priority, is_active FROM taxi_offices WHERE id = $1`, id)
}

// FindActiveOfficeByContact returns the active office with the given normalised contact, or nil.
func (r *TaxiRepo) FindActiveOfficeByContact(ctx context.Context, contact string) (*domain.TaxiOffice, error) {
	return r.office(ctx, `
        SELECT id, name, contact, priority, is_active
        FROM taxi_offices WHERE contact = $1 AND is_active
    `, contact)
}

func (r *TaxiRepo) office(ctx context.Context, q string, arg string) (*domain.TaxiOffice, error) {
	var o domain.TaxiOffice
	err := r.db.QueryRow(ctx, q, arg).Scan(&o.ID, &o.Name, &o.Contact, &o.Priority, &o.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get office %q: %w", arg, err)
	}
	return &o, nil
}

// CreateOffice inserts an office. A duplicate contact is apperr.ErrInvalid.
func (r *TaxiRepo) CreateOffice(ctx context.Context, o domain.TaxiOffice) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO taxi_offices (id, name, contact, priority, is_active)
        VALUES ($1, $2, $3, $4, $5)
    `, o.ID, o.Name, o.Contact, o.Priority, o.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("office contact %q taken: %w", o.Contact, apperr.ErrInvalid)
		}
		return fmt.Errorf("create office: %w", err)
	}
	return nil
}

const attemptColumns = `id, delivery_id, taxi_office_id, status, sent_at, responded_at`

func scanAttempt(row pgx.Row) (*domain.DispatchAttempt, error) {
	var a domain.DispatchAttempt
	if err := row.Scan(&a.ID, &a.DeliveryID, &a.TaxiOfficeID, &a.Status, &a.SentAt, &a.RespondedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAttempt inserts a SENT attempt.
func (r *TaxiRepo) CreateAttempt(ctx context.Context, a *domain.DispatchAttempt) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO dispatch_attempts (id, delivery_id, taxi_office_id, status, sent_at)
        VALUES ($1, $2, $3, $4, $5)
    `, a.ID, a.DeliveryID, a.TaxiOfficeID, string(a.Status), a.SentAt)
	if err != nil {
		if sentinel := violation(err); sentinel != nil {
			return fmt.Errorf("attempt for delivery %q office %q: %w", a.DeliveryID, a.TaxiOfficeID, sentinel)
		}
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

// GetAttempt returns an attempt by id, or nil.
func (r *TaxiRepo) GetAttempt(ctx context.Context, id string) (*domain.DispatchAttempt, error) {
	a, err := scanAttempt(r.db.QueryRow(ctx, `SELECT `+attemptColumns+` FROM dispatch_attempts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attempt %q: %w", id, err)
	}
	return a, nil
}

// ResolveAttempt moves a SENT attempt to status. Only the first resolution wins.
func (r *TaxiRepo) ResolveAttempt(ctx context.Context, id string, status domain.AttemptStatus, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE dispatch_attempts SET status = $2, responded_at = $3
        WHERE id = $1 AND status = $4
    `, id, string(status), at, string(domain.AttemptSent))
	if err != nil {
		return false, fmt.Errorf("resolve attempt %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// LatestSentAttempt returns the most recently sent pending attempt of an office, or nil.
func (r *TaxiRepo) LatestSentAttempt(ctx context.Context, officeID string) (*domain.DispatchAttempt, error) {
	a, err := scanAttempt(r.db.QueryRow(ctx, `
        SELECT `+attemptColumns+`
        FROM dispatch_attempts
        WHERE taxi_office_id = $1 AND status = $2
        ORDER BY sent_at DESC
        LIMIT 1
    `, officeID, string(domain.AttemptSent)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest attempt of %q: %w", officeID, err)
	}
	return a, nil
}

// ListAttempts returns the attempts of a delivery in send order.
func (r *TaxiRepo) ListAttempts(ctx context.Context, deliveryID string) ([]domain.DispatchAttempt, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+attemptColumns+`
        FROM dispatch_attempts
        WHERE delivery_id = $1
        ORDER BY sent_at ASC, id ASC
    `, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("list attempts of %q: %w", deliveryID, err)
	}
	defer rows.Close()

	out := make([]domain.DispatchAttempt, 0)
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
