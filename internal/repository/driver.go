package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch/internal/domain"
)

// DriverRepo represents driver presence and contract repository.
type DriverRepo struct{ db *pgxpool.Pool }

// NewDriverRepo creates a new DriverRepo.
func NewDriverRepo(db *pgxpool.Pool) *DriverRepo { return &DriverRepo{db: db} }

// GetPresence returns the presence record of a driver, or nil.
func (r *DriverRepo) GetPresence(ctx context.Context, driverID string) (*domain.DriverPresence, error) {
	var (
		p        domain.DriverPresence
		lat, lng *float64
	)
	err := r.db.QueryRow(ctx, `
        SELECT driver_user_id, is_online, last_seen_at, last_lat, last_lng
        FROM driver_presence WHERE driver_user_id = $1
    `, driverID).Scan(&p.DriverUserID, &p.IsOnline, &p.LastSeenAt, &lat, &lng)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presence %q: %w", driverID, err)
	}
	p.LastPosition = point(lat, lng)
	return &p, nil
}

// UpsertPresence writes the presence record. A nil position keeps the last known one.
func (r *DriverRepo) UpsertPresence(ctx context.Context, p domain.DriverPresence) error {
	var lat, lng *float64
	if p.LastPosition != nil {
		lat, lng = &p.LastPosition.Lat, &p.LastPosition.Lng
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO driver_presence (driver_user_id, is_online, last_seen_at, last_lat, last_lng)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (driver_user_id) DO UPDATE
        SET is_online = EXCLUDED.is_online,
            last_seen_at = EXCLUDED.last_seen_at,
            last_lat = COALESCE(EXCLUDED.last_lat, driver_presence.last_lat),
            last_lng = COALESCE(EXCLUDED.last_lng, driver_presence.last_lng)
    `, p.DriverUserID, p.IsOnline, p.LastSeenAt, lat, lng)
	if err != nil {
		return fmt.Errorf("upsert presence %q: %w", p.DriverUserID, err)
	}
	return nil
}

// ListOnlineWithActiveContract returns online drivers whose ACTIVE contract covers now,
// least recently seen first.
func (r *DriverRepo) ListOnlineWithActiveContract(ctx context.Context, now time.Time) ([]domain.DriverPresence, error) {
	rows, err := r.db.Query(ctx, `
        SELECT p.driver_user_id, p.is_online, p.last_seen_at, p.last_lat, p.last_lng
        FROM driver_presence p
        WHERE p.is_online
          AND EXISTS (
              SELECT 1 FROM driver_contracts c
              WHERE c.driver_user_id = p.driver_user_id
                AND c.status = $1 AND c.start_date <= $2 AND c.end_date > $2
          )
        ORDER BY p.last_seen_at ASC, p.driver_user_id ASC
    `, string(domain.ContractActive), now)
	if err != nil {
		return nil, fmt.Errorf("list eligible drivers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DriverPresence, 0)
	for rows.Next() {
		var (
			p        domain.DriverPresence
			lat, lng *float64
		)
		if err := rows.Scan(&p.DriverUserID, &p.IsOnline, &p.LastSeenAt, &lat, &lng); err != nil {
			return nil, err
		}
		p.LastPosition = point(lat, lng)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ActiveContract returns the ACTIVE contract covering now with the latest end date, or nil.
func (r *DriverRepo) ActiveContract(ctx context.Context, driverID string, now time.Time) (*domain.DriverContract, error) {
	var c domain.DriverContract
	err := r.db.QueryRow(ctx, `
        SELECT id, driver_user_id, start_date, end_date, status, commission_rate, auto_renew
        FROM driver_contracts
        WHERE driver_user_id = $1 AND status = $2 AND start_date <= $3 AND end_date > $3
        ORDER BY end_date DESC
        LIMIT 1
    `, driverID, string(domain.ContractActive), now).Scan(
		&c.ID, &c.DriverUserID, &c.StartDate, &c.EndDate, &c.Status, &c.CommissionRate, &c.AutoRenew)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("active contract %q: %w", driverID, err)
	}
	return &c, nil
}

// CreateContract inserts a contract.
func (r *DriverRepo) CreateContract(ctx context.Context, c domain.DriverContract) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO driver_contracts (id, driver_user_id, start_date, end_date, status, commission_rate, auto_renew)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, c.ID, c.DriverUserID, c.StartDate, c.EndDate, string(c.Status), c.CommissionRate, c.AutoRenew)
	if err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

// ExpireContracts marks ACTIVE contracts that ended before now as EXPIRED.
func (r *DriverRepo) ExpireContracts(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE driver_contracts SET status = $1
        WHERE status = $2 AND end_date <= $3
    `, string(domain.ContractExpired), string(domain.ContractActive), now)
	if err != nil {
		return 0, fmt.Errorf("expire contracts: %w", err)
	}
	return ct.RowsAffected(), nil
}

func point(lat, lng *float64) *domain.Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Point{Lat: *lat, Lng: *lng}
}
