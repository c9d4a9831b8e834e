// README: Lead archive backed by PostgreSQL.
package lead

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"removals/internal/modules/pricing"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS quote_leads (
            id              UUID PRIMARY KEY,
            name            TEXT NOT NULL,
            phone           TEXT NOT NULL,
            email           TEXT NOT NULL DEFAULT '',
            pickup_address  TEXT NOT NULL DEFAULT '',
            dropoff_address TEXT NOT NULL DEFAULT '',
            notes           TEXT NOT NULL DEFAULT '',
            van_size        TEXT NOT NULL,
            loaders         INT NOT NULL,
            hours           DOUBLE PRECISION NOT NULL,
            miles           DOUBLE PRECISION NOT NULL,
            total           DOUBLE PRECISION NOT NULL,
            created_at      TIMESTAMPTZ NOT NULL
        )`)
	return err
}

func (s *Store) Archive(ctx context.Context, r Record) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO quote_leads (
            id, name, phone, email, pickup_address, dropoff_address, notes,
            van_size, loaders, hours, miles, total, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11, $12, $13
        )`,
		r.ID,
		r.Details.Name, r.Details.Phone, r.Details.Email,
		r.Details.PickupAddress, r.Details.DropoffAddress, r.Details.Notes,
		string(r.Quote.VanSize), r.Quote.LoaderCount, r.Quote.RequestedHours, r.Quote.Miles,
		r.Total,
		r.CreatedAt,
	)
	return err
}

// Recent returns the newest archived leads, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id::text, name, phone, email, pickup_address, dropoff_address, notes,
               van_size, loaders, hours, miles, total, created_at
        FROM quote_leads
        ORDER BY created_at DESC
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		var van string
		err := row.Scan(
			&r.ID, &r.Details.Name, &r.Details.Phone, &r.Details.Email,
			&r.Details.PickupAddress, &r.Details.DropoffAddress, &r.Details.Notes,
			&van, &r.Quote.LoaderCount, &r.Quote.RequestedHours, &r.Quote.Miles,
			&r.Total, &r.CreatedAt,
		)
		r.Quote.VanSize = pricing.VanSize(van)
		return r, err
	})
}
