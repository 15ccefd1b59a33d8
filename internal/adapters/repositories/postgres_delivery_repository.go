package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sandbox-delivery-service/internal/domain"
	"sandbox-delivery-service/internal/platform/obs"
)

// Postgres-backed implementation of the DeliveryRepository port.
// The full record is stored as JSONB; id and created_at are columns for lookup and ordering.
type PostgresDeliveryRepository struct{ DB *sql.DB }

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{DB: db}
}

func (p *PostgresDeliveryRepository) Get(ctx context.Context, id string) (_ *domain.SandboxDelivery, _ bool, err error) {
	defer obs.Time(ctx, "delivery.postgres.Get")(&err)

	if p.DB == nil {
		return nil, false, errors.New("postgres delivery repository: DB is nil")
	}

	query := `
	SELECT payload
	FROM sandbox_deliveries
	WHERE id = $1;
	`

	var raw []byte
	err = p.DB.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get delivery: query %q: %w", id, err)
	}

	var d domain.SandboxDelivery
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("get delivery: decode %q: %w", id, err)
	}
	return &d, true, nil
}

func (p *PostgresDeliveryRepository) Save(ctx context.Context, d *domain.SandboxDelivery) (err error) {
	defer obs.Time(ctx, "delivery.postgres.Save")(&err)

	if p.DB == nil {
		return errors.New("postgres delivery repository: DB is nil")
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("save delivery: encode %q: %w", d.ID, err)
	}

	query := `
	INSERT INTO sandbox_deliveries (id, order_id, created_at, payload)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload;
	`
	if _, err := p.DB.ExecContext(ctx, query, d.ID, d.OrderID, d.CreatedAt, raw); err != nil {
		return fmt.Errorf("save delivery: upsert %q: %w", d.ID, err)
	}
	return nil
}

func (p *PostgresDeliveryRepository) Delete(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "delivery.postgres.Delete")(&err)

	if p.DB == nil {
		return errors.New("postgres delivery repository: DB is nil")
	}

	if _, err := p.DB.ExecContext(ctx, `DELETE FROM sandbox_deliveries WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete delivery: %q: %w", id, err)
	}
	return nil
}

func (p *PostgresDeliveryRepository) List(ctx context.Context) (_ []*domain.SandboxDelivery, err error) {
	defer obs.Time(ctx, "delivery.postgres.List")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres delivery repository: DB is nil")
	}

	query := `
	SELECT id, payload
	FROM sandbox_deliveries
	ORDER BY created_at, id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: query sandbox_deliveries table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.SandboxDelivery, 0, 64)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("list deliveries: scan row: %w", err)
		}

		var d domain.SandboxDelivery
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("list deliveries: decode %q: %w", id, err)
		}
		out = append(out, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: row iteration: %w", err)
	}

	return out, nil
}
