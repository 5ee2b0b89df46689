package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"condo-facility-management/internal/domain/maintenance"
)

type MaintenanceRepo struct {
	db *sql.DB
}

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo {
	return &MaintenanceRepo{db: db}
}

func (r *MaintenanceRepo) Create(ctx context.Context, it maintenance.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO maintenance_items (
			id, condo_id, asset_id,
			title, periodicity,
			last_done, next_due,
			observations,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		it.ID,
		it.CondoID,
		it.AssetID,
		it.Title,
		it.Periodicity.String(), // texto solo en el borde de storage
		toNullTime(it.LastDone),
		it.NextDue,
		it.Observations,
		it.CreatedAt,
		it.UpdatedAt,
	)
	return err
}

func (r *MaintenanceRepo) Update(ctx context.Context, it maintenance.Item) error {
	// El status NO se persiste: es derivado de las fechas y se
	// recalcula en el service en cada lectura/mutación.
	res, err := r.db.ExecContext(ctx, `
		UPDATE maintenance_items
		SET
			title = $2,
			periodicity = $3,
			last_done = $4,
			next_due = $5,
			observations = $6,
			updated_at = $7
		WHERE id = $1
	`,
		it.ID,
		it.Title,
		it.Periodicity.String(),
		toNullTime(it.LastDone),
		it.NextDue,
		it.Observations,
		it.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepo) GetByID(ctx context.Context, id string) (maintenance.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return maintenance.Item{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, condo_id, asset_id,
			title, periodicity,
			last_done, next_due,
			observations,
			created_at, updated_at
		FROM maintenance_items
		WHERE id = $1
	`, id)

	it, err := scanItem(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return maintenance.Item{}, ErrNotFound
		}
		return maintenance.Item{}, err
	}
	return it, nil
}

func (r *MaintenanceRepo) ListByCondo(ctx context.Context, condoID string, filter maintenance.ListFilter) ([]maintenance.Item, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return nil, nil
	}

	query := `
		SELECT
			id, condo_id, asset_id,
			title, periodicity,
			last_done, next_due,
			observations,
			created_at, updated_at
		FROM maintenance_items
		WHERE condo_id = $1
	`
	args := []any{condoID}

	if filter.AssetID != "" {
		query += ` AND asset_id = $2`
		args = append(args, filter.AssetID)
	}

	// Lo más urgente primero.
	query += ` ORDER BY next_due ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]maintenance.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}

	return out, rows.Err()
}

func (r *MaintenanceRepo) ListByAsset(ctx context.Context, assetID string) ([]maintenance.Item, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, condo_id, asset_id,
			title, periodicity,
			last_done, next_due,
			observations,
			created_at, updated_at
		FROM maintenance_items
		WHERE asset_id = $1
		ORDER BY next_due ASC
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]maintenance.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}

	return out, rows.Err()
}

func scanItem(scan func(dest ...any) error) (maintenance.Item, error) {
	var it maintenance.Item
	var periodicity string
	var lastDone sql.NullTime

	if err := scan(
		&it.ID,
		&it.CondoID,
		&it.AssetID,
		&it.Title,
		&periodicity,
		&lastDone,
		&it.NextDue,
		&it.Observations,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return maintenance.Item{}, err
	}

	p, err := maintenance.ParsePeriodicity(periodicity)
	if err != nil {
		// Dato corrupto en storage: lo dejamos subir como error de
		// lectura, no lo "arreglamos" en silencio.
		return maintenance.Item{}, err
	}
	it.Periodicity = p
	it.LastDone = fromNullTime(lastDone)

	return it, nil
}
