package postgres

import (
	"context"
	"database/sql"
	"strings"

	"condo-facility-management/internal/domain/assets"
)

type AssetsRepo struct {
	db *sql.DB
}

func NewAssetsRepo(db *sql.DB) *AssetsRepo {
	return &AssetsRepo{db: db}
}

func (r *AssetsRepo) Create(ctx context.Context, a assets.Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (
			id, condo_id,
			name, category, location, serial_number,
			installed_at, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.CondoID,
		a.Name,
		string(a.Category),
		a.Location,
		a.SerialNumber,
		toNullTime(a.InstalledAt),
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AssetsRepo) Update(ctx context.Context, a assets.Asset) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE assets
		SET
			name = $2,
			location = $3,
			serial_number = $4,
			installed_at = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		a.Location,
		a.SerialNumber,
		toNullTime(a.InstalledAt),
		a.Notes,
		a.UpdatedAt,
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

func (r *AssetsRepo) GetByID(ctx context.Context, id string) (assets.Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return assets.Asset{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, condo_id,
			name, category, location, serial_number,
			installed_at, notes,
			created_at, updated_at
		FROM assets
		WHERE id = $1
	`, id)

	a, err := scanAsset(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return assets.Asset{}, ErrNotFound
		}
		return assets.Asset{}, err
	}
	return a, nil
}

func (r *AssetsRepo) ListByCondo(ctx context.Context, condoID string) ([]assets.Asset, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, condo_id,
			name, category, location, serial_number,
			installed_at, notes,
			created_at, updated_at
		FROM assets
		WHERE condo_id = $1
		ORDER BY created_at ASC
	`, condoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assets.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func scanAsset(scan func(dest ...any) error) (assets.Asset, error) {
	var a assets.Asset
	var category string
	var installed sql.NullTime

	if err := scan(
		&a.ID,
		&a.CondoID,
		&a.Name,
		&category,
		&a.Location,
		&a.SerialNumber,
		&installed,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return assets.Asset{}, err
	}

	a.Category = assets.Category(category)
	// ojo: installed_at es DATE, pgx lo mapea a time.Time midnight UTC
	a.InstalledAt = fromNullTime(installed)

	return a, nil
}
