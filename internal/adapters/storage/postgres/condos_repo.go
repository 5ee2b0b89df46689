package postgres

import (
	"context"
	"database/sql"
	"strings"

	"condo-facility-management/internal/domain/condos"
)

type CondosRepo struct {
	db *sql.DB
}

func NewCondosRepo(db *sql.DB) *CondosRepo {
	return &CondosRepo{db: db}
}

func (r *CondosRepo) Create(ctx context.Context, c condos.Condominium) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO condos (
			id, name, cnpj, address, plan, manager_user_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.Name,
		c.CNPJ,
		c.Address,
		string(c.Plan),
		c.ManagerUserID,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CondosRepo) GetByID(ctx context.Context, id string) (condos.Condominium, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return condos.Condominium{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, cnpj, address, plan, manager_user_id,
			created_at, updated_at
		FROM condos
		WHERE id = $1
	`, id)

	var c condos.Condominium
	var plan string
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.CNPJ,
		&c.Address,
		&plan,
		&c.ManagerUserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return condos.Condominium{}, ErrNotFound
		}
		return condos.Condominium{}, err
	}

	c.Plan = condos.Plan(plan)
	return c, nil
}

func (r *CondosRepo) ListByManager(ctx context.Context, managerUserID string) ([]condos.Condominium, error) {
	managerUserID = strings.TrimSpace(managerUserID)
	if managerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, cnpj, address, plan, manager_user_id,
			created_at, updated_at
		FROM condos
		WHERE manager_user_id = $1
		ORDER BY created_at ASC
	`, managerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]condos.Condominium, 0)
	for rows.Next() {
		var c condos.Condominium
		var plan string
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.CNPJ,
			&c.Address,
			&plan,
			&c.ManagerUserID,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Plan = condos.Plan(plan)
		out = append(out, c)
	}

	return out, rows.Err()
}
