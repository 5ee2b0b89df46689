package postgres

import (
	"context"
	"database/sql"
	"strings"

	"condo-facility-management/internal/domain/memberships"
)

type MembershipsRepo struct {
	db *sql.DB
}

func NewMembershipsRepo(db *sql.DB) *MembershipsRepo {
	return &MembershipsRepo{db: db}
}

func (r *MembershipsRepo) Create(ctx context.Context, m memberships.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (
			id, condo_id,
			manager_user_id, member_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID,
		m.CondoID,
		m.ManagerUserID,
		m.MemberUserID,
		scopesToText(m.Scopes),
		string(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
		toNullTime(m.RevokedAt),
	)
	return err
}

func (r *MembershipsRepo) Update(ctx context.Context, m memberships.Membership) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET
			scopes = $2,
			status = $3,
			updated_at = $4,
			revoked_at = $5
		WHERE id = $1
	`,
		m.ID,
		scopesToText(m.Scopes),
		string(m.Status),
		m.UpdatedAt,
		toNullTime(m.RevokedAt),
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

func (r *MembershipsRepo) GetByID(ctx context.Context, id string) (memberships.Membership, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return memberships.Membership{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, condo_id,
			manager_user_id, member_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		FROM memberships
		WHERE id = $1
	`, id)

	m, err := scanMembership(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return memberships.Membership{}, ErrNotFound
		}
		return memberships.Membership{}, err
	}
	return m, nil
}

func (r *MembershipsRepo) ListByCondo(ctx context.Context, condoID string) ([]memberships.Membership, error) {
	return r.list(ctx, `condo_id = $1`, condoID)
}

func (r *MembershipsRepo) ListByMember(ctx context.Context, memberUserID string) ([]memberships.Membership, error) {
	return r.list(ctx, `member_user_id = $1`, memberUserID)
}

func (r *MembershipsRepo) list(ctx context.Context, where, arg string) ([]memberships.Membership, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, condo_id,
			manager_user_id, member_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		FROM memberships
		WHERE `+where+`
		ORDER BY created_at ASC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]memberships.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MembershipsRepo) GetActiveMembership(ctx context.Context, condoID, memberUserID string) (memberships.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, condo_id,
			manager_user_id, member_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		FROM memberships
		WHERE condo_id = $1 AND member_user_id = $2 AND status = 'active'
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1
	`, condoID, memberUserID)

	m, err := scanMembership(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return memberships.Membership{}, ErrNotFound
		}
		return memberships.Membership{}, err
	}
	return m, nil
}

func scanMembership(scan func(dest ...any) error) (memberships.Membership, error) {
	var m memberships.Membership
	var scopes, status string
	var revokedAt sql.NullTime

	if err := scan(
		&m.ID,
		&m.CondoID,
		&m.ManagerUserID,
		&m.MemberUserID,
		&scopes,
		&status,
		&m.CreatedAt,
		&m.UpdatedAt,
		&revokedAt,
	); err != nil {
		return memberships.Membership{}, err
	}

	m.Scopes = textToScopes(scopes)
	m.Status = memberships.Status(status)
	m.RevokedAt = fromNullTime(revokedAt)

	return m, nil
}

// Los scopes se guardan como texto separado por comas. Los valores son un
// enum cerrado sin comas, así que el join/split es seguro.

func scopesToText(scopes []memberships.Scope) string {
	parts := make([]string, 0, len(scopes))
	for _, s := range scopes {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}

func textToScopes(s string) []memberships.Scope {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]memberships.Scope, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, memberships.Scope(p))
	}
	return out
}
