package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"condo-facility-management/internal/domain/workorders"
)

type WorkOrdersRepo struct {
	db *sql.DB
}

func NewWorkOrdersRepo(db *sql.DB) *WorkOrdersRepo {
	return &WorkOrdersRepo{db: db}
}

func (r *WorkOrdersRepo) Create(ctx context.Context, wo workorders.WorkOrder) error {
	year, seq := splitNumber(wo.Number)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO work_orders (
			id, condo_id,
			os_number, os_year, os_seq,
			asset_id, source_item_id,
			title, description, priority, origin,
			status, due_date,
			created_by,
			created_at, updated_at,
			started_at, completed_at, cancelled_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		wo.ID,
		wo.CondoID,
		wo.Number,
		year,
		seq,
		wo.AssetID,
		wo.SourceItemID,
		wo.Title,
		wo.Description,
		string(wo.Priority),
		string(wo.Origin),
		string(wo.Status),
		toNullTime(wo.DueDate),
		wo.CreatedBy,
		wo.CreatedAt,
		wo.UpdatedAt,
		toNullTime(wo.StartedAt),
		toNullTime(wo.CompletedAt),
		toNullTime(wo.CancelledAt),
	)
	return err
}

func (r *WorkOrdersRepo) Update(ctx context.Context, wo workorders.WorkOrder) error {
	// El número no cambia después de creado.
	res, err := r.db.ExecContext(ctx, `
		UPDATE work_orders
		SET
			title = $2,
			description = $3,
			priority = $4,
			status = $5,
			due_date = $6,
			updated_at = $7,
			started_at = $8,
			completed_at = $9,
			cancelled_at = $10
		WHERE id = $1
	`,
		wo.ID,
		wo.Title,
		wo.Description,
		string(wo.Priority),
		string(wo.Status),
		toNullTime(wo.DueDate),
		wo.UpdatedAt,
		toNullTime(wo.StartedAt),
		toNullTime(wo.CompletedAt),
		toNullTime(wo.CancelledAt),
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

func (r *WorkOrdersRepo) GetByID(ctx context.Context, id string) (workorders.WorkOrder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return workorders.WorkOrder{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, condo_id, os_number,
			asset_id, source_item_id,
			title, description, priority, origin,
			status, due_date,
			created_by,
			created_at, updated_at,
			started_at, completed_at, cancelled_at
		FROM work_orders
		WHERE id = $1
	`, id)

	wo, err := scanWorkOrder(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return workorders.WorkOrder{}, ErrNotFound
		}
		return workorders.WorkOrder{}, err
	}
	return wo, nil
}

func (r *WorkOrdersRepo) ListByCondo(ctx context.Context, condoID string, filter workorders.ListFilter) ([]workorders.WorkOrder, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return nil, nil
	}

	query := `
		SELECT
			id, condo_id, os_number,
			asset_id, source_item_id,
			title, description, priority, origin,
			status, due_date,
			created_by,
			created_at, updated_at,
			started_at, completed_at, cancelled_at
		FROM work_orders
		WHERE condo_id = $1
	`
	args := []any{condoID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.AssetID != "" {
		args = append(args, filter.AssetID)
		query += ` AND asset_id = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]workorders.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, wo)
	}

	return out, rows.Err()
}

func (r *WorkOrdersRepo) NextSequence(ctx context.Context, condoID string, year int) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(os_seq), 0) + 1
		FROM work_orders
		WHERE condo_id = $1 AND os_year = $2
	`, condoID, year)

	var next int
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func scanWorkOrder(scan func(dest ...any) error) (workorders.WorkOrder, error) {
	var wo workorders.WorkOrder
	var priority, origin, status string
	var dueDate, startedAt, completedAt, cancelledAt sql.NullTime

	if err := scan(
		&wo.ID,
		&wo.CondoID,
		&wo.Number,
		&wo.AssetID,
		&wo.SourceItemID,
		&wo.Title,
		&wo.Description,
		&priority,
		&origin,
		&status,
		&dueDate,
		&wo.CreatedBy,
		&wo.CreatedAt,
		&wo.UpdatedAt,
		&startedAt,
		&completedAt,
		&cancelledAt,
	); err != nil {
		return workorders.WorkOrder{}, err
	}

	wo.Priority = workorders.Priority(priority)
	wo.Origin = workorders.Origin(origin)
	wo.Status = workorders.WorkOrderStatus(status)
	wo.DueDate = fromNullTime(dueDate)
	wo.StartedAt = fromNullTime(startedAt)
	wo.CompletedAt = fromNullTime(completedAt)
	wo.CancelledAt = fromNullTime(cancelledAt)

	return wo, nil
}

// splitNumber saca (año, seq) de "OS-2025-0001" para las columnas de
// numeración. Si el formato no calza guarda ceros; el display (os_number)
// queda igual intacto.
func splitNumber(number string) (int, int) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return 0, 0
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0
	}
	return year, seq
}
