package workorders

import "time"

// WorkOrder es una orden de servicio (OS) del condominio.
type WorkOrder struct {
	ID      string
	CondoID string

	// Number es el identificador visible "OS-<año>-<secuencia>",
	// secuencial por condominio y año. Solo display; la identidad
	// real es ID.
	Number string

	AssetID string // opcional (OS general del condominio)

	// SourceItemID referencia el ítem de mantenimiento que generó la
	// OS, si nació de un Complete con spawn.
	SourceItemID string

	Title       string
	Description string
	Priority    Priority
	Origin      Origin

	Status  WorkOrderStatus
	DueDate *time.Time

	CreatedBy string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}
