package maintenance

import "time"

// Item es una obligación recurrente de mantenimiento/conformidad
// asociada a un activo del condominio.
type Item struct {
	ID      string
	CondoID string
	AssetID string

	Title       string // título de la obligación (ej: "Limpeza do reservatório")
	Periodicity Periodicity

	LastDone *time.Time // nil = nunca ejecutado
	NextDue  time.Time

	// Status es derivado: siempre se recalcula con Classify sobre las
	// fechas al momento de leer o mutar. Nunca se persiste como verdad.
	Status Status

	Observations string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkOrderRequest es el pedido de creación de una OS de seguimiento
// que devuelve Complete cuando se solicita spawn. El motor NO persiste
// la OS; el caller (handler) la delega al módulo workorders. Las dos
// escrituras son independientes: si la OS falla, la ejecución del ítem
// ya quedó registrada y no se revierte.
type WorkOrderRequest struct {
	CondoID      string
	AssetID      string
	SourceItemID string
	Title        string
	Description  string
	DueDate      time.Time
}
