package workorders

// WorkOrderStatus define el ciclo de vida de una OS.
// @Enum open, in_progress, completed, cancelled
type WorkOrderStatus string

const (
	StatusOpen       WorkOrderStatus = "open"
	StatusInProgress WorkOrderStatus = "in_progress"
	StatusCompleted  WorkOrderStatus = "completed"
	StatusCancelled  WorkOrderStatus = "cancelled"
)

// Priority define la prioridad de una OS.
// @Enum low, medium, high
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Origin distingue cómo nació la OS.
type Origin string

const (
	OriginManual      Origin = "manual"
	OriginMaintenance Origin = "maintenance" // generada al concluir un ítem
)
