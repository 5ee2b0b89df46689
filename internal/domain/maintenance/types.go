package maintenance

// Status es el semáforo de cumplimiento de un ítem de mantenimiento.
// @Enum green, yellow, red
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Label devuelve la leyenda que muestra la UI (fija, en portugués).
func (s Status) Label() string {
	switch s {
	case StatusGreen:
		return "Em Dia"
	case StatusYellow:
		return "Próxima"
	case StatusRed:
		return "Vencida"
	default:
		return string(s)
	}
}

// Unit es la unidad de una periodicidad.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)
