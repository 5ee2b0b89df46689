package assets

// Category define las categorías de activo soportadas.
// @Enum elevator, fire_extinguisher, generator, water_tank, pump, facade, playground, gate, other
type Category string

const (
	CategoryElevator         Category = "elevator"
	CategoryFireExtinguisher Category = "fire_extinguisher"
	CategoryGenerator        Category = "generator"
	CategoryWaterTank        Category = "water_tank"
	CategoryPump             Category = "pump"
	CategoryFacade           Category = "facade"
	CategoryPlayground       Category = "playground"
	CategoryGate             Category = "gate"
	CategoryOther            Category = "other"
)

// ValidCategory reporta si la categoría es conocida.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryElevator, CategoryFireExtinguisher, CategoryGenerator,
		CategoryWaterTank, CategoryPump, CategoryFacade,
		CategoryPlayground, CategoryGate, CategoryOther:
		return true
	default:
		return false
	}
}

// ComplianceImpacting reporta si registrar un activo de esta categoría
// debe aprovisionar ítems de mantenimiento obligatorio (NBR 5674).
// "other" queda fuera: el usuario crea sus obligaciones a mano si quiere.
func ComplianceImpacting(c Category) bool {
	return ValidCategory(c) && c != CategoryOther
}
