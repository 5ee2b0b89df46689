package maintenance

import "condo-facility-management/internal/domain/assets"

// Obligation es una entrada del catálogo de obligaciones por categoría.
type Obligation struct {
	Title       string
	Periodicity Periodicity
}

// defaultObligations es el plan de mantenimiento base por categoría de
// activo, inspirado en NBR 5674 y prácticas usuales de administración
// predial. Al registrar un activo de categoría con impacto de
// conformidad se crea un ítem por cada obligación aplicable.
var defaultObligations = map[assets.Category][]Obligation{
	assets.CategoryElevator: {
		{Title: "Manutenção preventiva do elevador", Periodicity: Periodicity{Quantity: 1, Unit: UnitMonth}},
		{Title: "Inspeção anual do elevador (RIA)", Periodicity: Periodicity{Quantity: 1, Unit: UnitYear}},
	},
	assets.CategoryFireExtinguisher: {
		{Title: "Inspeção visual do extintor", Periodicity: Periodicity{Quantity: 1, Unit: UnitMonth}},
		{Title: "Recarga do extintor", Periodicity: Periodicity{Quantity: 1, Unit: UnitYear}},
		{Title: "Teste hidrostático do extintor", Periodicity: Periodicity{Quantity: 5, Unit: UnitYear}},
	},
	assets.CategoryGenerator: {
		{Title: "Teste de funcionamento do gerador", Periodicity: Periodicity{Quantity: 1, Unit: UnitMonth}},
		{Title: "Manutenção preventiva do gerador", Periodicity: Periodicity{Quantity: 6, Unit: UnitMonth}},
	},
	assets.CategoryWaterTank: {
		{Title: "Limpeza e desinfecção do reservatório", Periodicity: Periodicity{Quantity: 6, Unit: UnitMonth}},
		{Title: "Análise de potabilidade da água", Periodicity: Periodicity{Quantity: 6, Unit: UnitMonth}},
	},
	assets.CategoryPump: {
		{Title: "Manutenção preventiva das bombas", Periodicity: Periodicity{Quantity: 1, Unit: UnitMonth}},
	},
	assets.CategoryFacade: {
		{Title: "Inspeção da fachada", Periodicity: Periodicity{Quantity: 1, Unit: UnitYear}},
	},
	assets.CategoryPlayground: {
		{Title: "Inspeção dos brinquedos do playground", Periodicity: Periodicity{Quantity: 1, Unit: UnitMonth}},
	},
	assets.CategoryGate: {
		{Title: "Manutenção do portão automático", Periodicity: Periodicity{Quantity: 3, Unit: UnitMonth}},
	},
}

// ObligationsFor devuelve el plan base para una categoría (nil si no
// aplica, ej. "other").
func ObligationsFor(category assets.Category) []Obligation {
	return defaultObligations[category]
}
