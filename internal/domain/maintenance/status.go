package maintenance

import "time"

// yellowWindowDays es la ventana de aviso del semáforo.
// Política canónica única para lecturas y escrituras: 15 días.
const yellowWindowDays = 15

// Classify calcula el semáforo de un ítem a partir de sus fechas.
// Trabaja en días de calendario: ambas fechas se truncan a medianoche
// antes de diferenciarse, el reloj no influye.
//
//   - LastDone presente y vence en más de 15 días => green ("Em Dia")
//   - vence en 1..15 días                         => yellow ("Próxima")
//   - resto                                       => red ("Vencida")
//
// El orden importa: green exige LastDone presente, así que un ítem
// nunca ejecutado con vencimiento lejano cae en red, no en green.
// Y "vence hoy" (daysUntilDue == 0) cae en red, no en yellow.
func Classify(lastDone *time.Time, nextDue, today time.Time) Status {
	daysUntilDue := wholeDaysBetween(today, nextDue)

	switch {
	case lastDone != nil && daysUntilDue > yellowWindowDays:
		return StatusGreen
	case daysUntilDue > 0 && daysUntilDue <= yellowWindowDays:
		return StatusYellow
	default:
		return StatusRed
	}
}

// wholeDaysBetween devuelve días enteros de calendario entre from y to
// (negativo si to es anterior). Se toman los componentes de fecha de
// cada instante en su propia zona y se comparan como medianoches UTC
// para que un cambio de horario no produzca días de 23/25 horas.
func wholeDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(t.Sub(f) / (24 * time.Hour))
}
