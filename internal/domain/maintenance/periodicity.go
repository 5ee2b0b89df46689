package maintenance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidPeriodicity = errors.New("invalid periodicity")
)

// Periodicity es el intervalo de recurrencia de una obligación.
// Se persiste como texto ("30 days", "6 months", "1 year") pero dentro
// del dominio siempre circula como valor tipado; el parse/format vive
// solo en el borde (API / storage).
type Periodicity struct {
	Quantity int
	Unit     Unit
}

// ParsePeriodicity parsea la forma canónica "<entero> <unidad>(s)".
// Unidades soportadas: day/days, month/months, year/years (sin semanas).
func ParsePeriodicity(s string) (Periodicity, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) != 2 {
		return Periodicity{}, fmt.Errorf("%w: %q", ErrInvalidPeriodicity, s)
	}

	q, err := strconv.Atoi(fields[0])
	if err != nil {
		return Periodicity{}, fmt.Errorf("%w: %q", ErrInvalidPeriodicity, s)
	}
	if q <= 0 {
		return Periodicity{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidPeriodicity)
	}

	var unit Unit
	switch strings.TrimSuffix(fields[1], "s") {
	case "day":
		unit = UnitDay
	case "month":
		unit = UnitMonth
	case "year":
		unit = UnitYear
	default:
		return Periodicity{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidPeriodicity, fields[1])
	}

	return Periodicity{Quantity: q, Unit: unit}, nil
}

// String formatea la periodicidad en su forma canónica.
// Ley de ida y vuelta: ParsePeriodicity(p.String()) == p para toda p válida.
func (p Periodicity) String() string {
	if p.Quantity == 1 {
		return fmt.Sprintf("1 %s", p.Unit)
	}
	return fmt.Sprintf("%d %ss", p.Quantity, p.Unit)
}

// IsZero reporta si la periodicidad no fue seteada.
func (p Periodicity) IsZero() bool {
	return p.Quantity == 0 && p.Unit == ""
}

// Validate chequea cantidad positiva y unidad conocida.
func (p Periodicity) Validate() error {
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidPeriodicity)
	}
	switch p.Unit {
	case UnitDay, UnitMonth, UnitYear:
		return nil
	default:
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidPeriodicity, p.Unit)
	}
}

// Next suma el intervalo a base con aritmética de calendario.
// Para meses/años el día se recorta al último día del mes destino
// (31-ene + 1 mes => 28/29-feb, nunca rollover a marzo).
func (p Periodicity) Next(base time.Time) (time.Time, error) {
	if err := p.Validate(); err != nil {
		return time.Time{}, err
	}

	y, m, d := base.Date()
	loc := base.Location()

	switch p.Unit {
	case UnitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, p.Quantity), nil
	case UnitMonth:
		return addMonthsClamped(y, int(m)+p.Quantity, d, loc), nil
	default: // UnitYear
		return addMonthsClamped(y+p.Quantity, int(m), d, loc), nil
	}
}

// addMonthsClamped arma la fecha (year, month, day) normalizando month
// fuera de rango y recortando day al último día del mes resultante.
func addMonthsClamped(year, month, day int, loc *time.Location) time.Time {
	// time.Date normaliza month>12 / month<1 por sí solo; lo aprovechamos
	// usando el día 1 para ubicar el mes destino sin desbordar el día.
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	// Último día del mes destino: día 0 del mes siguiente.
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, loc).Day()
	if day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}
