package maintenance

import (
	"testing"
	"time"
)

func TestClassify_GreenRequiresLastDone(t *testing.T) {
	today := date(2025, time.January, 1)
	nextDue := date(2025, time.June, 1)
	done := date(2024, time.December, 1)

	if got := Classify(&done, nextDue, today); got != StatusGreen {
		t.Fatalf("with last done: got %s, want green", got)
	}

	// Nunca ejecutado con vencimiento lejano => rojo, nunca verde.
	if got := Classify(nil, nextDue, today); got != StatusRed {
		t.Fatalf("never done: got %s, want red", got)
	}
}

func TestClassify_YellowWindow(t *testing.T) {
	today := date(2025, time.January, 1)
	done := date(2024, time.December, 1)

	// Borde superior: 15 días exactos => yellow.
	if got := Classify(&done, date(2025, time.January, 16), today); got != StatusYellow {
		t.Fatalf("15 days out: got %s, want yellow", got)
	}
	// 16 días => green.
	if got := Classify(&done, date(2025, time.January, 17), today); got != StatusGreen {
		t.Fatalf("16 days out: got %s, want green", got)
	}
	// Borde inferior: 1 día => yellow.
	if got := Classify(&done, date(2025, time.January, 2), today); got != StatusYellow {
		t.Fatalf("1 day out: got %s, want yellow", got)
	}
}

func TestClassify_DueTodayIsRed(t *testing.T) {
	today := date(2025, time.January, 1)
	done := date(2024, time.December, 1)

	if got := Classify(&done, today, today); got != StatusRed {
		t.Fatalf("due today: got %s, want red", got)
	}
}

func TestClassify_OverdueIsRed(t *testing.T) {
	today := date(2025, time.January, 10)
	done := date(2024, time.June, 1)

	if got := Classify(&done, date(2025, time.January, 1), today); got != StatusRed {
		t.Fatalf("overdue: got %s, want red", got)
	}
	if got := Classify(nil, date(2024, time.June, 1), today); got != StatusRed {
		t.Fatalf("overdue never done: got %s, want red", got)
	}
}

func TestClassify_IgnoresClockTime(t *testing.T) {
	// 23:59 de hoy contra 00:01 de mañana sigue siendo 1 día calendario.
	today := time.Date(2025, time.January, 1, 23, 59, 0, 0, time.UTC)
	nextDue := time.Date(2025, time.January, 2, 0, 1, 0, 0, time.UTC)
	done := date(2024, time.December, 1)

	if got := Classify(&done, nextDue, today); got != StatusYellow {
		t.Fatalf("clock time leaked into day math: got %s, want yellow", got)
	}
}

func TestWholeDaysBetween(t *testing.T) {
	cases := []struct {
		from, to time.Time
		want     int
	}{
		{date(2025, time.January, 1), date(2025, time.January, 1), 0},
		{date(2025, time.January, 1), date(2025, time.January, 2), 1},
		{date(2025, time.January, 2), date(2025, time.January, 1), -1},
		{date(2025, time.January, 1), date(2025, time.June, 1), 151},
	}

	for _, c := range cases {
		if got := wholeDaysBetween(c.from, c.to); got != c.want {
			t.Fatalf("wholeDaysBetween(%v, %v) = %d, want %d", c.from, c.to, got, c.want)
		}
	}
}
