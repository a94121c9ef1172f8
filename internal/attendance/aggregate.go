package attendance

import (
	"slices"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// DayKey identifica el balde transitorio de marcajes de un colaborador en
// un día calendario. Date va truncada a medianoche UTC.
type DayKey struct {
	RUT  string
	Date time.Time
}

// DayTimes son los marcajes de una jornada separados por movimiento,
// cada lista ordenada ascendente.
type DayTimes struct {
	Entries []time.Time
	Exits   []time.Time
}

// FirstIn es la primera marca de entrada del día.
func (d DayTimes) FirstIn() (time.Time, bool) {
	if len(d.Entries) == 0 {
		return time.Time{}, false
	}
	return d.Entries[0], true
}

// LastOut es la última marca de salida del día.
func (d DayTimes) LastOut() (time.Time, bool) {
	if len(d.Exits) == 0 {
		return time.Time{}, false
	}
	return d.Exits[len(d.Exits)-1], true
}

// All devuelve todos los marcajes del día mezclados en orden cronológico.
func (d DayTimes) All() []time.Time {
	all := make([]time.Time, 0, len(d.Entries)+len(d.Exits))
	all = append(all, d.Entries...)
	all = append(all, d.Exits...)
	slices.SortFunc(all, func(a, b time.Time) int { return a.Compare(b) })
	return all
}

// Empty reporta si el día no tiene ningún marcaje.
func (d DayTimes) Empty() bool {
	return len(d.Entries) == 0 && len(d.Exits) == 0
}

// Unpaired reporta si falta exactamente uno de los dos extremos de la
// jornada (sólo entradas o sólo salidas).
func (d DayTimes) Unpaired() bool {
	return (len(d.Entries) == 0) != (len(d.Exits) == 0)
}

// Aggregate agrupa eventos normalizados por (rut, fecha) y deja cada lista
// ordenada. El mapa resultante es dueño de los baldes sólo durante la
// pasada de análisis en curso.
func Aggregate(events []Event) map[DayKey]*DayTimes {
	buckets := make(map[DayKey]*DayTimes)

	for _, ev := range events {
		key := DayKey{RUT: ev.RUT, Date: DateOf(ev.Timestamp)}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &DayTimes{}
			buckets[key] = bucket
		}

		switch ev.Movement {
		case domain.MovementIn:
			bucket.Entries = append(bucket.Entries, ev.Timestamp)
		case domain.MovementOut:
			bucket.Exits = append(bucket.Exits, ev.Timestamp)
		}
	}

	for _, bucket := range buckets {
		slices.SortFunc(bucket.Entries, func(a, b time.Time) int { return a.Compare(b) })
		slices.SortFunc(bucket.Exits, func(a, b time.Time) int { return a.Compare(b) })
	}

	return buckets
}
