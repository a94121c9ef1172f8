// Package attendance implementa el motor de conciliación de asistencia:
// normaliza marcajes crudos, los agrupa por colaborador y día, busca la
// regla de jornada aplicable y clasifica las anomalías del día.
package attendance

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Event es un marcaje ya normalizado: RUT canónico, fecha y hora combinadas
// en un solo instante, y movimiento conocido. Es efímero; vive sólo durante
// una pasada de importación o análisis.
type Event struct {
	RUT       string
	Timestamp time.Time
	Movement  domain.Movement
}

var dateLayouts = []string{"02-01-2006", "02/01/2006", "2006-01-02"}
var clockLayouts = []string{"15:04:05", "15:04"}

// Fold deja un texto en mayúsculas y sin tildes, para comparaciones de
// áreas y turnos ("PRODUCCIÓN" y "PRODUCCION" deben ser iguales).
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// ParseDate acepta valores nativos de fecha o texto en los formatos
// dd-mm-yyyy, dd/mm/yyyy o yyyy-mm-dd, en ese orden. El resultado queda
// truncado a medianoche UTC.
func ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return DateOf(val), true
	}

	s := strings.TrimSpace(toString(v))
	if s == "" || s == "None" || s == "nan" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return DateOf(d), true
		}
	}
	return time.Time{}, false
}

// ParseClock acepta valores nativos de hora o texto HH:MM:SS / HH:MM.
func ParseClock(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return val, true
	}

	s := strings.TrimSpace(toString(v))
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, s); err == nil {
			return c, true
		}
	}
	return time.Time{}, false
}

// ParseMovement reconoce ENTRADA y SALIDA sin importar mayúsculas ni
// tildes. Cualquier otro texto se descarta en silencio: el importador es
// de mejor esfuerzo, no un validador estricto.
func ParseMovement(v any) (domain.Movement, bool) {
	switch Fold(toString(v)) {
	case "ENTRADA":
		return domain.MovementIn, true
	case "SALIDA":
		return domain.MovementOut, true
	}
	return "", false
}

// NormalizeEvent convierte las celdas crudas de una fila en un Event.
// Una fila sin RUT, fecha u hora utilizable se rechaza sin reportar nada.
func NormalizeEvent(rutCell, dateCell, clockCell, movementCell any) (Event, bool) {
	r := rut.Normalize(toString(rutCell))
	if r == "" {
		return Event{}, false
	}

	date, ok := ParseDate(dateCell)
	if !ok {
		return Event{}, false
	}

	clock, ok := ParseClock(clockCell)
	if !ok {
		return Event{}, false
	}

	movement, ok := ParseMovement(movementCell)
	if !ok {
		return Event{}, false
	}

	return Event{
		RUT:       r,
		Timestamp: Combine(date, clock),
		Movement:  movement,
	}, true
}

// DateOf trunca un instante a su fecha, a medianoche UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Combine arma un instante con la fecha de date y la hora de clock.
func Combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}
