package attendance

import (
	"fmt"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// DefaultAbsenceMinutes es la jornada completa que se pierde con una falta.
const DefaultAbsenceMinutes = 480

// Classifier evalúa la jornada de un colaborador contra su regla y emite
// las anomalías del día. No guarda estado entre días.
type Classifier struct {
	// AbsenceMinutes son los minutos perdidos que se asignan a una FALTA;
	// si queda en cero se usa DefaultAbsenceMinutes.
	AbsenceMinutes int
}

// ClassifyDay compara los marcajes agregados del día contra la regla y
// devuelve cero o más anomalías. Las reglas se evalúan en forma
// independiente salvo el caso IMPAR, que corta el resto del análisis
// porque sin ambos extremos de la jornada no hay aritmética que hacer.
//
// La colación asume que las primeras cuatro marcas ordenadas son entrada,
// salida a colación, regreso y salida final; marcas adicionales (más de un
// descanso) se ignoran.
func (c Classifier) ClassifyDay(rutID string, date time.Time, rule *domain.ScheduleRule, day DayTimes) []domain.Anomaly {
	var anomalies []domain.Anomaly

	// 1. Falta: sin marcajes en día hábil.
	if day.Empty() {
		if isWeekday(date) {
			anomalies = append(anomalies, domain.Anomaly{
				RUT:         rutID,
				Date:        date,
				Kind:        domain.AnomalyAbsence,
				Detail:      "Sin marcajes en la jornada",
				MinutesLost: c.absenceMinutes(),
			})
		}
		return anomalies
	}

	// 2. Marcaje impar: sólo entradas o sólo salidas.
	if day.Unpaired() {
		detail := "Solo tiene marca de entrada, falta salida"
		if len(day.Entries) == 0 {
			detail = "Solo tiene marca de salida, falta entrada"
		}
		anomalies = append(anomalies, domain.Anomaly{
			RUT:    rutID,
			Date:   date,
			Kind:   domain.AnomalyOddMarking,
			Detail: detail,
		})
		return anomalies
	}

	entry, _ := day.FirstIn()
	exit, _ := day.LastOut()

	// 3. Atraso contra la entrada teórica.
	if expected, err := combineClock(date, rule.StartTime); err == nil {
		if rule.Overnight && entry.Hour() < 12 {
			// En turno de noche una "entrada" de madrugada pertenece
			// lógicamente al día siguiente del calendario.
			expected = expected.AddDate(0, 0, 1)
		}
		diff := entry.Sub(expected).Minutes()
		if diff > float64(rule.GraceMinutes) {
			anomalies = append(anomalies, domain.Anomaly{
				RUT:         rutID,
				Date:        date,
				Kind:        domain.AnomalyLateArrival,
				Detail:      fmt.Sprintf("Entró %s", entry.Format("15:04")),
				MinutesLost: int(diff),
			})
		}
	}

	// 4. Salida anticipada contra la salida teórica.
	if expected, err := combineClock(date, rule.EndTime); err == nil {
		if rule.Overnight {
			expected = expected.AddDate(0, 0, 1)
		}
		diff := expected.Sub(exit).Minutes()
		if diff > float64(rule.GraceMinutes) {
			anomalies = append(anomalies, domain.Anomaly{
				RUT:         rutID,
				Date:        date,
				Kind:        domain.AnomalyEarlyDeparture,
				Detail:      fmt.Sprintf("Salió %s", exit.Format("15:04")),
				MinutesLost: int(diff),
			})
		}
	}

	// 5. Exceso de colación: entrada, salida a colación, regreso, salida.
	if all := day.All(); len(all) >= 4 {
		lunch := all[2].Sub(all[1]).Minutes()
		if lunch > float64(rule.MaxLunchMinutes+rule.GraceMinutes) {
			anomalies = append(anomalies, domain.Anomaly{
				RUT:         rutID,
				Date:        date,
				Kind:        domain.AnomalyExcessLunch,
				Detail:      fmt.Sprintf("Tomó %d min de colación (permitido %d)", int(lunch), rule.MaxLunchMinutes),
				MinutesLost: int(lunch) - rule.MaxLunchMinutes,
			})
		}
	}

	return anomalies
}

func (c Classifier) absenceMinutes() int {
	if c.AbsenceMinutes <= 0 {
		return DefaultAbsenceMinutes
	}
	return c.AbsenceMinutes
}

// isWeekday: lunes a viernes.
func isWeekday(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// combineClock arma el instante teórico combinando la fecha del día con
// una hora HH:MM:SS de la regla.
func combineClock(date time.Time, clock string) (time.Time, error) {
	c, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}, err
	}
	return Combine(date, c), nil
}
