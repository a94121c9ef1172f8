package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// Store es lo que el analizador necesita de la persistencia. La
// implementación real es *repository.Repository.
type Store interface {
	GetActiveWorkers(ctx context.Context) ([]*domain.Worker, error)
	GetAllScheduleRules(ctx context.Context) ([]*domain.ScheduleRule, error)
	// GetDayTimes entrega los marcajes de un colaborador entre dos fechas
	// inclusive, separados por movimiento y ordenados.
	GetDayTimes(ctx context.Context, rutID string, from, to time.Time) (DayTimes, error)
	// ReplaceDayAnomalies borra todas las anomalías de la fecha y crea las
	// nuevas dentro de una misma transacción.
	ReplaceDayAnomalies(ctx context.Context, date time.Time, anomalies []domain.Anomaly) error
}

// DayResult resume una pasada de análisis sobre un día.
type DayResult struct {
	Date      time.Time `json:"date"`
	Workers   int       `json:"workers"`
	Anomalies int       `json:"anomalies"`
	Skipped   int       `json:"skipped"`
	Errors    []string  `json:"errors"`
}

// Analyzer recorre la dotación vigente un día a la vez. Reglas y dotación
// se cargan una sola vez por pasada y son de sólo lectura durante ella;
// lo único que se muta son las anomalías de la fecha bajo análisis.
type Analyzer struct {
	store      Store
	classifier Classifier
	logger     *slog.Logger
}

func NewAnalyzer(store Store, absenceMinutes int, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		store:      store,
		classifier: Classifier{AbsenceMinutes: absenceMinutes},
		logger:     logger,
	}
}

// AnalyzeDay reconcilia la asistencia de toda la dotación vigente para una
// fecha. Un colaborador sin regla aplicable se salta sin emitir nada; un
// error al cargar sus marcajes se acumula y la pasada continúa. El
// reemplazo de anomalías del día es atómico: o quedan todas las nuevas o
// quedan las anteriores.
func (a *Analyzer) AnalyzeDay(ctx context.Context, date time.Time) (*DayResult, error) {
	date = DateOf(date)
	result := &DayResult{Date: date}

	rules, err := a.store.GetAllScheduleRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar reglas: %w", err)
	}
	if len(rules) == 0 {
		a.logger.Warn("no hay reglas de asistencia configuradas, nada que analizar")
		return result, nil
	}

	workers, err := a.store.GetActiveWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar dotación: %w", err)
	}

	var anomalies []domain.Anomaly
	for _, w := range workers {
		rule := MatchRule(w, rules)
		if rule == nil {
			result.Skipped++
			continue
		}

		windowEnd := date
		if rule.Overnight {
			// La jornada termina al día siguiente; el balde cubre ambos.
			windowEnd = date.AddDate(0, 0, 1)
		}

		day, err := a.store.GetDayTimes(ctx, w.RUT, date, windowEnd)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", w.RUT, err))
			continue
		}

		result.Workers++
		anomalies = append(anomalies, a.classifier.ClassifyDay(w.RUT, date, rule, day)...)
	}

	if err := a.store.ReplaceDayAnomalies(ctx, date, anomalies); err != nil {
		return nil, fmt.Errorf("reemplazar anomalías del %s: %w", date.Format("2006-01-02"), err)
	}

	result.Anomalies = len(anomalies)
	a.logger.Info("análisis de asistencia completado",
		"date", date.Format("2006-01-02"),
		"workers", result.Workers,
		"anomalies", result.Anomalies,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}

// AnalyzeRange analiza cada fecha del rango inclusive. Cada día es una
// unidad de trabajo independiente: si uno falla se registra el error y se
// sigue con el siguiente.
func (a *Analyzer) AnalyzeRange(ctx context.Context, from, to time.Time) []*DayResult {
	var results []*DayResult

	for date := DateOf(from); !date.After(DateOf(to)); date = date.AddDate(0, 0, 1) {
		res, err := a.AnalyzeDay(ctx, date)
		if err != nil {
			a.logger.Error("análisis del día falló", "date", date.Format("2006-01-02"), "error", err)
			results = append(results, &DayResult{
				Date:   date,
				Errors: []string{err.Error()},
			})
			continue
		}
		results = append(results, res)
	}

	return results
}
