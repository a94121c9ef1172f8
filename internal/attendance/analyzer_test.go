package attendance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore guarda todo en memoria y simula la atomicidad del reemplazo
// diario con un simple swap del mapa.
type fakeStore struct {
	workers  []*domain.Worker
	rules    []*domain.ScheduleRule
	days     map[string]DayTimes // rut -> marcajes de la jornada
	failFor  map[string]error
	byDate   map[string][]domain.Anomaly
	replaces int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		days:    map[string]DayTimes{},
		failFor: map[string]error{},
		byDate:  map[string][]domain.Anomaly{},
	}
}

func (s *fakeStore) GetActiveWorkers(ctx context.Context) ([]*domain.Worker, error) {
	return s.workers, nil
}

func (s *fakeStore) GetAllScheduleRules(ctx context.Context) ([]*domain.ScheduleRule, error) {
	return s.rules, nil
}

func (s *fakeStore) GetDayTimes(ctx context.Context, rutID string, from, to time.Time) (DayTimes, error) {
	if err := s.failFor[rutID]; err != nil {
		return DayTimes{}, err
	}
	return s.days[rutID], nil
}

func (s *fakeStore) ReplaceDayAnomalies(ctx context.Context, date time.Time, anomalies []domain.Anomaly) error {
	s.replaces++
	s.byDate[date.Format("2006-01-02")] = anomalies
	return nil
}

func TestAnalyzeDay(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := newFakeStore()
	store.rules = []*domain.ScheduleRule{dayRule(15)}
	store.workers = []*domain.Worker{
		{RUT: "111111111", Area: "PACKING", Status: domain.WorkerStatusActive},
		{RUT: "222222222", Area: "PACKING", Status: domain.WorkerStatusActive},
		{RUT: "333333333", Area: "PACKING", Status: domain.WorkerStatusActive},
	}
	// 1: jornada perfecta, 2: atraso de 40 min, 3: sin marcajes (falta)
	store.days["111111111"] = DayTimes{
		Entries: []time.Time{at(tuesday, "07:58")},
		Exits:   []time.Time{at(tuesday, "17:02")},
	}
	store.days["222222222"] = DayTimes{
		Entries: []time.Time{at(tuesday, "08:40")},
		Exits:   []time.Time{at(tuesday, "17:00")},
	}

	a := NewAnalyzer(store, 480, logger)
	res, err := a.AnalyzeDay(context.Background(), tuesday)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Workers)
	assert.Equal(t, 2, res.Anomalies)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.Errors)

	saved := store.byDate["2025-06-10"]
	require.Len(t, saved, 2)

	kinds := map[domain.AnomalyKind]bool{}
	for _, an := range saved {
		kinds[an.Kind] = true
	}
	assert.True(t, kinds[domain.AnomalyLateArrival])
	assert.True(t, kinds[domain.AnomalyAbsence])
}

// Volver a analizar la misma fecha reemplaza lo anterior en vez de
// duplicarlo.
func TestAnalyzeDay_Rerun(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := newFakeStore()
	store.rules = []*domain.ScheduleRule{dayRule(15)}
	store.workers = []*domain.Worker{
		{RUT: "111111111", Area: "PACKING", Status: domain.WorkerStatusActive},
	}

	a := NewAnalyzer(store, 480, logger)

	// primera pasada: falta
	_, err := a.AnalyzeDay(context.Background(), tuesday)
	require.NoError(t, err)
	require.Len(t, store.byDate["2025-06-10"], 1)
	assert.Equal(t, domain.AnomalyAbsence, store.byDate["2025-06-10"][0].Kind)

	// llegan los marcajes atrasados y se vuelve a correr el día
	store.days["111111111"] = DayTimes{
		Entries: []time.Time{at(tuesday, "08:01")},
		Exits:   []time.Time{at(tuesday, "17:05")},
	}
	_, err = a.AnalyzeDay(context.Background(), tuesday)
	require.NoError(t, err)

	assert.Empty(t, store.byDate["2025-06-10"])
	assert.Equal(t, 2, store.replaces)
}

func TestAnalyzeDay_SkipsAndErrors(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := newFakeStore()
	store.rules = []*domain.ScheduleRule{
		{Name: "Packing", Area: "PACKING", StartTime: "08:00:00", EndTime: "17:00:00", GraceMinutes: 15},
	}
	store.workers = []*domain.Worker{
		{RUT: "111111111", Area: "ADMINISTRACION", Status: domain.WorkerStatusActive}, // sin regla
		{RUT: "222222222", Area: "PACKING", Status: domain.WorkerStatusActive},        // error de carga
	}
	store.failFor["222222222"] = errors.New("conexión perdida")
	store.days["222222222"] = DayTimes{Entries: []time.Time{at(tuesday, "08:00")}}

	a := NewAnalyzer(store, 480, logger)
	res, err := a.AnalyzeDay(context.Background(), tuesday)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Workers)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "222222222")
	// la pasada igual persiste su resultado (vacío)
	assert.Equal(t, 1, store.replaces)
}

func TestAnalyzeDay_NoRules(t *testing.T) {
	store := newFakeStore()
	store.workers = []*domain.Worker{{RUT: "111111111", Status: domain.WorkerStatusActive}}

	a := NewAnalyzer(store, 480, slog.New(slog.NewTextHandler(io.Discard, nil)))
	res, err := a.AnalyzeDay(context.Background(), time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, res.Workers)
	assert.Zero(t, store.replaces)
}

func TestAnalyzeRange(t *testing.T) {
	from := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.rules = []*domain.ScheduleRule{dayRule(15)}
	store.workers = []*domain.Worker{
		{RUT: "111111111", Area: "PACKING", Status: domain.WorkerStatusActive},
	}

	a := NewAnalyzer(store, 480, slog.New(slog.NewTextHandler(io.Discard, nil)))
	results := a.AnalyzeRange(context.Background(), from, to)

	require.Len(t, results, 3)
	assert.Equal(t, 3, store.replaces)
	for i, res := range results {
		assert.Equal(t, from.AddDate(0, 0, i), res.Date)
	}
}
