package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarkingStore struct {
	batch     *domain.ImportBatch
	markings  []*domain.Marking
	days      []*domain.AttendanceDay
	anomalies []domain.Anomaly
}

func (s *fakeMarkingStore) SaveMarkingImport(ctx context.Context, batch *domain.ImportBatch, markings []*domain.Marking, days []*domain.AttendanceDay, anomalies []domain.Anomaly) error {
	// el repositorio real cuenta nuevos contra duplicados; acá todo es nuevo
	batch.Created = len(markings)
	s.batch = batch
	s.markings = markings
	s.days = days
	s.anomalies = anomalies
	return nil
}

const estadiaCSV = `REPORTE DE ESTADIA,,,,
RUT,FECHA,HORA,MOVIMIENTO,RELOJ
12.345.670-K,10-06-2025,08:02:11,ENTRADA,PORTERIA 1
12.345.670-K,10-06-2025,17:01:00,SALIDA,PORTERIA 1
7.775.577-2,10-06-2025,08:10,Entrada,PORTERIA 2
12.345.670-K,11/06/2025,07:58:00,ENTRADA,PORTERIA 1
,10-06-2025,08:00,ENTRADA,PORTERIA 1
12.345.670-K,10-06-2025,,ENTRADA,PORTERIA 1
`

func TestMarkingImport(t *testing.T) {
	source, err := NewCSVSource(strings.NewReader(estadiaCSV))
	require.NoError(t, err)

	store := &fakeMarkingStore{}
	imp := NewMarkingImporter(store, 20, discard)

	summary, err := imp.Import(context.Background(), source, "estadia-junio.csv")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Created)
	assert.Equal(t, 2, summary.Errored) // fila sin RUT utilizable y fila sin hora
	assert.Equal(t, 3, summary.Days)
	assert.Len(t, summary.Errors, 2)

	require.NotNil(t, store.batch)
	assert.Equal(t, "estadia", store.batch.Kind)
	assert.Equal(t, "estadia-junio.csv", store.batch.SourceName)
	assert.Equal(t, summary.BatchID, store.batch.ID)

	require.Len(t, store.markings, 4)
	first := store.markings[0]
	assert.Equal(t, "12345670K", first.RUT)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "08:02:11", first.Time)
	assert.Equal(t, domain.MovementIn, first.Movement)
	assert.Equal(t, "PORTERIA 1", first.Device)
	assert.Equal(t, store.batch.ID, first.BatchID)

	// jornada completa del 10, jornada sólo-entrada del 11 y la de pedro
	byKey := map[string]*domain.AttendanceDay{}
	for _, d := range store.days {
		byKey[d.RUT+d.Date.Format("2006-01-02")] = d
	}

	full := byKey["12345670K2025-06-10"]
	require.NotNil(t, full)
	require.NotNil(t, full.FirstIn)
	require.NotNil(t, full.LastOut)
	assert.Equal(t, "08:02:11", *full.FirstIn)
	assert.Equal(t, "17:01:00", *full.LastOut)

	open := byKey["12345670K2025-06-11"]
	require.NotNil(t, open)
	require.NotNil(t, open.FirstIn)
	assert.Nil(t, open.LastOut)

	// las dos jornadas sin salida quedan marcadas impares de inmediato
	require.Len(t, store.anomalies, 2)
	for _, a := range store.anomalies {
		assert.Equal(t, domain.AnomalyOddMarking, a.Kind)
		assert.Contains(t, a.Detail, "falta salida")
	}
}

func TestMarkingImport_MissingColumns(t *testing.T) {
	csv := "RUT,FECHA\n12345670-K,10-06-2025\n"
	source, err := NewCSVSource(strings.NewReader(csv))
	require.NoError(t, err)

	imp := NewMarkingImporter(&fakeMarkingStore{}, 20, discard)
	_, err = imp.Import(context.Background(), source, "estadia.csv")

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"HORA", "MOVIMIENTO"}, missing.Missing)
}

func TestMarkingImport_EmptyFile(t *testing.T) {
	source, err := NewCSVSource(strings.NewReader("RUT,FECHA,HORA,MOVIMIENTO\n"))
	require.NoError(t, err)

	store := &fakeMarkingStore{}
	imp := NewMarkingImporter(store, 20, discard)

	summary, err := imp.Import(context.Background(), source, "vacio.csv")
	require.NoError(t, err)
	assert.Zero(t, summary.Created)
	assert.Zero(t, summary.Days)
	assert.Empty(t, store.markings)
}
