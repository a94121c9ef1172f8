package importer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeRosterStore struct {
	saved    []*domain.Worker
	existing map[string]bool
	failErr  error
}

func (s *fakeRosterStore) UpsertRoster(ctx context.Context, workers []*domain.Worker) ([]WorkerChange, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	s.saved = workers
	changes := make([]WorkerChange, len(workers))
	for i, w := range workers {
		changes[i] = WorkerChange{Worker: w, Created: !s.existing[w.RUT]}
	}
	return changes, nil
}

const rosterCSV = `INFORME DE DOTACION PLANTA AURORA,,,,,,,
,,,,,,,
RUT,NOMBRES,PRIMER APELLIDO,SEGUNDO APELLIDO,ÁREA,CARGO,TURNO,ESTADO
12.345.670-K,MARÍA JOSÉ,SOTO,PÉREZ,PACKING,OPERARIA,TURNO DÍA,VIGENTE
7.775.577-2,PEDRO,GONZÁLEZ,,FRIGORÍFICO,OPERARIO,TURNO NOCHE,FINIQUITADO
12.345.670-K,MARÍA JOSÉ,SOTO,PÉREZ,EMBALAJE,OPERARIA,TURNO DÍA,VIGENTE
99.999.999-8,ANA,RIQUELME,,PACKING,OPERARIA,,VIGENTE
,,,,,,,
`

func TestRosterImport(t *testing.T) {
	source, err := NewCSVSource(strings.NewReader(rosterCSV))
	require.NoError(t, err)

	store := &fakeRosterStore{existing: map[string]bool{"77755772": true}}
	notifier := domain.NewNotifier()
	var events []domain.WorkerEvent
	notifier.Register(func(ev domain.WorkerEvent) { events = append(events, ev) })

	imp := NewRosterImporter(store, notifier, 20, discard)
	summary, err := imp.Import(context.Background(), source, "admin")
	require.NoError(t, err)

	// 12.345.670-K se crea (la fila repetida se omite y gana la última),
	// 7.775.577-2 ya existía, 99.999.999-8 tiene dígito verificador malo
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 2, summary.Skipped) // fila repetida + fila vacía del final
	assert.Equal(t, 1, summary.Errored)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "99.999.999-8")

	require.Len(t, store.saved, 2)
	maria := store.saved[0]
	assert.Equal(t, "12345670K", maria.RUT)
	assert.Equal(t, "MARÍA JOSÉ SOTO PÉREZ", maria.FullName)
	assert.Equal(t, "EMBALAJE", maria.Area) // la última fila del archivo manda
	assert.Equal(t, domain.WorkerStatusActive, maria.Status)

	pedro := store.saved[1]
	assert.Equal(t, "77755772", pedro.RUT)
	assert.Equal(t, "PEDRO GONZÁLEZ", pedro.FullName)
	assert.Equal(t, domain.WorkerStatusTerminated, pedro.Status)

	// un evento por colaborador confirmado, después del commit
	require.Len(t, events, 2)
	assert.Equal(t, domain.WorkerCreated, events[0].Kind)
	assert.Equal(t, domain.WorkerUpdated, events[1].Kind)
	assert.Equal(t, "admin", events[0].ChangedBy)
}

func TestRosterImport_MissingColumns(t *testing.T) {
	csv := "RUT,AREA\n12345670-K,PACKING\n"
	source, err := NewCSVSource(strings.NewReader(csv))
	require.NoError(t, err)

	imp := NewRosterImporter(&fakeRosterStore{}, nil, 20, discard)
	_, err = imp.Import(context.Background(), source, "admin")

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"NOMBRES", "PRIMER APELLIDO"}, missing.Missing)
}

func TestRosterImport_ErrorCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("RUT,NOMBRES,PRIMER APELLIDO\n")
	for i := 0; i < 10; i++ {
		b.WriteString("1-1,X,Y\n") // dígito verificador inválido
	}

	source, err := NewCSVSource(strings.NewReader(b.String()))
	require.NoError(t, err)

	imp := NewRosterImporter(&fakeRosterStore{}, nil, 3, discard)
	summary, err := imp.Import(context.Background(), source, "admin")
	require.NoError(t, err)

	assert.Equal(t, 10, summary.Errored)
	assert.Len(t, summary.Errors, 3)
}

func TestNewCSVSource_NoHeader(t *testing.T) {
	_, err := NewCSVSource(strings.NewReader("a,b,c\nd,e,f\n"))
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"RUT"}, missing.Missing)
}
