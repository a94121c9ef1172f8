package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/planta-aurora/backoffice/backend/internal/attendance"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
)

// WorkerChange es el resultado por colaborador de un upsert de dotación.
type WorkerChange struct {
	Worker      *domain.Worker
	Created     bool
	Deactivated bool
}

// RosterStore persiste la dotación completa en una transacción.
type RosterStore interface {
	UpsertRoster(ctx context.Context, workers []*domain.Worker) ([]WorkerChange, error)
}

// Summary es lo que se le devuelve al usuario que subió un archivo.
type Summary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errored int      `json:"errored"`
	Errors  []string `json:"errors"`
}

// addError acumula un error de fila respetando el tope de errores
// reportables; pasado el tope sólo se sigue contando.
func (s *Summary) addError(max int, format string, args ...any) {
	s.Errored++
	if len(s.Errors) < max {
		s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
	}
}

// RosterImporter carga el informe de dotación: upsert por RUT, nunca
// borra. Los callbacks registrados en el notificador se invocan después
// del commit, uno por colaborador creado o modificado.
type RosterImporter struct {
	store     RosterStore
	notifier  *domain.Notifier
	logger    *slog.Logger
	maxErrors int
}

func NewRosterImporter(store RosterStore, notifier *domain.Notifier, maxErrors int, logger *slog.Logger) *RosterImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterImporter{
		store:     store,
		notifier:  notifier,
		logger:    logger,
		maxErrors: maxErrors,
	}
}

// Import procesa el archivo completo. Columnas obligatorias: RUT, NOMBRES
// y PRIMER APELLIDO; su ausencia es un error estructural que aborta todo.
// Las filas con RUT inválido se acumulan como errores y la carga sigue.
// Un RUT repetido dentro del archivo se queda con la última fila.
func (imp *RosterImporter) Import(ctx context.Context, source RowSource, changedBy string) (*Summary, error) {
	index, err := columnIndex(source, "RUT", "NOMBRES", "PRIMER APELLIDO")
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	var order []string
	byRUT := map[string]*domain.Worker{}

	for line := 1; ; line++ {
		row, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.addError(imp.maxErrors, "fila %d: %v", line, err)
			continue
		}

		rawRUT := strings.TrimSpace(fmt.Sprint(cell(row, index, "RUT")))
		rutID := rut.Normalize(rawRUT)
		if rutID == "" {
			summary.Skipped++
			continue
		}
		if !rut.Valid(rutID) {
			summary.addError(imp.maxErrors, "fila %d: RUT inválido %q", line, rawRUT)
			continue
		}

		w := imp.buildWorker(rutID, row, index)
		if _, seen := byRUT[rutID]; seen {
			summary.Skipped++
		} else {
			order = append(order, rutID)
		}
		byRUT[rutID] = w
	}

	workers := make([]*domain.Worker, 0, len(order))
	for _, id := range order {
		workers = append(workers, byRUT[id])
	}

	changes, err := imp.store.UpsertRoster(ctx, workers)
	if err != nil {
		return nil, fmt.Errorf("guardar dotación: %w", err)
	}

	for _, ch := range changes {
		if ch.Created {
			summary.Created++
		} else {
			summary.Updated++
		}
		if imp.notifier != nil {
			imp.notifier.Notify(domain.WorkerEvent{
				Kind:      workerEventKind(ch),
				Worker:    ch.Worker,
				ChangedBy: changedBy,
			})
		}
	}

	imp.logger.Info("dotación importada",
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"errored", summary.Errored,
	)

	return summary, nil
}

func workerEventKind(ch WorkerChange) domain.WorkerEventKind {
	switch {
	case ch.Created:
		return domain.WorkerCreated
	case ch.Deactivated:
		return domain.WorkerTerminated
	default:
		return domain.WorkerUpdated
	}
}

func (imp *RosterImporter) buildWorker(rutID string, row []any, index map[string]int) *domain.Worker {
	str := func(names ...string) string {
		return strings.TrimSpace(fmt.Sprint(orEmpty(cell(row, index, names...))))
	}

	name := strings.Join(nonEmpty(
		str("NOMBRES"),
		str("PRIMER APELLIDO"),
		str("SEGUNDO APELLIDO"),
	), " ")

	w := &domain.Worker{
		RUT:        rutID,
		FullName:   name,
		Area:       str("AREA"),
		Section:    str("SECCION"),
		Position:   str("CARGO"),
		ShiftLabel: str("TURNO", "JORNADA"),
		Status:     parseStatus(str("ESTADO", "ESTADO CONTRATO")),
		Email:      str("EMAIL", "CORREO"),
		Phone:      str("TELEFONO", "CELULAR"),
	}

	if d, ok := attendance.ParseDate(cell(row, index, "FECHA INGRESO", "FECHA DE INGRESO")); ok {
		w.HireDate = &d
	}

	return w
}

// parseStatus mapea el estado del contrato; cualquier texto desconocido se
// trata como vigente, que es lo que asume el informe cuando la columna no
// viene.
func parseStatus(s string) domain.WorkerStatus {
	switch attendance.Fold(s) {
	case "FINIQUITADO", "FINIQUITO", "DESVINCULADO":
		return domain.WorkerStatusTerminated
	case "BLOQUEADO":
		return domain.WorkerStatusBlocked
	default:
		return domain.WorkerStatusActive
	}
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
