package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/planta-aurora/backoffice/backend/internal/attendance"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// MarkingStore persiste una carga del Reporte de Estadía completa en una
// transacción: lote, marcajes, jornadas resumidas y anomalías de marcaje
// impar. El repositorio deja en batch.Created y batch.Skipped cuántos
// marcajes eran nuevos y cuántos ya existían.
type MarkingStore interface {
	SaveMarkingImport(ctx context.Context, batch *domain.ImportBatch, markings []*domain.Marking, days []*domain.AttendanceDay, anomalies []domain.Anomaly) error
}

// MarkingSummary extiende el resumen con el lote y las jornadas tocadas.
type MarkingSummary struct {
	Summary
	BatchID uuid.UUID `json:"batchId"`
	Days    int       `json:"days"`
}

// MarkingImporter carga el Reporte de Estadía: cada fila es un marcaje
// crudo del reloj control. Además de la bitácora, recalcula el resumen de
// jornada (primera entrada, última salida) y deja una anomalía IMPAR por
// cada jornada a la que le falta un extremo.
type MarkingImporter struct {
	store     MarkingStore
	logger    *slog.Logger
	maxErrors int
}

func NewMarkingImporter(store MarkingStore, maxErrors int, logger *slog.Logger) *MarkingImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkingImporter{store: store, logger: logger, maxErrors: maxErrors}
}

// Import procesa el archivo completo. Columnas obligatorias: RUT, FECHA,
// HORA y MOVIMIENTO. Las filas que no se pueden normalizar se acumulan
// como errores con su número de fila y la carga continúa; los duplicados
// exactos (rut, fecha, hora) los descarta el repositorio y quedan
// contados como omitidos.
func (imp *MarkingImporter) Import(ctx context.Context, source RowSource, sourceName string) (*MarkingSummary, error) {
	index, err := columnIndex(source, "RUT", "FECHA", "HORA", "MOVIMIENTO")
	if err != nil {
		return nil, err
	}

	batch := &domain.ImportBatch{
		ID:         uuid.New(),
		Kind:       "estadia",
		SourceName: sourceName,
	}
	summary := &MarkingSummary{BatchID: batch.ID}

	var events []attendance.Event
	var markings []*domain.Marking

	for line := 1; ; line++ {
		row, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.addError(imp.maxErrors, "fila %d: %v", line, err)
			continue
		}

		ev, ok := attendance.NormalizeEvent(
			cell(row, index, "RUT"),
			cell(row, index, "FECHA"),
			cell(row, index, "HORA"),
			cell(row, index, "MOVIMIENTO"),
		)
		if !ok {
			if rowBlank(row) {
				summary.Skipped++
				continue
			}
			summary.addError(imp.maxErrors, "fila %d: marcaje ilegible", line)
			continue
		}

		events = append(events, ev)
		markings = append(markings, &domain.Marking{
			RUT:      ev.RUT,
			Date:     attendance.DateOf(ev.Timestamp),
			Time:     ev.Timestamp.Format("15:04:05"),
			Movement: ev.Movement,
			Device:   strings.TrimSpace(fmt.Sprint(orEmpty(cell(row, index, "RELOJ", "DISPOSITIVO")))),
			BatchID:  batch.ID,
		})
	}

	days, anomalies := imp.summarize(events, batch.ID)
	summary.Days = len(days)
	batch.Errored = summary.Errored

	if err := imp.store.SaveMarkingImport(ctx, batch, markings, days, anomalies); err != nil {
		return nil, fmt.Errorf("guardar marcajes: %w", err)
	}

	summary.Created = batch.Created
	summary.Skipped += batch.Skipped

	imp.logger.Info("marcajes importados",
		"batchId", batch.ID,
		"source", sourceName,
		"created", summary.Created,
		"skipped", summary.Skipped,
		"days", summary.Days,
		"errored", summary.Errored,
	)

	return summary, nil
}

// summarize agrupa los marcajes por colaborador y día, arma el resumen de
// jornada de cada uno y detecta los días impares en el momento de la
// carga, sin esperar el análisis nocturno.
func (imp *MarkingImporter) summarize(events []attendance.Event, batchID uuid.UUID) ([]*domain.AttendanceDay, []domain.Anomaly) {
	buckets := attendance.Aggregate(events)

	var days []*domain.AttendanceDay
	var anomalies []domain.Anomaly

	for key, times := range buckets {
		day := &domain.AttendanceDay{
			RUT:     key.RUT,
			Date:    key.Date,
			BatchID: batchID,
		}
		if first, ok := times.FirstIn(); ok {
			s := first.Format("15:04:05")
			day.FirstIn = &s
		}
		if last, ok := times.LastOut(); ok {
			s := last.Format("15:04:05")
			day.LastOut = &s
		}
		days = append(days, day)

		if times.Unpaired() {
			detail := "Solo tiene marca de entrada, falta salida"
			if day.FirstIn == nil {
				detail = "Solo tiene marca de salida, falta entrada"
			}
			anomalies = append(anomalies, domain.Anomaly{
				RUT:    key.RUT,
				Date:   key.Date,
				Kind:   domain.AnomalyOddMarking,
				Detail: detail,
			})
		}
	}

	return days, anomalies
}

// rowBlank distingue la fila vacía de relleno (se omite en silencio) de la
// fila con datos ilegibles (se reporta).
func rowBlank(row []any) bool {
	for _, c := range row {
		if strings.TrimSpace(fmt.Sprint(orEmpty(c))) != "" {
			return false
		}
	}
	return true
}
