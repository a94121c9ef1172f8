package repository

import (
	"context"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/attendance"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// SaveMarkingImport persiste una carga completa del Reporte de Estadía en
// una sola transacción: el lote, los marcajes (descartando duplicados
// exactos), los resúmenes de jornada y las anomalías de marcaje impar.
// Deja en batch.Created y batch.Skipped el conteo de nuevos y duplicados.
func (r *Repository) SaveMarkingImport(ctx context.Context, batch *domain.ImportBatch, markings []*domain.Marking, days []*domain.AttendanceDay, anomalies []domain.Anomaly) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO import_batches (id, kind, source_name, errored)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, query, batch.ID, batch.Kind, batch.SourceName, batch.Errored).Scan(&batch.CreatedAt); err != nil {
		return err
	}

	for _, m := range markings {
		query := `
			INSERT INTO markings (rut, date, time, movement, device, batch_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (rut, date, time) DO NOTHING
		`

		res, err := tx.ExecContext(ctx, query, m.RUT, m.Date, m.Time, m.Movement, m.Device, m.BatchID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			batch.Skipped++
		} else {
			batch.Created++
		}
	}

	for _, d := range days {
		query := `
			INSERT INTO attendance_days (rut, date, first_in, last_out, batch_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (rut, date) DO UPDATE
			SET first_in = excluded.first_in, last_out = excluded.last_out, batch_id = excluded.batch_id
			RETURNING id, created_at
		`

		if err := tx.QueryRowContext(ctx, query, d.RUT, d.Date, d.FirstIn, d.LastOut, d.BatchID).Scan(&d.ID, &d.CreatedAt); err != nil {
			return err
		}
	}

	for _, a := range anomalies {
		if err := upsertAnomalyTx(ctx, tx, &a); err != nil {
			return err
		}
	}

	query = `UPDATE import_batches SET created = $1, updated = $2, skipped = $3 WHERE id = $4`
	if _, err := tx.ExecContext(ctx, query, batch.Created, batch.Updated, batch.Skipped, batch.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetDayTimes arma los baldes de entrada y salida de un colaborador entre
// dos fechas inclusive, en orden cronológico. Es la vista que consume el
// clasificador de anomalías.
func (r *Repository) GetDayTimes(ctx context.Context, rut string, from, to time.Time) (attendance.DayTimes, error) {
	query := `
		SELECT date, time, movement
		FROM markings
		WHERE rut = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, time
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rut, from, to)
	if err != nil {
		return attendance.DayTimes{}, err
	}
	defer rows.Close()

	var day attendance.DayTimes
	for rows.Next() {
		var (
			date     time.Time
			clockStr string
			movement domain.Movement
		)
		if err := rows.Scan(&date, &clockStr, &movement); err != nil {
			return attendance.DayTimes{}, err
		}

		clock, ok := attendance.ParseClock(clockStr)
		if !ok {
			continue
		}

		ts := attendance.Combine(date, clock)
		switch movement {
		case domain.MovementIn:
			day.Entries = append(day.Entries, ts)
		case domain.MovementOut:
			day.Exits = append(day.Exits, ts)
		}
	}

	if err := rows.Err(); err != nil {
		return attendance.DayTimes{}, err
	}

	return day, nil
}

func (r *Repository) GetAttendanceDaysByDate(ctx context.Context, date time.Time) ([]*domain.AttendanceDay, error) {
	query := `
		SELECT id, rut, date, first_in, last_out, batch_id, created_at
		FROM attendance_days WHERE date = $1 ORDER BY rut
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]*domain.AttendanceDay, 0)
	for rows.Next() {
		day := &domain.AttendanceDay{}
		dst := []any{&day.ID, &day.RUT, &day.Date, &day.FirstIn, &day.LastOut, &day.BatchID, &day.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

func (r *Repository) GetAllImportBatches(ctx context.Context) ([]*domain.ImportBatch, error) {
	query := `
		SELECT id, kind, source_name, created, updated, skipped, errored, created_at
		FROM import_batches ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]*domain.ImportBatch, 0)
	for rows.Next() {
		batch := &domain.ImportBatch{}
		dst := []any{&batch.ID, &batch.Kind, &batch.SourceName, &batch.Created, &batch.Updated, &batch.Skipped, &batch.Errored, &batch.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}

// CreateImportBatch registra un lote que no pasa por SaveMarkingImport
// (la carga de dotación, que guarda sus filas en workers).
func (r *Repository) CreateImportBatch(ctx context.Context, batch *domain.ImportBatch) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO import_batches (id, kind, source_name, created, updated, skipped, errored)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	args := []any{batch.ID, batch.Kind, batch.SourceName, batch.Created, batch.Updated, batch.Skipped, batch.Errored}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&batch.CreatedAt); err != nil {
		return err
	}

	return nil
}
