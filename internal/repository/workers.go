package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/importer"
)

func (r *Repository) GetWorkerByRUT(ctx context.Context, rut string) (*domain.Worker, error) {
	query := `
		SELECT full_name, area, section, position, shift_label, status, hire_date, email, phone, created_at, version
		FROM workers WHERE rut = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		RUT: rut,
	}

	dst := []any{&worker.FullName, &worker.Area, &worker.Section, &worker.Position, &worker.ShiftLabel, &worker.Status, &worker.HireDate, &worker.Email, &worker.Phone, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, rut).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetAllWorkers(ctx context.Context) ([]*domain.Worker, error) {
	query := `
		SELECT rut, full_name, area, section, position, shift_label, status, hire_date, email, phone, created_at, version
		FROM workers ORDER BY full_name
	`

	return r.queryWorkers(ctx, query)
}

func (r *Repository) GetActiveWorkers(ctx context.Context) ([]*domain.Worker, error) {
	query := `
		SELECT rut, full_name, area, section, position, shift_label, status, hire_date, email, phone, created_at, version
		FROM workers WHERE status = $1 ORDER BY full_name
	`

	return r.queryWorkers(ctx, query, domain.WorkerStatusActive)
}

func (r *Repository) queryWorkers(ctx context.Context, query string, args ...any) ([]*domain.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker := &domain.Worker{}
		dst := []any{&worker.RUT, &worker.FullName, &worker.Area, &worker.Section, &worker.Position, &worker.ShiftLabel, &worker.Status, &worker.HireDate, &worker.Email, &worker.Phone, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) CreateWorker(ctx context.Context, worker *domain.Worker) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO workers (rut, full_name, area, section, position, shift_label, status, hire_date, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, version
	`

	args := []any{worker.RUT, worker.FullName, worker.Area, worker.Section, worker.Position, worker.ShiftLabel, worker.Status, worker.HireDate, worker.Email, worker.Phone}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorker(ctx context.Context, worker *domain.Worker) error {
	query := `
		UPDATE workers
		SET
			full_name = $1,
			area = $2,
			section = $3,
			position = $4,
			shift_label = $5,
			status = $6,
			hire_date = $7,
			email = $8,
			phone = $9,
			version = version + 1
		WHERE rut = $10 AND version = $11
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{worker.FullName, worker.Area, worker.Section, worker.Position, worker.ShiftLabel, worker.Status, worker.HireDate, worker.Email, worker.Phone, worker.RUT, worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	return nil
}

// UpdateWorkerStatus cambia sólo el estado (bloquear, desbloquear,
// finiquitar) y devuelve el colaborador actualizado.
func (r *Repository) UpdateWorkerStatus(ctx context.Context, rut string, status domain.WorkerStatus) (*domain.Worker, error) {
	query := `
		UPDATE workers
		SET status = $1, version = version + 1
		WHERE rut = $2
		RETURNING full_name, area, section, position, shift_label, status, hire_date, email, phone, created_at, version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		RUT: rut,
	}

	dst := []any{&worker.FullName, &worker.Area, &worker.Section, &worker.Position, &worker.ShiftLabel, &worker.Status, &worker.HireDate, &worker.Email, &worker.Phone, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, status, rut).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

// UpsertRoster guarda el informe de dotación completo en una transacción.
// Por cada colaborador primero se mira el estado previo para poder
// distinguir creación, actualización y finiquito recién llegado.
func (r *Repository) UpsertRoster(ctx context.Context, workers []*domain.Worker) ([]importer.WorkerChange, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	changes := make([]importer.WorkerChange, 0, len(workers))

	for _, worker := range workers {
		var prevStatus domain.WorkerStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM workers WHERE rut = $1`, worker.RUT).Scan(&prevStatus)
		created := errors.Is(err, sql.ErrNoRows)
		if err != nil && !created {
			return nil, err
		}

		query := `
			INSERT INTO workers (rut, full_name, area, section, position, shift_label, status, hire_date, email, phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (rut) DO UPDATE
			SET
				full_name = excluded.full_name,
				area = excluded.area,
				section = excluded.section,
				position = excluded.position,
				shift_label = excluded.shift_label,
				status = excluded.status,
				hire_date = excluded.hire_date,
				email = excluded.email,
				phone = excluded.phone,
				version = workers.version + 1
			RETURNING created_at, version
		`

		args := []any{worker.RUT, worker.FullName, worker.Area, worker.Section, worker.Position, worker.ShiftLabel, worker.Status, worker.HireDate, worker.Email, worker.Phone}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&worker.CreatedAt, &worker.Version); err != nil {
			return nil, err
		}

		changes = append(changes, importer.WorkerChange{
			Worker:      worker,
			Created:     created,
			Deactivated: !created && prevStatus == domain.WorkerStatusActive && worker.Status == domain.WorkerStatusTerminated,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return changes, nil
}
