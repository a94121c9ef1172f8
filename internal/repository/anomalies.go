package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// ReplaceDayAnomalies borra todas las anomalías de la fecha y graba las
// recién clasificadas dentro de una transacción, de modo que reanalizar
// un día nunca deja resultados a medias ni duplicados.
func (r *Repository) ReplaceDayAnomalies(ctx context.Context, date time.Time, anomalies []domain.Anomaly) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM anomalies WHERE date = $1`
	if _, err := tx.ExecContext(ctx, query, date); err != nil {
		return err
	}

	for _, a := range anomalies {
		query := `
			INSERT INTO anomalies (rut, date, kind, detail, minutes_lost)
			VALUES ($1, $2, $3, $4, $5)
		`

		if _, err := tx.ExecContext(ctx, query, a.RUT, a.Date, a.Kind, a.Detail, a.MinutesLost); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func upsertAnomalyTx(ctx context.Context, tx *sql.Tx, a *domain.Anomaly) error {
	query := `
		INSERT INTO anomalies (rut, date, kind, detail, minutes_lost)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (rut, date, kind) DO UPDATE
		SET detail = excluded.detail, minutes_lost = excluded.minutes_lost
		RETURNING id, created_at
	`

	return tx.QueryRowContext(ctx, query, a.RUT, a.Date, a.Kind, a.Detail, a.MinutesLost).Scan(&a.ID, &a.CreatedAt)
}

// AnomalyFilter acota el listado; los campos en cero no filtran.
type AnomalyFilter struct {
	From time.Time
	To   time.Time
	RUT  string
	Kind domain.AnomalyKind
}

func (r *Repository) GetAnomalies(ctx context.Context, filter AnomalyFilter) ([]*domain.Anomaly, error) {
	query := `
		SELECT id, rut, date, kind, detail, minutes_lost, created_at
		FROM anomalies
		WHERE 1 = 1
	`

	args := []any{}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.RUT != "" {
		args = append(args, filter.RUT)
		query += fmt.Sprintf(" AND rut = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY date DESC, rut"

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	anomalies := make([]*domain.Anomaly, 0)
	for rows.Next() {
		a := &domain.Anomaly{}
		dst := []any{&a.ID, &a.RUT, &a.Date, &a.Kind, &a.Detail, &a.MinutesLost, &a.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		anomalies = append(anomalies, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return anomalies, nil
}
