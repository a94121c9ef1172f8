package repository

import (
	"context"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// Los agregados del dashboard se calculan en SQL: son los mismos GROUP BY
// que pediría cualquier planilla y la base los resuelve mejor que Go.

func (r *Repository) SummarizeAnomaliesByKind(ctx context.Context, from, to time.Time) ([]*domain.AnomalySummaryRow, error) {
	query := `
		SELECT kind, COUNT(*), COALESCE(SUM(minutes_lost), 0)
		FROM anomalies
		WHERE date BETWEEN $1 AND $2
		GROUP BY kind
		ORDER BY COUNT(*) DESC
	`

	return r.querySummary(ctx, query, from, to)
}

func (r *Repository) SummarizeAnomaliesByArea(ctx context.Context, from, to time.Time) ([]*domain.AnomalySummaryRow, error) {
	query := `
		SELECT COALESCE(NULLIF(w.area, ''), 'SIN AREA'), COUNT(*), COALESCE(SUM(a.minutes_lost), 0)
		FROM anomalies a
		LEFT JOIN workers w ON w.rut = a.rut
		WHERE a.date BETWEEN $1 AND $2
		GROUP BY 1
		ORDER BY COUNT(*) DESC
	`

	return r.querySummary(ctx, query, from, to)
}

func (r *Repository) SummarizeAnomaliesByWeek(ctx context.Context, from, to time.Time) ([]*domain.AnomalySummaryRow, error) {
	query := `
		SELECT TO_CHAR(date, 'IYYY-IW'), COUNT(*), COALESCE(SUM(minutes_lost), 0)
		FROM anomalies
		WHERE date BETWEEN $1 AND $2
		GROUP BY 1
		ORDER BY 1
	`

	return r.querySummary(ctx, query, from, to)
}

func (r *Repository) querySummary(ctx context.Context, query string, args ...any) ([]*domain.AnomalySummaryRow, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make([]*domain.AnomalySummaryRow, 0)
	for rows.Next() {
		row := &domain.AnomalySummaryRow{}
		if err := rows.Scan(&row.Group, &row.Count, &row.MinutesLost); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}

// GetTransportKPIs arma todos los agregados del dashboard de transporte
// para un rango de fechas en una sola pasada por consulta.
func (r *Repository) GetTransportKPIs(ctx context.Context, from, to time.Time) (*domain.TransportKPIs, error) {
	kpis := &domain.TransportKPIs{}

	queries := []struct {
		dst   *[]domain.KPIRow
		query string
	}{
		{&kpis.WeeklyCost, `
			SELECT TO_CHAR(recorded_at, 'IYYY-IW'), SUM(fare)
			FROM departure_logs
			WHERE recorded_at >= $1 AND recorded_at < $2
			GROUP BY 1 ORDER BY 1
		`},
		{&kpis.OccupancyByVeh, `
			SELECT v.plate, ROUND(AVG(d.occupancy_pct)::numeric, 1)
			FROM departure_logs d JOIN vehicles v ON v.id = d.vehicle_id
			WHERE d.recorded_at >= $1 AND d.recorded_at < $2
			GROUP BY v.plate ORDER BY 2 DESC
		`},
		{&kpis.OccupancyByKind, `
			SELECT v.kind, ROUND(AVG(d.occupancy_pct)::numeric, 1)
			FROM departure_logs d JOIN vehicles v ON v.id = d.vehicle_id
			WHERE d.recorded_at >= $1 AND d.recorded_at < $2
			GROUP BY v.kind ORDER BY 2 DESC
		`},
		{&kpis.CostByKind, `
			SELECT v.kind, SUM(d.fare)
			FROM departure_logs d JOIN vehicles v ON v.id = d.vehicle_id
			WHERE d.recorded_at >= $1 AND d.recorded_at < $2
			GROUP BY v.kind ORDER BY 2 DESC
		`},
		{&kpis.CostByRoute, `
			SELECT rt.name, SUM(d.fare)
			FROM departure_logs d JOIN routes rt ON rt.id = d.route_id
			WHERE d.recorded_at >= $1 AND d.recorded_at < $2
			GROUP BY rt.name ORDER BY 2 DESC
		`},
		{&kpis.CostPerPaxByVeh, `
			SELECT v.plate, ROUND(SUM(d.fare)::numeric / NULLIF(SUM(d.passengers), 0), 1)
			FROM departure_logs d JOIN vehicles v ON v.id = d.vehicle_id
			WHERE d.recorded_at >= $1 AND d.recorded_at < $2
			GROUP BY v.plate ORDER BY 2 DESC
		`},
		{&kpis.CostPerPaxByRoute, `
			SELECT rt.name, ROUND(SUM(d.fare)::numeric / NULLIF(SUM(d.passengers), 0), 1)
			FROM departure_logs d JOIN routes rt ON rt.id = d.route_id
			WHERE d.recorded_at >= $1 AND d.recorded_at < $2
			GROUP BY rt.name ORDER BY 2 DESC
		`},
	}

	for _, q := range queries {
		rows, err := r.queryKPIRows(ctx, q.query, from, to)
		if err != nil {
			return nil, err
		}
		*q.dst = rows
	}

	query := `
		SELECT COALESCE(ROUND(SUM(fare)::numeric / NULLIF(SUM(passengers), 0), 1), 0)
		FROM departure_logs
		WHERE recorded_at >= $1 AND recorded_at < $2
	`

	ctx2, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()
	if err := r.dbpool.QueryRowContext(ctx2, query, from, to).Scan(&kpis.CostPerPax); err != nil {
		return nil, err
	}

	return kpis, nil
}

func (r *Repository) queryKPIRows(ctx context.Context, query string, args ...any) ([]domain.KPIRow, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.KPIRow, 0)
	for rows.Next() {
		var row domain.KPIRow
		var value *float64
		if err := rows.Scan(&row.Label, &value); err != nil {
			return nil, err
		}
		if value != nil {
			row.Value = *value
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
