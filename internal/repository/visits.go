package repository

import (
	"context"
	"errors"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// ErrVisitClosed se devuelve al intentar registrar la salida de una
// visita que ya la tiene.
var ErrVisitClosed = errors.New("la visita ya tiene salida registrada")

func (r *Repository) CreateVisit(ctx context.Context, visit *domain.Visit) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO visits (rut, name, company, roster_status, authorized_by, host, location, card_number, plate, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, date, check_in
	`

	args := []any{visit.RUT, visit.Name, visit.Company, visit.RosterStatus, visit.AuthorizedBy, visit.Host, visit.Location, visit.CardNumber, visit.Plate, visit.RecordedBy}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&visit.ID, &visit.Date, &visit.CheckIn); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetVisitByID(ctx context.Context, id int64) (*domain.Visit, error) {
	query := `
		SELECT rut, name, company, roster_status, authorized_by, host, location, card_number, plate, date, check_in, check_out, recorded_by
		FROM visits WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	visit := &domain.Visit{
		ID: id,
	}

	dst := []any{&visit.RUT, &visit.Name, &visit.Company, &visit.RosterStatus, &visit.AuthorizedBy, &visit.Host, &visit.Location, &visit.CardNumber, &visit.Plate, &visit.Date, &visit.CheckIn, &visit.CheckOut, &visit.RecordedBy}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return visit, nil
}

// RegisterVisitExit cierra la visita. Devuelve ErrVisitClosed si alguien
// ya le registró la salida (doble marcación en portería).
func (r *Repository) RegisterVisitExit(ctx context.Context, id int64) (*domain.Visit, error) {
	query := `
		UPDATE visits
		SET check_out = now()
		WHERE id = $1 AND check_out IS NULL
		RETURNING rut, name, company, roster_status, authorized_by, host, location, card_number, plate, date, check_in, check_out, recorded_by
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	visit := &domain.Visit{
		ID: id,
	}

	dst := []any{&visit.RUT, &visit.Name, &visit.Company, &visit.RosterStatus, &visit.AuthorizedBy, &visit.Host, &visit.Location, &visit.CardNumber, &visit.Plate, &visit.Date, &visit.CheckIn, &visit.CheckOut, &visit.RecordedBy}
	err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...)
	if err == nil {
		return visit, nil
	}

	// sin filas: o no existe, o ya estaba cerrada
	if _, lookupErr := r.GetVisitByID(ctx, id); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, ErrVisitClosed
}

func (r *Repository) GetVisitsInside(ctx context.Context) ([]*domain.Visit, error) {
	query := `
		SELECT id, rut, name, company, roster_status, authorized_by, host, location, card_number, plate, date, check_in, check_out, recorded_by
		FROM visits WHERE check_out IS NULL ORDER BY check_in
	`

	return r.queryVisits(ctx, query)
}

func (r *Repository) GetVisitsByDate(ctx context.Context, date time.Time) ([]*domain.Visit, error) {
	query := `
		SELECT id, rut, name, company, roster_status, authorized_by, host, location, card_number, plate, date, check_in, check_out, recorded_by
		FROM visits WHERE date = $1 ORDER BY check_in DESC
	`

	return r.queryVisits(ctx, query, date)
}

func (r *Repository) queryVisits(ctx context.Context, query string, args ...any) ([]*domain.Visit, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := make([]*domain.Visit, 0)
	for rows.Next() {
		visit := &domain.Visit{}
		dst := []any{&visit.ID, &visit.RUT, &visit.Name, &visit.Company, &visit.RosterStatus, &visit.AuthorizedBy, &visit.Host, &visit.Location, &visit.CardNumber, &visit.Plate, &visit.Date, &visit.CheckIn, &visit.CheckOut, &visit.RecordedBy}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		visits = append(visits, visit)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return visits, nil
}
