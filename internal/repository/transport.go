package repository

import (
	"context"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

func (r *Repository) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO vehicles (plate, kind, brand, model, capacity, base_fare, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	args := []any{vehicle.Plate, vehicle.Kind, vehicle.Brand, vehicle.Model, vehicle.Capacity, vehicle.BaseFare, vehicle.Active}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&vehicle.ID, &vehicle.Created, &vehicle.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetVehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `
		SELECT plate, kind, brand, model, capacity, base_fare, active, created_at, version
		FROM vehicles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	vehicle := &domain.Vehicle{
		ID: id,
	}

	dst := []any{&vehicle.Plate, &vehicle.Kind, &vehicle.Brand, &vehicle.Model, &vehicle.Capacity, &vehicle.BaseFare, &vehicle.Active, &vehicle.Created, &vehicle.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return vehicle, nil
}

func (r *Repository) GetAllVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, plate, kind, brand, model, capacity, base_fare, active, created_at, version
		FROM vehicles ORDER BY plate
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		dst := []any{&vehicle.ID, &vehicle.Plate, &vehicle.Kind, &vehicle.Brand, &vehicle.Model, &vehicle.Capacity, &vehicle.BaseFare, &vehicle.Active, &vehicle.Created, &vehicle.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (r *Repository) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET
			plate = $1,
			kind = $2,
			brand = $3,
			model = $4,
			capacity = $5,
			base_fare = $6,
			active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{vehicle.Plate, vehicle.Kind, vehicle.Brand, vehicle.Model, vehicle.Capacity, vehicle.BaseFare, vehicle.Active, vehicle.ID, vehicle.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&vehicle.Created, &vehicle.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateDriver(ctx context.Context, driver *domain.Driver) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO drivers (name, rut, phone, external, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	args := []any{driver.Name, driver.RUT, driver.Phone, driver.External, driver.Active}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&driver.ID, &driver.Created); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllDrivers(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT id, name, rut, phone, external, active, created_at
		FROM drivers ORDER BY name
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0)
	for rows.Next() {
		driver := &domain.Driver{}
		dst := []any{&driver.ID, &driver.Name, &driver.RUT, &driver.Phone, &driver.External, &driver.Active, &driver.Created}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}

func (r *Repository) CreateRoute(ctx context.Context, route *domain.Route) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO routes (name, origin, destination, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	args := []any{route.Name, route.Origin, route.Destination, route.Active}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&route.ID, &route.Created); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllRoutes(ctx context.Context) ([]*domain.Route, error) {
	query := `
		SELECT id, name, origin, destination, active, created_at
		FROM routes ORDER BY name
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0)
	for rows.Next() {
		route := &domain.Route{}
		dst := []any{&route.ID, &route.Name, &route.Origin, &route.Destination, &route.Active, &route.Created}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}

func (r *Repository) CreateDepartureLog(ctx context.Context, log *domain.DepartureLog) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO departure_logs (route_id, vehicle_id, driver_id, passengers, occupancy_pct, fare, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, recorded_at
	`

	args := []any{log.RouteID, log.VehicleID, log.DriverID, log.Passengers, log.OccupancyPct, log.Fare, log.RecordedBy}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&log.ID, &log.RecordedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetDepartureLogs(ctx context.Context, from, to time.Time) ([]*domain.DepartureLog, error) {
	query := `
		SELECT id, route_id, vehicle_id, driver_id, passengers, occupancy_pct, fare, recorded_by, recorded_at
		FROM departure_logs
		WHERE recorded_at >= $1 AND recorded_at < $2
		ORDER BY recorded_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.DepartureLog, 0)
	for rows.Next() {
		log := &domain.DepartureLog{}
		dst := []any{&log.ID, &log.RouteID, &log.VehicleID, &log.DriverID, &log.Passengers, &log.OccupancyPct, &log.Fare, &log.RecordedBy, &log.RecordedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
