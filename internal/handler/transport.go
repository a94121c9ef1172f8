package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
)

func (h *Handler) GetAllVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.repository.GetAllVehicles(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "vehículos obtenidos", vehicles)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plate    string `json:"plate" validate:"required"`
		Kind     string `json:"kind" validate:"required,oneof=BUS MINIBUS VAN AUTO CAMIONETA"`
		Brand    string `json:"brand"`
		Model    string `json:"model"`
		Capacity int    `json:"capacity" validate:"required,gt=0"`
		BaseFare int    `json:"baseFare" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vehicle := &domain.Vehicle{
		Plate:    req.Plate,
		Kind:     domain.VehicleKind(req.Kind),
		Brand:    req.Brand,
		Model:    req.Model,
		Capacity: req.Capacity,
		BaseFare: req.BaseFare,
		Active:   true,
	}

	if err := h.repository.CreateVehicle(r.Context(), vehicle); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "vehicles_plate_key":
			h.badRequest(w, r, errors.New("la patente ya está registrada"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "vehículo creado", vehicle)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "el id del vehículo no es válido")
		return
	}

	vehicle, err := h.repository.GetVehicleByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "el vehículo no existe")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var req struct {
		Plate    *string `json:"plate"`
		Kind     *string `json:"kind" validate:"omitempty,oneof=BUS MINIBUS VAN AUTO CAMIONETA"`
		Brand    *string `json:"brand"`
		Model    *string `json:"model"`
		Capacity *int    `json:"capacity" validate:"omitempty,gt=0"`
		BaseFare *int    `json:"baseFare" validate:"omitempty,gte=0"`
		Active   *bool   `json:"active"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Plate != nil {
		vehicle.Plate = *req.Plate
	}
	if req.Kind != nil {
		vehicle.Kind = domain.VehicleKind(*req.Kind)
	}
	if req.Brand != nil {
		vehicle.Brand = *req.Brand
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Capacity != nil {
		vehicle.Capacity = *req.Capacity
	}
	if req.BaseFare != nil {
		vehicle.BaseFare = *req.BaseFare
	}
	if req.Active != nil {
		vehicle.Active = *req.Active
	}

	if err := h.repository.UpdateVehicle(r.Context(), vehicle); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no se pudo actualizar el vehículo, intente nuevamente")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "vehículo actualizado", vehicle)
}

func (h *Handler) GetAllDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.repository.GetAllDrivers(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "conductores obtenidos", drivers)
}

func (h *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		RUT      string `json:"rut" validate:"required,rut"`
		Phone    string `json:"phone"`
		External bool   `json:"external"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	driver := &domain.Driver{
		Name:     req.Name,
		RUT:      rut.Normalize(req.RUT),
		Phone:    req.Phone,
		External: req.External,
		Active:   true,
	}

	if err := h.repository.CreateDriver(r.Context(), driver); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "drivers_rut_key":
			h.badRequest(w, r, errors.New("el RUT del conductor ya está registrado"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "conductor creado", driver)
}

func (h *Handler) GetAllRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.repository.GetAllRoutes(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "recorridos obtenidos", routes)
}

func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Origin      string `json:"origin" validate:"required"`
		Destination string `json:"destination" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	route := &domain.Route{
		Name:        req.Name,
		Origin:      req.Origin,
		Destination: req.Destination,
		Active:      true,
	}

	if err := h.repository.CreateRoute(r.Context(), route); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "recorrido creado", route)
}

// RegisterDeparture anota en garita la salida de un servicio. La tarifa
// hereda el valor base del vehículo si no viene, y el porcentaje de
// ocupación se calcula contra la capacidad.
func (h *Handler) RegisterDeparture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RouteID    int64 `json:"routeId" validate:"required"`
		VehicleID  int64 `json:"vehicleId" validate:"required"`
		DriverID   int64 `json:"driverId" validate:"required"`
		Passengers int   `json:"passengers" validate:"gte=0"`
		Fare       int   `json:"fare" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vehicle, err := h.repository.GetVehicleByID(r.Context(), req.VehicleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "el vehículo no existe")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if req.Passengers > vehicle.Capacity {
		h.errorResponse(w, r, fmt.Sprintf("los pasajeros superan la capacidad del vehículo (%d)", vehicle.Capacity))
		return
	}

	fare := req.Fare
	if fare == 0 {
		fare = vehicle.BaseFare
	}

	var occupancy float64
	if vehicle.Capacity > 0 {
		occupancy = math.Round(float64(req.Passengers)/float64(vehicle.Capacity)*10000) / 100
	}

	recordedBy, _ := r.Context().Value(SubCtxKey).(string)

	log := &domain.DepartureLog{
		RouteID:      req.RouteID,
		VehicleID:    req.VehicleID,
		DriverID:     req.DriverID,
		Passengers:   req.Passengers,
		OccupancyPct: occupancy,
		Fare:         fare,
		RecordedBy:   recordedBy,
	}

	if err := h.repository.CreateDepartureLog(r.Context(), log); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			h.badRequest(w, r, errors.New("el recorrido, vehículo o conductor no existe"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "salida de servicio registrada", log)
}

func (h *Handler) GetDepartures(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.summaryRange(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	logs, err := h.repository.GetDepartureLogs(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "salidas obtenidas", logs)
}

// GetTransportKPIs arma el dashboard de transporte. Mismo esquema de
// caché que el resumen de anomalías.
func (h *Handler) GetTransportKPIs(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.summaryRange(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	cacheKey := fmt.Sprintf("transport_kpis_%s_%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if cached, err := h.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var kpis domain.TransportKPIs
		if err := json.Unmarshal([]byte(cached), &kpis); err == nil {
			h.successResponse(w, r, "indicadores de transporte obtenidos", &kpis)
			return
		}
	} else if !errors.Is(err, redis.Nil) {
		h.logInternalServerError(r, err)
	}

	kpis, err := h.repository.GetTransportKPIs(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if encoded, err := json.Marshal(kpis); err == nil {
		ttl := time.Duration(h.config.Analysis.DashboardCacheTTL) * time.Second
		if err := h.redisClient.Set(ctx, cacheKey, encoded, ttl).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.successResponse(w, r, "indicadores de transporte obtenidos", kpis)
}
