package seed

import (
	"context"
	"log/slog"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/repository"
)

// baseRules son las jornadas reales de la planta. Es el punto de partida
// para una instalación nueva; después se ajustan por la API.
var baseRules = []*domain.ScheduleRule{
	{
		Name:            "JORNADA ADMINISTRATIVA",
		Area:            "ADMINISTRACIÓN",
		StartTime:       "08:30:00",
		EndTime:         "18:00:00",
		LunchStart:      "13:00:00",
		LunchEnd:        "14:00:00",
		MaxLunchMinutes: 60,
		GraceMinutes:    10,
	},
	{
		Name:            "TURNO DÍA PACKING",
		Area:            "PACKING",
		StartTime:       "08:00:00",
		EndTime:         "17:00:00",
		LunchStart:      "12:30:00",
		LunchEnd:        "13:15:00",
		MaxLunchMinutes: 45,
		GraceMinutes:    5,
	},
	{
		Name:            "TURNO DÍA FRIGORÍFICO",
		Area:            "FRIGORÍFICO",
		StartTime:       "07:30:00",
		EndTime:         "16:30:00",
		LunchStart:      "12:00:00",
		LunchEnd:        "12:45:00",
		MaxLunchMinutes: 45,
		GraceMinutes:    5,
	},
	{
		Name:            "TURNO NOCHE",
		ShiftKeyword:    "NOCHE",
		StartTime:       "20:00:00",
		EndTime:         "05:00:00",
		Overnight:       true,
		LunchStart:      "00:00:00",
		LunchEnd:        "00:45:00",
		MaxLunchMinutes: 45,
		GraceMinutes:    10,
	},
	{
		Name:            "JORNADA GENERAL",
		StartTime:       "08:00:00",
		EndTime:         "17:30:00",
		LunchStart:      "13:00:00",
		LunchEnd:        "13:45:00",
		MaxLunchMinutes: 45,
		GraceMinutes:    5,
	},
}

var baseRoutes = []*domain.Route{
	{Name: "PLANTA AURORA - SAN FELIPE", Origin: "PLANTA AURORA", Destination: "SAN FELIPE", Active: true},
	{Name: "PLANTA AURORA - LOS ANDES", Origin: "PLANTA AURORA", Destination: "LOS ANDES", Active: true},
	{Name: "PLANTA AURORA - PUTAENDO", Origin: "PLANTA AURORA", Destination: "PUTAENDO", Active: true},
	{Name: "PLANTA AURORA - CATEMU", Origin: "PLANTA AURORA", Destination: "CATEMU", Active: true},
}

var baseVehicles = []*domain.Vehicle{
	{Plate: "GHXT21", Kind: domain.VehicleBus, Brand: "MERCEDES BENZ", Model: "O500", Capacity: 45, BaseFare: 80000, Active: true},
	{Plate: "JKWP53", Kind: domain.VehicleBus, Brand: "MERCEDES BENZ", Model: "O500", Capacity: 45, BaseFare: 80000, Active: true},
	{Plate: "LRSV07", Kind: domain.VehicleMinibus, Brand: "HYUNDAI", Model: "COUNTY", Capacity: 20, BaseFare: 50000, Active: true},
	{Plate: "BWTD84", Kind: domain.VehicleVan, Brand: "PEUGEOT", Model: "BOXER", Capacity: 12, BaseFare: 35000, Active: true},
}

// SeedRealData carga la configuración inicial de la planta: jornadas,
// recorridos y flota base.
func SeedRealData(r *repository.Repository) {
	ctx := context.Background()

	for _, rule := range baseRules {
		if err := r.CreateScheduleRule(ctx, rule); err != nil {
			slog.Error("no se pudo insertar la regla de horario", "name", rule.Name, "error", err)
			return
		}
	}
	slog.Info("reglas de horario insertadas", "count", len(baseRules))

	for _, route := range baseRoutes {
		if err := r.CreateRoute(ctx, route); err != nil {
			slog.Error("no se pudo insertar el recorrido", "name", route.Name, "error", err)
			return
		}
	}
	slog.Info("recorridos insertados", "count", len(baseRoutes))

	for _, vehicle := range baseVehicles {
		if err := r.CreateVehicle(ctx, vehicle); err != nil {
			slog.Error("no se pudo insertar el vehículo", "plate", vehicle.Plate, "error", err)
			return
		}
	}
	slog.Info("vehículos insertados", "count", len(baseVehicles))

	slog.Info("carga inicial completada")
}
