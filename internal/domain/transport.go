package domain

import (
	"time"
)

type VehicleKind string

const (
	VehicleBus     VehicleKind = "BUS"
	VehicleMinibus VehicleKind = "MINIBUS"
	VehicleVan     VehicleKind = "VAN"
	VehicleCar     VehicleKind = "AUTO"
	VehiclePickup  VehicleKind = "CAMIONETA"
)

type Vehicle struct {
	ID       int64       `json:"id"`
	Plate    string      `json:"plate"`
	Kind     VehicleKind `json:"kind"`
	Brand    string      `json:"brand"`
	Model    string      `json:"model"`
	Capacity int         `json:"capacity"`
	// BaseFare es el costo estándar por servicio de este vehículo; el
	// registro de salida lo hereda si no se indica otro valor.
	BaseFare int       `json:"baseFare"`
	Active   bool      `json:"active"`
	Version  int32     `json:"-"`
	Created  time.Time `json:"createdAt"`
}

type Driver struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	RUT      string    `json:"rut"`
	Phone    string    `json:"phone"`
	External bool      `json:"external"`
	Active   bool      `json:"active"`
	Created  time.Time `json:"createdAt"`
}

type Route struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Active      bool      `json:"active"`
	Created     time.Time `json:"createdAt"`
}

// DepartureLog es un registro de la garita: un servicio de transporte que
// salió de planta. OccupancyPct y Fare se calculan al crear si vienen en
// cero (ocupación desde la capacidad, tarifa desde el vehículo).
type DepartureLog struct {
	ID           int64     `json:"id"`
	RouteID      int64     `json:"routeId"`
	VehicleID    int64     `json:"vehicleId"`
	DriverID     int64     `json:"driverId"`
	Passengers   int       `json:"passengers"`
	OccupancyPct float64   `json:"occupancyPct"`
	Fare         int       `json:"fare"`
	RecordedBy   string    `json:"recordedBy"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// TransportKPIs agrupa los agregados del dashboard de transporte.
type TransportKPIs struct {
	WeeklyCost        []KPIRow `json:"weeklyCost"`
	OccupancyByVeh    []KPIRow `json:"occupancyByVehicle"`
	OccupancyByKind   []KPIRow `json:"occupancyByKind"`
	CostByKind        []KPIRow `json:"costByKind"`
	CostByRoute       []KPIRow `json:"costByRoute"`
	CostPerPax        float64  `json:"costPerPassenger"`
	CostPerPaxByVeh   []KPIRow `json:"costPerPassengerByVehicle"`
	CostPerPaxByRoute []KPIRow `json:"costPerPassengerByRoute"`
}

type KPIRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
