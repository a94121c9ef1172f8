package domain

import (
	"time"
)

type AnomalyKind string

const (
	AnomalyAbsence        AnomalyKind = "FALTA"
	AnomalyLateArrival    AnomalyKind = "ATRASO"
	AnomalyEarlyDeparture AnomalyKind = "SALIDA_ANTICIPADA"
	AnomalyExcessLunch    AnomalyKind = "EXCESO_COLACION"
	AnomalyOddMarking     AnomalyKind = "IMPAR"
)

// Anomaly es una desviación detectada para un colaborador en un día.
// Única por (rut, fecha, tipo): reanalizar un día reemplaza, no duplica.
type Anomaly struct {
	ID          int64       `json:"id"`
	RUT         string      `json:"rut"`
	Date        time.Time   `json:"date"`
	Kind        AnomalyKind `json:"kind"`
	Detail      string      `json:"detail"`
	MinutesLost int         `json:"minutesLost"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// AnomalySummaryRow es una fila de los agregados del dashboard
// (conteo y minutos perdidos agrupados por tipo, área o semana).
type AnomalySummaryRow struct {
	Group       string `json:"group"`
	Count       int    `json:"count"`
	MinutesLost int    `json:"minutesLost"`
}
