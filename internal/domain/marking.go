package domain

import (
	"time"

	"github.com/google/uuid"
)

type Movement string

const (
	MovementIn  Movement = "ENTRADA"
	MovementOut Movement = "SALIDA"
)

// Marking es un marcaje individual del reloj control, tal como viene en el
// Reporte de Estadía. Se persiste como bitácora de auditoría, único por
// (rut, fecha, hora).
type Marking struct {
	ID        int64     `json:"id"`
	RUT       string    `json:"rut"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"` // HH:MM:SS
	Movement  Movement  `json:"movement"`
	Device    string    `json:"device"`
	BatchID   uuid.UUID `json:"batchId"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttendanceDay resume la jornada de un colaborador: primera entrada y
// última salida del día. Se recalcula en cada importación.
type AttendanceDay struct {
	ID        int64     `json:"id"`
	RUT       string    `json:"rut"`
	Date      time.Time `json:"date"`
	FirstIn   *string   `json:"firstIn"`  // HH:MM:SS, nil si no marcó entrada
	LastOut   *string   `json:"lastOut"`  // HH:MM:SS, nil si no marcó salida
	BatchID   uuid.UUID `json:"batchId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImportBatch identifica una carga de archivo (fichas o estadía) y guarda
// el resumen que se le muestra al usuario.
type ImportBatch struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"` // fichas | estadia
	SourceName string    `json:"sourceName"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Errored    int       `json:"errored"`
	CreatedAt  time.Time `json:"createdAt"`
}
