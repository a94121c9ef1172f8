package domain

import (
	"time"
)

type WorkerStatus string

const (
	WorkerStatusActive     WorkerStatus = "VIGENTE"
	WorkerStatusTerminated WorkerStatus = "FINIQUITADO"
	WorkerStatusBlocked    WorkerStatus = "BLOQUEADO"
)

// Worker es un colaborador de la dotación. La clave natural es el RUT
// normalizado (sin puntos, con dígito verificador). Nunca se borra: los
// finiquitados quedan con estado FINIQUITADO.
type Worker struct {
	RUT        string       `json:"rut"`
	FullName   string       `json:"fullName"`
	Area       string       `json:"area"`
	Section    string       `json:"section"`
	Position   string       `json:"position"`
	ShiftLabel string       `json:"shiftLabel"`
	Status     WorkerStatus `json:"status"`
	HireDate   *time.Time   `json:"hireDate"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	CreatedAt  time.Time    `json:"createdAt"`
	Version    int32        `json:"-"`
}

func (w *Worker) IsActive() bool {
	return w.Status == WorkerStatusActive
}
