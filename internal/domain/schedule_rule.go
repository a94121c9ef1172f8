package domain

import (
	"time"
)

// ScheduleRule define la jornada teórica contra la que se evalúa la
// asistencia. Los filtros Area y ShiftKeyword acotan a qué colaboradores
// aplica; ambos vacíos = regla genérica para toda la planta.
//
// Las horas se guardan como texto HH:MM:SS, igual que vienen del reloj
// control, y se parsean en el punto de uso.
type ScheduleRule struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Area         string `json:"area"`
	ShiftKeyword string `json:"shiftKeyword"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	// Overnight marca jornadas que terminan al día calendario siguiente.
	Overnight        bool      `json:"overnight"`
	LunchStart       string    `json:"lunchStart"`
	LunchEnd         string    `json:"lunchEnd"`
	MaxLunchMinutes  int       `json:"maxLunchMinutes"`
	GraceMinutes     int       `json:"graceMinutes"`
	CreatedAt        time.Time `json:"createdAt"`
	Version          int32     `json:"-"`
}
