package attendance

import (
	"strings"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// MatchRule elige la única regla de jornada aplicable a un colaborador,
// o nil si ninguna aplica. El recorrido es lineal y sensible al orden del
// listado: con decenas de reglas no se justifica indexar.
//
// Orden de especificidad:
//  1. candidatas = reglas sin área o cuya área está contenida en el área
//     del colaborador (sin distinguir mayúsculas ni tildes)
//  2. primera candidata cuya palabra clave aparece en el turno
//  3. primera candidata genérica (sin palabra clave)
//  4. primera candidata disponible
func MatchRule(w *domain.Worker, rules []*domain.ScheduleRule) *domain.ScheduleRule {
	workerArea := Fold(w.Area)
	workerShift := Fold(w.ShiftLabel)

	var candidates []*domain.ScheduleRule
	for _, r := range rules {
		ruleArea := Fold(r.Area)
		if ruleArea == "" || strings.Contains(workerArea, ruleArea) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	for _, c := range candidates {
		keyword := Fold(c.ShiftKeyword)
		if keyword != "" && strings.Contains(workerShift, keyword) {
			return c
		}
	}

	for _, c := range candidates {
		if Fold(c.ShiftKeyword) == "" {
			return c
		}
	}

	return candidates[0]
}
