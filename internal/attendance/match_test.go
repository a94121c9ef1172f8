package attendance

import (
	"testing"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRule(t *testing.T) {
	generic := &domain.ScheduleRule{Name: "Genérica Planta"}
	packingDay := &domain.ScheduleRule{Name: "Packing Día", Area: "PACKING", ShiftKeyword: "08:00"}
	packingNight := &domain.ScheduleRule{Name: "Packing Noche", Area: "PACKING", ShiftKeyword: "NOCHE"}
	frioGeneric := &domain.ScheduleRule{Name: "Frío Genérica", Area: "FRIGORÍFICO"}

	rules := []*domain.ScheduleRule{generic, packingDay, packingNight, frioGeneric}

	tests := []struct {
		name   string
		worker domain.Worker
		want   *domain.ScheduleRule
	}{
		{
			// la regla con palabra clave gana sobre la genérica aunque la
			// genérica aparezca antes en el listado
			name:   "keyword beats earlier generic",
			worker: domain.Worker{Area: "PACKING", ShiftLabel: "TURNO NOCHE"},
			want:   packingNight,
		},
		{
			name:   "keyword by shift text",
			worker: domain.Worker{Area: "PACKING FRUTA", ShiftLabel: "LUN-VIE 08:00 A 17:00"},
			want:   packingDay,
		},
		{
			name:   "generic fallback when no keyword matches",
			worker: domain.Worker{Area: "PACKING", ShiftLabel: "TURNO ROTATIVO"},
			want:   generic,
		},
		{
			name:   "accent insensitive area",
			worker: domain.Worker{Area: "FRIGORIFICO TÚNEL", ShiftLabel: ""},
			want:   generic, // la genérica sin área también es candidata y no tiene palabra clave
		},
		{
			name:   "empty area worker only matches arealess rules",
			worker: domain.Worker{Area: "", ShiftLabel: "NOCHE"},
			want:   generic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRule(&tt.worker, rules)
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Name, got.Name)
		})
	}
}

func TestMatchRule_NoCandidates(t *testing.T) {
	rules := []*domain.ScheduleRule{
		{Name: "Packing", Area: "PACKING"},
	}
	w := &domain.Worker{Area: "ADMINISTRACION", ShiftLabel: "08:00"}
	assert.Nil(t, MatchRule(w, rules))
}

func TestMatchRule_FallbackFirstCandidate(t *testing.T) {
	// todas las candidatas tienen palabra clave y ninguna calza: se fuerza
	// la primera candidata disponible
	rules := []*domain.ScheduleRule{
		{Name: "Día", Area: "PACKING", ShiftKeyword: "08:00"},
		{Name: "Noche", Area: "PACKING", ShiftKeyword: "NOCHE"},
	}
	w := &domain.Worker{Area: "PACKING", ShiftLabel: "ROTATIVO"}
	got := MatchRule(w, rules)
	require.NotNil(t, got)
	assert.Equal(t, "Día", got.Name)
}
