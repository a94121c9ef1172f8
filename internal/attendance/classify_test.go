package attendance

import (
	"testing"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayRule(grace int) *domain.ScheduleRule {
	return &domain.ScheduleRule{
		Name:            "Turno Día",
		StartTime:       "08:00:00",
		EndTime:         "17:00:00",
		LunchStart:      "12:00:00",
		LunchEnd:        "13:00:00",
		MaxLunchMinutes: 60,
		GraceMinutes:    grace,
	}
}

func at(date time.Time, clock string) time.Time {
	c, err := time.Parse("15:04:05", clock+":00")
	if err != nil {
		c, _ = time.Parse("15:04:05", clock)
	}
	return Combine(date, c)
}

func TestClassifyDay_LateArrival(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		grace    int
		entry    string
		wantLate bool
		wantLost int
	}{
		{name: "within grace", grace: 25, entry: "08:20", wantLate: false},
		{name: "over grace", grace: 10, entry: "08:20", wantLate: true, wantLost: 20},
		{name: "exactly grace does not fire", grace: 20, entry: "08:20", wantLate: false},
		{name: "on time", grace: 15, entry: "07:58", wantLate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := DayTimes{
				Entries: []time.Time{at(tuesday, tt.entry)},
				Exits:   []time.Time{at(tuesday, "17:00")},
			}

			anomalies := Classifier{}.ClassifyDay("123456785", tuesday, dayRule(tt.grace), day)

			var late *domain.Anomaly
			for i := range anomalies {
				if anomalies[i].Kind == domain.AnomalyLateArrival {
					late = &anomalies[i]
				}
			}

			if !tt.wantLate {
				assert.Nil(t, late)
				return
			}
			require.NotNil(t, late)
			assert.Equal(t, tt.wantLost, late.MinutesLost)
		})
	}
}

func TestClassifyDay_Absence(t *testing.T) {
	cls := Classifier{}

	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	anomalies := cls.ClassifyDay("123456785", tuesday, dayRule(15), DayTimes{})
	require.Len(t, anomalies, 1)
	assert.Equal(t, domain.AnomalyAbsence, anomalies[0].Kind)
	assert.Equal(t, 480, anomalies[0].MinutesLost)

	saturday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, cls.ClassifyDay("123456785", saturday, dayRule(15), DayTimes{}))

	sunday := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, cls.ClassifyDay("123456785", sunday, dayRule(15), DayTimes{}))
}

func TestClassifyDay_OddMarkingStopsAnalysis(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	// entrada tardísima pero sin salida: sólo debe salir IMPAR
	day := DayTimes{Entries: []time.Time{at(tuesday, "10:30")}}
	anomalies := Classifier{}.ClassifyDay("123456785", tuesday, dayRule(15), day)
	require.Len(t, anomalies, 1)
	assert.Equal(t, domain.AnomalyOddMarking, anomalies[0].Kind)
	assert.Contains(t, anomalies[0].Detail, "falta salida")

	day = DayTimes{Exits: []time.Time{at(tuesday, "17:00")}}
	anomalies = Classifier{}.ClassifyDay("123456785", tuesday, dayRule(15), day)
	require.Len(t, anomalies, 1)
	assert.Equal(t, domain.AnomalyOddMarking, anomalies[0].Kind)
	assert.Contains(t, anomalies[0].Detail, "falta entrada")
}

func TestClassifyDay_ExcessLunch(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	day := DayTimes{
		Entries: []time.Time{at(tuesday, "08:00"), at(tuesday, "13:30")},
		Exits:   []time.Time{at(tuesday, "12:00"), at(tuesday, "17:00")},
	}

	// 90 min de colación > 60 permitidos + 15 de holgura
	anomalies := Classifier{}.ClassifyDay("123456785", tuesday, dayRule(15), day)

	var lunch *domain.Anomaly
	for i := range anomalies {
		if anomalies[i].Kind == domain.AnomalyExcessLunch {
			lunch = &anomalies[i]
		}
	}
	require.NotNil(t, lunch)
	assert.Equal(t, 30, lunch.MinutesLost)

	// 70 min queda dentro de la holgura
	day.Entries[1] = at(tuesday, "13:10")
	anomalies = Classifier{}.ClassifyDay("123456785", tuesday, dayRule(15), day)
	for _, a := range anomalies {
		assert.NotEqual(t, domain.AnomalyExcessLunch, a.Kind)
	}
}

func TestClassifyDay_EarlyDeparture(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	day := DayTimes{
		Entries: []time.Time{at(tuesday, "08:00")},
		Exits:   []time.Time{at(tuesday, "16:00")},
	}

	anomalies := Classifier{}.ClassifyDay("123456785", tuesday, dayRule(15), day)
	require.Len(t, anomalies, 1)
	assert.Equal(t, domain.AnomalyEarlyDeparture, anomalies[0].Kind)
	assert.Equal(t, 60, anomalies[0].MinutesLost)
}

func TestClassifyDay_OvernightShift(t *testing.T) {
	rule := &domain.ScheduleRule{
		Name:            "Turno Noche",
		StartTime:       "22:00:00",
		EndTime:         "06:00:00",
		Overnight:       true,
		MaxLunchMinutes: 30,
		GraceMinutes:    15,
	}

	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	nextDay := monday.AddDate(0, 0, 1)

	// entrada de madrugada: la entrada teórica se corre al día siguiente,
	// así que 01:00 contra 22:00 del lunes no es un atraso de tres horas
	day := DayTimes{
		Entries: []time.Time{at(nextDay, "01:00")},
		Exits:   []time.Time{at(nextDay, "06:00")},
	}
	anomalies := Classifier{}.ClassifyDay("123456785", monday, rule, day)
	for _, a := range anomalies {
		assert.NotEqual(t, domain.AnomalyLateArrival, a.Kind)
	}

	// entrada nocturna atrasada de verdad
	day = DayTimes{
		Entries: []time.Time{at(monday, "22:40")},
		Exits:   []time.Time{at(nextDay, "06:00")},
	}
	anomalies = Classifier{}.ClassifyDay("123456785", monday, rule, day)
	require.Len(t, anomalies, 1)
	assert.Equal(t, domain.AnomalyLateArrival, anomalies[0].Kind)
	assert.Equal(t, 40, anomalies[0].MinutesLost)
}

// Clasificar dos veces la misma jornada produce exactamente el mismo
// conjunto de anomalías.
func TestClassifyDay_Deterministic(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	day := DayTimes{
		Entries: []time.Time{at(tuesday, "08:40"), at(tuesday, "13:45")},
		Exits:   []time.Time{at(tuesday, "12:00"), at(tuesday, "16:00")},
	}

	first := Classifier{}.ClassifyDay("123456785", tuesday, dayRule(10), day)
	second := Classifier{}.ClassifyDay("123456785", tuesday, dayRule(10), day)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}
