package attendance

import (
	"testing"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "PRODUCCION", Fold("  Producción "))
	assert.Equal(t, "FRIGORIFICO TUNEL", Fold("frigorífico túnel"))
	assert.Equal(t, "", Fold("   "))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   any
		want time.Time
		ok   bool
	}{
		{"10-06-2025", want, true},
		{"10/06/2025", want, true},
		{"2025-06-10", want, true},
		{" 10-06-2025 ", want, true},
		{time.Date(2025, 6, 10, 14, 33, 0, 0, time.UTC), want, true},
		{"None", time.Time{}, false},
		{"nan", time.Time{}, false},
		{"", time.Time{}, false},
		{nil, time.Time{}, false},
		{"31-02-2025", time.Time{}, false},
		{"10.06.2025", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, "input %v", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %v", tt.in)
		}
	}
}

func TestParseClock(t *testing.T) {
	c, ok := ParseClock("08:05:30")
	require.True(t, ok)
	assert.Equal(t, 8, c.Hour())
	assert.Equal(t, 5, c.Minute())
	assert.Equal(t, 30, c.Second())

	c, ok = ParseClock("17:45")
	require.True(t, ok)
	assert.Equal(t, 17, c.Hour())
	assert.Equal(t, 45, c.Minute())

	_, ok = ParseClock("25:00")
	assert.False(t, ok)
	_, ok = ParseClock("")
	assert.False(t, ok)
	_, ok = ParseClock(nil)
	assert.False(t, ok)
}

func TestParseMovement(t *testing.T) {
	tests := []struct {
		in   any
		want domain.Movement
		ok   bool
	}{
		{"ENTRADA", domain.MovementIn, true},
		{"entrada", domain.MovementIn, true},
		{" Salida ", domain.MovementOut, true},
		{"SALÍDA", domain.MovementOut, true},
		{"ALMUERZO", "", false},
		{"", "", false},
		{nil, "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMovement(tt.in)
		assert.Equal(t, tt.ok, ok, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestNormalizeEvent(t *testing.T) {
	ev, ok := NormalizeEvent("12.345.670-k", "10-06-2025", "08:02:11", "Entrada")
	require.True(t, ok)
	assert.Equal(t, "12345670K", ev.RUT)
	assert.Equal(t, time.Date(2025, 6, 10, 8, 2, 11, 0, time.UTC), ev.Timestamp)
	assert.Equal(t, domain.MovementIn, ev.Movement)

	// cualquier celda inutilizable rechaza la fila completa
	_, ok = NormalizeEvent("", "10-06-2025", "08:02", "ENTRADA")
	assert.False(t, ok)
	_, ok = NormalizeEvent("123456785", "sin fecha", "08:02", "ENTRADA")
	assert.False(t, ok)
	_, ok = NormalizeEvent("123456785", "10-06-2025", "tarde", "ENTRADA")
	assert.False(t, ok)
	_, ok = NormalizeEvent("123456785", "10-06-2025", "08:02", "COLACION")
	assert.False(t, ok)
}

func TestDateOfAndCombine(t *testing.T) {
	ts := time.Date(2025, 6, 10, 23, 59, 58, 123, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), DateOf(ts))

	clock, _ := time.Parse("15:04:05", "08:30:00")
	got := Combine(DateOf(ts), clock)
	assert.Equal(t, time.Date(2025, 6, 10, 8, 30, 0, 0, time.UTC), got)
}
