package attendance

import (
	"testing"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	other := day.AddDate(0, 0, 1)

	events := []Event{
		{RUT: "123456785", Timestamp: at(day, "17:01"), Movement: domain.MovementOut},
		{RUT: "123456785", Timestamp: at(day, "08:02"), Movement: domain.MovementIn},
		{RUT: "123456785", Timestamp: at(day, "12:00"), Movement: domain.MovementOut},
		{RUT: "123456785", Timestamp: at(day, "13:00"), Movement: domain.MovementIn},
		{RUT: "123456785", Timestamp: at(other, "08:00"), Movement: domain.MovementIn},
		{RUT: "96547213", Timestamp: at(day, "08:10"), Movement: domain.MovementIn},
	}

	buckets := Aggregate(events)
	require.Len(t, buckets, 3)

	b := buckets[DayKey{RUT: "123456785", Date: day}]
	require.NotNil(t, b)
	// cada lista queda ordenada ascendente
	assert.Equal(t, []time.Time{at(day, "08:02"), at(day, "13:00")}, b.Entries)
	assert.Equal(t, []time.Time{at(day, "12:00"), at(day, "17:01")}, b.Exits)

	first, ok := b.FirstIn()
	require.True(t, ok)
	assert.Equal(t, at(day, "08:02"), first)

	last, ok := b.LastOut()
	require.True(t, ok)
	assert.Equal(t, at(day, "17:01"), last)

	assert.Equal(t, []time.Time{
		at(day, "08:02"), at(day, "12:00"), at(day, "13:00"), at(day, "17:01"),
	}, b.All())

	// día con una sola entrada
	nb := buckets[DayKey{RUT: "123456785", Date: other}]
	require.NotNil(t, nb)
	assert.True(t, nb.Unpaired())
	assert.False(t, nb.Empty())

	_, ok = nb.LastOut()
	assert.False(t, ok)
}

func TestDayTimes_EmptyAndUnpaired(t *testing.T) {
	var d DayTimes
	assert.True(t, d.Empty())
	assert.False(t, d.Unpaired())

	d.Exits = append(d.Exits, time.Now())
	assert.False(t, d.Empty())
	assert.True(t, d.Unpaired())

	d.Entries = append(d.Entries, time.Now())
	assert.False(t, d.Unpaired())
}
