package telemetry

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 4, 15, 42, 0, 0, time.UTC)
}

func TestSimulatorSnapshotKnownVehicle(t *testing.T) {
	sim := NewSimulator(WithSeed(1), WithClock(fixedClock))

	s, err := sim.Snapshot(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, "1", s.VehicleID)
	assert.Equal(t, 65.0, s.Speed)
	assert.Equal(t, 87.0, s.Battery)
	assert.Equal(t, "Mumbai, MH", s.Location)
	assert.Equal(t, fixedClock(), s.ObservedAt)
}

func TestSimulatorSnapshotIsStablePerVehicle(t *testing.T) {
	sim := NewSimulator(WithSeed(7), WithClock(fixedClock))
	ctx := context.Background()

	a, err := sim.Snapshot(ctx, "new-vehicle")
	require.NoError(t, err)
	b, err := sim.Snapshot(ctx, "new-vehicle")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.Battery, 30.0)
	assert.LessOrEqual(t, a.Battery, 100.0)
}

func TestSimulatorHistory(t *testing.T) {
	sim := NewSimulator(WithSeed(42), WithClock(fixedClock))
	ctx := context.Background()

	h, err := sim.History(ctx, "2")
	require.NoError(t, err)

	require.Len(t, h.Speed, DefaultWindow)
	require.Len(t, h.Battery, DefaultWindow)
	require.Len(t, h.Temperature, DefaultWindow)

	end := fixedClock().Truncate(time.Hour)
	assert.Equal(t, end, h.Speed[DefaultWindow-1].Timestamp)
	assert.Equal(t, end.Add(-23*time.Hour), h.Speed[0].Timestamp)

	for i := range h.Speed {
		assert.GreaterOrEqual(t, h.Speed[i].Value, 0.0)
		assert.LessOrEqual(t, h.Speed[i].Value, 120.0)
		assert.GreaterOrEqual(t, h.Temperature[i].Value, 15.0)
		assert.LessOrEqual(t, h.Temperature[i].Value, 40.0)
		assert.LessOrEqual(t, h.Battery[i].Value, 100.0)
		if i > 0 {
			assert.LessOrEqual(t, math.Abs(h.Speed[i].Value-h.Speed[i-1].Value), 10.0)
			assert.LessOrEqual(t, h.Battery[i].Value, h.Battery[i-1].Value, "battery only drains")
		}
	}

	again, err := sim.History(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, h, again, "same seed and hour must reproduce the series")
}

func TestSimulatorHistoryEndsAtSnapshot(t *testing.T) {
	sim := NewSimulator(WithSeed(3), WithClock(fixedClock))
	ctx := context.Background()

	for _, id := range []string{"1", "3", "new-vehicle"} {
		snap, err := sim.Snapshot(ctx, id)
		require.NoError(t, err)
		h, err := sim.History(ctx, id)
		require.NoError(t, err)

		last := DefaultWindow - 1
		assert.Equal(t, snap.Speed, h.Speed[last].Value, id)
		assert.Equal(t, snap.Battery, h.Battery[last].Value, id)
		assert.Equal(t, snap.Temperature, h.Temperature[last].Value, id)
		assert.GreaterOrEqual(t, h.Battery[0].Value, snap.Battery, id)
	}
}

func TestSimulatorWindow(t *testing.T) {
	sim := NewSimulator(WithWindow(6), WithClock(fixedClock))

	h, err := sim.History(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, h.Battery, 6)
}
