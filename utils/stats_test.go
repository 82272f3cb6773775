package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStats_Update(t *testing.T) {
	s := NewStats()
	s.Update(1, 100, 100*time.Millisecond)
	assert.Equal(t, 1, s.TotalGenerations)
	assert.Equal(t, 100, s.ActiveCells)
	assert.InDelta(t, 10.0, s.GenerationsPerSecond, 1e-9)
	assert.InDelta(t, 100.0, s.AveragePopulation, 1e-9)

	s.Update(2, 200, 0)
	assert.InDelta(t, 10.0, s.GenerationsPerSecond, 1e-9, "zero duration keeps the last rate")
	assert.InDelta(t, 110.0, s.AveragePopulation, 1e-9)
}

func TestStats_PopulationSpread(t *testing.T) {
	s := NewStats()
	mean, sd := s.PopulationSpread()
	assert.Zero(t, mean)
	assert.Zero(t, sd)

	s.Update(1, 7, time.Millisecond)
	mean, sd = s.PopulationSpread()
	assert.Equal(t, 7.0, mean)
	assert.Zero(t, sd)

	for i, p := range []int{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Update(i+2, p, time.Millisecond)
	}
	mean, sd = s.PopulationSpread()
	assert.InDelta(t, 47.0/9, mean, 1e-9)
	assert.False(t, math.IsNaN(sd))
	assert.Positive(t, sd)
}

func TestStats_WindowIsBounded(t *testing.T) {
	s := NewStats()
	for i := range 2 * populationWindow {
		s.Update(i, i, time.Millisecond)
	}
	assert.Len(t, s.recent, populationWindow)

	mean, _ := s.PopulationSpread()
	assert.InDelta(t, float64(populationWindow)+float64(populationWindow-1)/2, mean, 1e-9)

	s.Reset()
	assert.Empty(t, s.recent)
	assert.Zero(t, s.AveragePopulation)
}
