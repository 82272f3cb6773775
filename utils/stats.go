package utils

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// populationWindow is the number of recent generations summarized by PopulationSpread
const populationWindow = 50

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	ActiveCells          int
	SurvivorCells        int
	BoundingBoxSize      int

	recent []float64
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

func (s *Stats) Update(generation int, population int, duration time.Duration) {
	s.TotalGenerations = generation
	s.ActiveCells = population
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}

	s.recent = append(s.recent, float64(population))
	if len(s.recent) > populationWindow {
		s.recent = s.recent[1:]
	}
}

// PopulationSpread returns the mean and standard deviation of the population over the recent window
func (s *Stats) PopulationSpread() (mean, stdDev float64) {
	switch len(s.recent) {
	case 0:
		return 0, 0
	case 1:
		return s.recent[0], 0
	}
	return stat.MeanStdDev(s.recent, nil)
}

// Reset clears the population window, keeping the run start time
func (s *Stats) Reset() {
	s.recent = s.recent[:0]
	s.AveragePopulation = 0
}
