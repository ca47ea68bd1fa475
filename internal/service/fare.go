package service

import (
	"math"

	"ridebook/internal/config"
)

// FareEngine computes ride fares from trip metrics. Pure: no side
// effects, deterministic for a given rate configuration.
type FareEngine struct {
	baseFare      float64
	perKmRate     float64
	perMinuteRate float64

	estimateDistanceKm  float64
	estimateDurationMin float64
}

// NewFareEngine creates a FareEngine with the configured rates.
func NewFareEngine(cfg config.FareConfig) *FareEngine {
	return &FareEngine{
		baseFare:            cfg.BaseFare,
		perKmRate:           cfg.PerKmRate,
		perMinuteRate:       cfg.PerMinuteRate,
		estimateDistanceKm:  cfg.EstimateDistanceKm,
		estimateDurationMin: cfg.EstimateDurationMin,
	}
}

// Fare computes the cost of a trip, rounded to the nearest whole
// currency unit. Callers validate inputs; negative metrics never reach
// this function.
func (e *FareEngine) Fare(distanceKm, durationMinutes float64) int64 {
	fare := e.baseFare + distanceKm*e.perKmRate + durationMinutes*e.perMinuteRate
	return int64(math.Round(fare))
}

// Estimate returns a pre-booking quote using placeholder metrics. With
// no routing service behind it, the quote is not binding; the
// authoritative fare is computed at completion from actual metrics.
type Estimate struct {
	DistanceKm      float64
	DurationMinutes float64
	Fare            int64
}

// EstimateFare produces a non-binding quote for a prospective trip.
func (e *FareEngine) EstimateFare() Estimate {
	return Estimate{
		DistanceKm:      e.estimateDistanceKm,
		DurationMinutes: e.estimateDurationMin,
		Fare:            e.Fare(e.estimateDistanceKm, e.estimateDurationMin),
	}
}
