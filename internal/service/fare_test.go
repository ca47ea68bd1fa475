package service

import (
	"testing"

	"ridebook/internal/config"
)

func testFareEngine() *FareEngine {
	return NewFareEngine(config.FareConfig{
		BaseFare:            50,
		PerKmRate:           20,
		PerMinuteRate:       2,
		EstimateDistanceKm:  5,
		EstimateDurationMin: 15,
	})
}

func TestFareEngine_Fare(t *testing.T) {
	t.Parallel()

	e := testFareEngine()

	testCases := []struct {
		name            string
		distanceKm      float64
		durationMinutes float64
		want            int64
	}{
		{"zero trip", 0, 0, 50},
		{"ten km twenty min", 10, 20, 290},
		{"distance only", 3, 0, 110},
		{"duration only", 0, 12, 74},
		{"fractional rounds down", 1.01, 0, 70},  // 70.2
		{"fractional rounds up", 1.04, 0, 71},    // 70.8
		{"half rounds away", 0, 0.25, 51},        // 50.5
		{"long trip", 42.5, 95, 1090},            // 50 + 850 + 190
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Fare(tc.distanceKm, tc.durationMinutes); got != tc.want {
				t.Errorf("Fare(%v, %v) = %d, want %d", tc.distanceKm, tc.durationMinutes, got, tc.want)
			}
		})
	}
}

func TestFareEngine_Deterministic(t *testing.T) {
	t.Parallel()

	e := testFareEngine()

	first := e.Fare(7.3, 18.6)
	for i := 0; i < 100; i++ {
		if got := e.Fare(7.3, 18.6); got != first {
			t.Fatalf("fare changed between calls: %d vs %d", first, got)
		}
	}
}

func TestFareEngine_EstimateFare(t *testing.T) {
	t.Parallel()

	e := testFareEngine()

	est := e.EstimateFare()
	if est.DistanceKm != 5 || est.DurationMinutes != 15 {
		t.Errorf("unexpected estimate metrics: %+v", est)
	}
	// 50 + 5*20 + 15*2
	if est.Fare != 180 {
		t.Errorf("expected estimate fare 180, got %d", est.Fare)
	}
	if est.Fare != e.Fare(est.DistanceKm, est.DurationMinutes) {
		t.Error("estimate fare must match the formula on its own metrics")
	}
}
