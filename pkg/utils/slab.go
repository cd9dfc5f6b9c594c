package utils

import (
	"fmt"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
)

// RateSlab maps a weekly trip-count threshold to the daily rate in INR the
// provider charges. Slabs are ordered highest threshold (cheapest rate)
// first; the resolver picks the first threshold the count meets or exceeds.
type RateSlab struct {
	MinTrips  int `json:"minTrips"`
	DailyRate int `json:"dailyRate"`
}

// SlabTarget describes the next cheaper slab relative to a trip count
type SlabTarget struct {
	NextRate    int `json:"nextRate"`
	TripsNeeded int `json:"tripsNeeded"`
}

var providerSlabs = map[models.VehicleProvider][]RateSlab{
	models.ProviderA: {
		{MinTrips: 140, DailyRate: 260},
		{MinTrips: 125, DailyRate: 380},
		{MinTrips: 110, DailyRate: 470},
		{MinTrips: 80, DailyRate: 600},
		{MinTrips: 65, DailyRate: 710},
		{MinTrips: 0, DailyRate: 950},
	},
	models.ProviderB: {
		{MinTrips: 140, DailyRate: 150},
		{MinTrips: 135, DailyRate: 249},
		{MinTrips: 120, DailyRate: 444},
		{MinTrips: 80, DailyRate: 640},
		{MinTrips: 65, DailyRate: 750},
		{MinTrips: 0, DailyRate: 949},
	},
}

// ProviderSlabs returns the slab table for a provider, or an error for an
// unknown provider.
func ProviderSlabs(provider models.VehicleProvider) ([]RateSlab, error) {
	slabs, ok := providerSlabs[provider]
	if !ok {
		return nil, fmt.Errorf("unknown vehicle provider %q", provider)
	}
	return slabs, nil
}

// ResolveRate returns the daily rate for a provider at the given weekly trip
// count. Thresholds are inclusive: exactly 140 trips lands in the 140+ slab.
func ResolveRate(provider models.VehicleProvider, weeklyTrips int) (int, error) {
	if weeklyTrips < 0 {
		return 0, fmt.Errorf("weekly trip count must be non-negative, got %d", weeklyTrips)
	}

	slabs, err := ProviderSlabs(provider)
	if err != nil {
		return 0, err
	}

	for _, slab := range slabs {
		if weeklyTrips >= slab.MinTrips {
			return slab.DailyRate, nil
		}
	}

	// The last slab has MinTrips 0, so this is unreachable for valid tables
	return 0, fmt.Errorf("no slab matches trip count %d for provider %q", weeklyTrips, provider)
}

// NextTarget returns the next cheaper slab above the current trip count and
// the trips still needed to reach it. At the cheapest slab TripsNeeded is 0
// and NextRate is the current rate.
func NextTarget(provider models.VehicleProvider, weeklyTrips int) (SlabTarget, error) {
	if weeklyTrips < 0 {
		return SlabTarget{}, fmt.Errorf("weekly trip count must be non-negative, got %d", weeklyTrips)
	}

	slabs, err := ProviderSlabs(provider)
	if err != nil {
		return SlabTarget{}, err
	}

	for i, slab := range slabs {
		if weeklyTrips >= slab.MinTrips {
			if i == 0 {
				// Already at the cheapest slab
				return SlabTarget{NextRate: slab.DailyRate, TripsNeeded: 0}, nil
			}
			next := slabs[i-1]
			return SlabTarget{NextRate: next.DailyRate, TripsNeeded: next.MinTrips - weeklyTrips}, nil
		}
	}

	return SlabTarget{}, fmt.Errorf("no slab matches trip count %d for provider %q", weeklyTrips, provider)
}
