package utils

import (
	"testing"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRate(t *testing.T) {
	cases := []struct {
		name     string
		provider models.VehicleProvider
		trips    int
		want     int
	}{
		{"provider A zero trips", models.ProviderA, 0, 950},
		{"provider A below first threshold", models.ProviderA, 64, 950},
		{"provider A lowest paid slab", models.ProviderA, 65, 710},
		{"provider A mid slab", models.ProviderA, 100, 600},
		{"provider A 110 boundary", models.ProviderA, 110, 470},
		{"provider A 125 boundary", models.ProviderA, 125, 380},
		{"provider A just below top", models.ProviderA, 139, 380},
		{"provider A top boundary inclusive", models.ProviderA, 140, 260},
		{"provider A far above top", models.ProviderA, 500, 260},
		{"provider B zero trips", models.ProviderB, 0, 949},
		{"provider B 72 trips", models.ProviderB, 72, 750},
		{"provider B 80 boundary", models.ProviderB, 80, 640},
		{"provider B 120 boundary", models.ProviderB, 120, 444},
		{"provider B 135 boundary", models.ProviderB, 135, 249},
		{"provider B 140 boundary", models.ProviderB, 140, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := ResolveRate(tc.provider, tc.trips)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rate)
		})
	}
}

func TestResolveRate_NegativeTrips(t *testing.T) {
	_, err := ResolveRate(models.ProviderA, -1)
	assert.Error(t, err)
}

func TestResolveRate_UnknownProvider(t *testing.T) {
	_, err := ResolveRate(models.VehicleProvider("provider_x"), 10)
	assert.Error(t, err)
}

// More trips never costs more per day.
func TestResolveRate_NonIncreasing(t *testing.T) {
	for _, provider := range []models.VehicleProvider{models.ProviderA, models.ProviderB} {
		prev, err := ResolveRate(provider, 0)
		require.NoError(t, err)

		for trips := 1; trips <= 200; trips++ {
			rate, err := ResolveRate(provider, trips)
			require.NoError(t, err)
			assert.LessOrEqual(t, rate, prev, "rate increased at %d trips for %s", trips, provider)
			prev = rate
		}
	}
}

func TestNextTarget(t *testing.T) {
	t.Run("deficit to next slab", func(t *testing.T) {
		target, err := NextTarget(models.ProviderA, 100)
		require.NoError(t, err)
		assert.Equal(t, 470, target.NextRate)
		assert.Equal(t, 10, target.TripsNeeded)
	})

	t.Run("one trip short of cheapest", func(t *testing.T) {
		target, err := NextTarget(models.ProviderA, 139)
		require.NoError(t, err)
		assert.Equal(t, 260, target.NextRate)
		assert.Equal(t, 1, target.TripsNeeded)
	})

	t.Run("already at cheapest slab", func(t *testing.T) {
		target, err := NextTarget(models.ProviderA, 150)
		require.NoError(t, err)
		assert.Equal(t, 260, target.NextRate)
		assert.Equal(t, 0, target.TripsNeeded)
	})

	t.Run("provider B bottom slab", func(t *testing.T) {
		target, err := NextTarget(models.ProviderB, 10)
		require.NoError(t, err)
		assert.Equal(t, 750, target.NextRate)
		assert.Equal(t, 55, target.TripsNeeded)
	})

	t.Run("negative trips rejected", func(t *testing.T) {
		_, err := NextTarget(models.ProviderB, -5)
		assert.Error(t, err)
	})
}
