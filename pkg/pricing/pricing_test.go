package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditsForResolution(t *testing.T) {
	cases := map[string]int{
		"1024x1024": 1,
		"1920x1080": 2,
		"1080x1920": 2,
		"2560x1440": 3,
		"3840x2160": 5,
	}

	for resolution, want := range cases {
		got, err := CreditsForResolution(resolution)
		require.NoError(t, err, resolution)
		assert.Equal(t, want, got, resolution)
	}
}

func TestCreditsForResolutionUnsupported(t *testing.T) {
	_, err := CreditsForResolution("800x600")
	assert.Error(t, err)

	_, err = CreditsForResolution("")
	assert.Error(t, err)
}

func TestRupeesForCredits(t *testing.T) {
	assert.True(t, decimal.NewFromInt(25).Equal(RupeesForCredits(1)))
	assert.True(t, decimal.NewFromInt(125).Equal(RupeesForCredits(5)))
	assert.True(t, decimal.Zero.Equal(RupeesForCredits(0)))
}

func TestCreditsForRupees(t *testing.T) {
	assert.Equal(t, 40, CreditsForRupees(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, CreditsForRupees(decimal.NewFromInt(25)))
	// Remainder below one credit truncates.
	assert.Equal(t, 1, CreditsForRupees(decimal.NewFromInt(49)))
	assert.Equal(t, 0, CreditsForRupees(decimal.NewFromInt(24)))
}

func TestBonusCreditsForTopup(t *testing.T) {
	cases := []struct {
		amount int64
		want   int
	}{
		{500, 0},
		{999, 0},
		{1000, 5},
		{2499, 5},
		{2500, 15},
		{4999, 15},
		{5000, 50},
		{10000, 50},
	}

	for _, tc := range cases {
		got := BonusCreditsForTopup(decimal.NewFromInt(tc.amount))
		assert.Equal(t, tc.want, got, "amount %d", tc.amount)
	}
}

func TestSupportedResolutions(t *testing.T) {
	res := SupportedResolutions()
	assert.Len(t, res, 5)
	assert.Contains(t, res, "1024x1024")
}
