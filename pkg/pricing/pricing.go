package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CreditPriceRupees is the fixed conversion rate between credits and the
// rupee-denominated wallet balance.
const CreditPriceRupees = 25

// resolutionCredits maps a supported output resolution to its credit weight.
// Pricing depends only on the resolution tier; the number of images per
// request does not change the charge.
var resolutionCredits = map[string]int{
	"1024x1024": 1,
	"1920x1080": 2,
	"1080x1920": 2,
	"2560x1440": 3,
	"3840x2160": 5,
}

// CreditsForResolution returns the credit cost for a single generation at the
// given resolution.
func CreditsForResolution(resolution string) (int, error) {
	credits, ok := resolutionCredits[resolution]
	if !ok {
		return 0, fmt.Errorf("unsupported resolution: %s", resolution)
	}
	return credits, nil
}

// SupportedResolutions lists every resolution the calculator knows about.
func SupportedResolutions() []string {
	res := make([]string, 0, len(resolutionCredits))
	for k := range resolutionCredits {
		res = append(res, k)
	}
	return res
}

// RupeesForCredits converts a credit amount into its wallet debit value.
func RupeesForCredits(credits int) decimal.Decimal {
	return decimal.NewFromInt(int64(credits)).Mul(decimal.NewFromInt(CreditPriceRupees))
}

// CreditsForRupees converts a topup amount into base credits, truncating any
// remainder below one credit.
func CreditsForRupees(amount decimal.Decimal) int {
	return int(amount.Div(decimal.NewFromInt(CreditPriceRupees)).IntPart())
}

// BonusCreditsForTopup returns the promotional bonus credits granted for a
// topup of the given rupee amount.
func BonusCreditsForTopup(amount decimal.Decimal) int {
	switch {
	case amount.GreaterThanOrEqual(decimal.NewFromInt(5000)):
		return 50
	case amount.GreaterThanOrEqual(decimal.NewFromInt(2500)):
		return 15
	case amount.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return 5
	default:
		return 0
	}
}
