package assistant

import "math"

type modelPricing struct {
	Input  float64
	Output float64
}

// USD per 1000 tokens.
var tokenPricing = map[string]modelPricing{
	"gpt-5":      {Input: 1.25, Output: 10.00},
	"gpt-5 nano": {Input: 0.05, Output: 0.40},
}

// Unknown models are billed at the cheapest tier rather than failing the
// query over an accounting detail.
var fallbackPricing = tokenPricing["gpt-5 nano"]

func estimateCost(promptTokens, completionTokens int, model string) float64 {
	pricing, ok := tokenPricing[model]
	if !ok {
		pricing = fallbackPricing
	}
	inputCost := float64(promptTokens) / 1000 * pricing.Input
	outputCost := float64(completionTokens) / 1000 * pricing.Output
	return math.Round((inputCost+outputCost)*1e6) / 1e6
}
