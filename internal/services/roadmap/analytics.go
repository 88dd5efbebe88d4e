package roadmap

import (
	"math"

	"github.com/benvon/roadmap-api/internal/models"
)

// riskWeights maps a risk level to its numeric weight for the roadmap risk
// score
var riskWeights = map[models.RiskLevel]float64{
	models.RiskLevelLow:    2,
	models.RiskLevelMedium: 5,
	models.RiskLevelHigh:   8,
}

// RecomputeAnalytics derives roadmap-level metrics from the current item
// list. It is pure and idempotent; callers invoke it immediately before every
// persistence of the roadmap aggregate.
//
// An empty roadmap yields {0, 0, 5, 5}: no items means no completion signal
// and neutral risk/satisfaction.
func RecomputeAnalytics(items []models.RoadmapItem) models.RoadmapAnalytics {
	total := len(items)
	if total == 0 {
		return models.RoadmapAnalytics{
			TotalItems:                    0,
			CompletionRate:                0,
			RiskScore:                     5,
			CustomerSatisfactionPotential: 5,
		}
	}

	completed := 0
	riskSum := 0.0
	impactSum := 0.0
	for i := range items {
		if items[i].Status == models.ItemStatusCompleted {
			completed++
		}
		weight, ok := riskWeights[items[i].BusinessJustification.RiskLevel]
		if !ok {
			weight = riskWeights[models.RiskLevelMedium]
		}
		riskSum += weight
		impactSum += items[i].BusinessJustification.CustomerImpact
	}

	return models.RoadmapAnalytics{
		TotalItems:                    total,
		CompletionRate:                100 * float64(completed) / float64(total),
		RiskScore:                     math.Round(riskSum / float64(total)),
		CustomerSatisfactionPotential: math.Round(impactSum / float64(total)),
	}
}
