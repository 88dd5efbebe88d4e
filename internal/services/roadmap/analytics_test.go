package roadmap

import (
	"reflect"
	"testing"

	"github.com/benvon/roadmap-api/internal/models"
)

func itemWith(status models.ItemStatus, risk models.RiskLevel, customerImpact float64) models.RoadmapItem {
	return models.RoadmapItem{
		Status: status,
		BusinessJustification: models.BusinessJustification{
			RiskLevel:      risk,
			CustomerImpact: customerImpact,
		},
	}
}

func TestRecomputeAnalytics_EmptyRoadmap(t *testing.T) {
	t.Parallel()

	got := RecomputeAnalytics(nil)
	want := models.RoadmapAnalytics{
		TotalItems:                    0,
		CompletionRate:                0,
		RiskScore:                     5,
		CustomerSatisfactionPotential: 5,
	}
	if got != want {
		t.Errorf("RecomputeAnalytics(nil) = %+v, want %+v", got, want)
	}
}

func TestRecomputeAnalytics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []models.RoadmapItem
		want  models.RoadmapAnalytics
	}{
		{
			name: "single low risk completed item",
			items: []models.RoadmapItem{
				itemWith(models.ItemStatusCompleted, models.RiskLevelLow, 7),
			},
			want: models.RoadmapAnalytics{
				TotalItems:                    1,
				CompletionRate:                100,
				RiskScore:                     2,
				CustomerSatisfactionPotential: 7,
			},
		},
		{
			name: "mixed statuses and risks",
			items: []models.RoadmapItem{
				itemWith(models.ItemStatusCompleted, models.RiskLevelLow, 4),
				itemWith(models.ItemStatusProposed, models.RiskLevelMedium, 6),
				itemWith(models.ItemStatusInProgress, models.RiskLevelHigh, 8),
				itemWith(models.ItemStatusCancelled, models.RiskLevelMedium, 2),
			},
			want: models.RoadmapAnalytics{
				TotalItems:                    4,
				CompletionRate:                25,
				RiskScore:                     5, // round((2+5+8+5)/4)
				CustomerSatisfactionPotential: 5, // round((4+6+8+2)/4)
			},
		},
		{
			name: "all high risk",
			items: []models.RoadmapItem{
				itemWith(models.ItemStatusProposed, models.RiskLevelHigh, 9),
				itemWith(models.ItemStatusProposed, models.RiskLevelHigh, 10),
			},
			want: models.RoadmapAnalytics{
				TotalItems:                    2,
				CompletionRate:                0,
				RiskScore:                     8,
				CustomerSatisfactionPotential: 10, // round(9.5)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RecomputeAnalytics(tt.items)
			if got != tt.want {
				t.Errorf("RecomputeAnalytics() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecomputeAnalytics_Idempotent(t *testing.T) {
	t.Parallel()

	items := []models.RoadmapItem{
		itemWith(models.ItemStatusCompleted, models.RiskLevelLow, 3),
		itemWith(models.ItemStatusProposed, models.RiskLevelHigh, 9),
		itemWith(models.ItemStatusApproved, models.RiskLevelMedium, 5),
	}

	first := RecomputeAnalytics(items)
	second := RecomputeAnalytics(items)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recompute is not idempotent: first %+v, second %+v", first, second)
	}
}
