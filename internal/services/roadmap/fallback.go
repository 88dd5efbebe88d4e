package roadmap

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/benvon/roadmap-api/internal/models"
)

// Per-category item budgets: one item per this many allocation percent
const (
	strategicPercentPerItem   = 20
	customerPercentPerItem    = 15
	maintenancePercentPerItem = 10
)

// Per-category default durations in weeks
const (
	strategicDurationWeeks   = 6
	customerDurationWeeks    = 4
	maintenanceDurationWeeks = 2
)

// priorityCycle is the order item priorities rotate through within a category
var priorityCycle = []models.ItemPriority{
	models.ItemPriorityHigh,
	models.ItemPriorityMedium,
	models.ItemPriorityLow,
}

// FallbackGenerator synthesizes a roadmap draft directly from the allocation
// percentages. It never fails and is used whenever the AI path is disabled or
// raises a GenerationError.
type FallbackGenerator struct {
	now func() time.Time
}

// NewFallbackGenerator creates a deterministic fallback generator
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{now: time.Now}
}

// NewFallbackGeneratorWithClock creates a fallback generator with an
// injectable clock, used by tests to pin quarter labels
func NewFallbackGeneratorWithClock(now func() time.Time) *FallbackGenerator {
	return &FallbackGenerator{now: now}
}

// Source identifies the deterministic strategy
func (g *FallbackGenerator) Source() models.GeneratedBy {
	return models.GeneratedByFallback
}

// Generate synthesizes templated items per category, proportional to the
// allocation percentages. Item counts are ceil(strategic%/20),
// ceil(customerDriven%/15) and ceil(maintenance%/10).
func (g *FallbackGenerator) Generate(_ context.Context, pc ProjectContext, alloc models.AllocationStrategy, params models.GenerationParameters) (*Draft, error) {
	quarters := quarterLabels(g.now(), params.TimeHorizon.Quarters())

	draft := &Draft{
		TimeHorizon:        string(params.TimeHorizon),
		AllocationStrategy: &alloc,
		Rationale: fmt.Sprintf(
			"Roadmap generated from allocation targets: %g%% strategic, %g%% customer-driven, %g%% maintenance across %d active feedback items.",
			alloc.Strategic, alloc.CustomerDriven, alloc.Maintenance, pc.ActiveFeedbackCount,
		),
	}

	strategicCount := int(math.Ceil(alloc.Strategic / strategicPercentPerItem))
	customerCount := int(math.Ceil(alloc.CustomerDriven / customerPercentPerItem))
	maintenanceCount := int(math.Ceil(alloc.Maintenance / maintenancePercentPerItem))

	draft.Items = append(draft.Items, g.categoryItems(categoryTemplate{
		category:      models.ItemCategoryStrategic,
		count:         strategicCount,
		percentage:    alloc.Strategic,
		durationWeeks: strategicDurationWeeks,
		riskLevel:     models.RiskLevelMedium,
		title:         "Strategic initiative",
		description:   "Key strategic investment advancing the project's stated goals.",
		metric:        "Progress against the linked project goal",
	}, quarters)...)

	draft.Items = append(draft.Items, g.categoryItems(categoryTemplate{
		category:      models.ItemCategoryCustomerDriven,
		count:         customerCount,
		percentage:    alloc.CustomerDriven,
		durationWeeks: customerDurationWeeks,
		riskLevel:     models.RiskLevelMedium,
		title:         "Customer improvement",
		description:   "Improvement addressing recurring themes in active customer feedback.",
		metric:        "Reduction in related feedback volume",
	}, quarters)...)

	draft.Items = append(draft.Items, g.categoryItems(categoryTemplate{
		category:       models.ItemCategoryMaintenance,
		count:          maintenanceCount,
		percentage:     alloc.Maintenance,
		durationWeeks:  maintenanceDurationWeeks,
		riskLevel:      models.RiskLevelLow,
		title:          "Maintenance work",
		description:    "Upkeep required to keep quality and velocity stable.",
		metric:         "No regression in system health indicators",
		firstItemHigh:  true,
	}, quarters)...)

	return draft, nil
}

type categoryTemplate struct {
	category      models.ItemCategory
	count         int
	percentage    float64
	durationWeeks float64
	riskLevel     models.RiskLevel
	title         string
	description   string
	metric        string
	// firstItemHigh forces the first item's priority to high regardless of
	// the rotation
	firstItemHigh bool
}

func (g *FallbackGenerator) categoryItems(tpl categoryTemplate, quarters []string) []DraftItem {
	if tpl.count <= 0 {
		return nil
	}

	perItemPercentage := tpl.percentage / float64(tpl.count)
	items := make([]DraftItem, 0, tpl.count)
	for i := 0; i < tpl.count; i++ {
		priority := priorityCycle[i%len(priorityCycle)]
		if i == 0 && tpl.firstItemHigh {
			priority = models.ItemPriorityHigh
		}

		strategicAlignment := 7.0
		customerImpact := 5.0
		revenueImpact := 5.0
		switch tpl.category {
		case models.ItemCategoryCustomerDriven:
			customerImpact = 8.0
		case models.ItemCategoryMaintenance:
			strategicAlignment = 5.0
			revenueImpact = 3.0
		}

		items = append(items, DraftItem{
			Title:       fmt.Sprintf("%s %d", tpl.title, i+1),
			Description: tpl.description,
			Category:    string(tpl.category),
			Priority:    string(priority),
			Timeframe: DraftTimeframe{
				Quarter: quarters[i%len(quarters)],
				EstimatedDuration: DraftDuration{
					Value: tpl.durationWeeks,
					Unit:  string(models.DurationUnitWeeks),
				},
			},
			ResourceAllocation: DraftResourceAllocation{
				Percentage: perItemPercentage,
			},
			BusinessJustification: DraftBusinessJustification{
				StrategicAlignment: &strategicAlignment,
				CustomerImpact:     &customerImpact,
				RevenueImpact:      &revenueImpact,
				RiskLevel:          string(tpl.riskLevel),
			},
			SuccessMetrics: []string{tpl.metric},
			Status:         string(models.ItemStatusProposed),
		})
	}
	return items
}

// quarterLabels returns the labels of count consecutive calendar quarters
// starting at the quarter containing now, e.g. ["Q3 2026", "Q4 2026"]
func quarterLabels(now time.Time, count int) []string {
	if count < 1 {
		count = 1
	}
	labels := make([]string, 0, count)
	quarter := (int(now.Month()) - 1) / 3 // 0-based
	year := now.Year()
	for i := 0; i < count; i++ {
		labels = append(labels, fmt.Sprintf("Q%d %d", quarter+1, year))
		quarter++
		if quarter == 4 {
			quarter = 0
			year++
		}
	}
	return labels
}
