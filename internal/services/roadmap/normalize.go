package roadmap

import (
	"github.com/benvon/roadmap-api/internal/models"
)

// Normalizer defaults applied when a draft field is missing or out of domain
const (
	defaultCategory  = models.ItemCategoryStrategic
	defaultPriority  = models.ItemPriorityMedium
	defaultRiskLevel = models.RiskLevelMedium
	defaultStatus    = models.ItemStatusProposed
	defaultUnit      = models.DurationUnitWeeks
	defaultScore     = 5.0
)

// DraftDefaults carries the caller's original request values, used when the
// corresponding roadmap-level field is absent from the draft
type DraftDefaults struct {
	Name        string
	Description string
	Type        models.RoadmapType
	TimeHorizon models.TimeHorizon
	Allocation  models.AllocationStrategy
}

// NormalizedDraft is the validated form of a Draft. Every enumerated field is
// guaranteed to hold a declared value; nothing else may be persisted.
type NormalizedDraft struct {
	Name        string
	Description string
	Type        models.RoadmapType
	TimeHorizon models.TimeHorizon
	Allocation  models.AllocationStrategy
	Items       []models.RoadmapItem
	Rationale   string
}

// NormalizeDraft coerces an untrusted draft into the canonical roadmap shape.
// Out-of-domain enum values are replaced with defaults, duration units are
// canonicalized, and absent roadmap-level fields fall back to the request
// values in def.
func NormalizeDraft(draft *Draft, def DraftDefaults) NormalizedDraft {
	out := NormalizedDraft{
		Name:        draft.Name,
		Description: draft.Description,
		Type:        models.RoadmapType(draft.Type),
		TimeHorizon: models.TimeHorizon(draft.TimeHorizon),
		Allocation:  def.Allocation,
		Rationale:   draft.Rationale,
	}

	if out.Name == "" {
		out.Name = def.Name
	}
	if out.Description == "" {
		out.Description = def.Description
	}
	if !out.Type.IsValid() {
		out.Type = def.Type
	}
	if !out.TimeHorizon.IsValid() {
		out.TimeHorizon = def.TimeHorizon
	}
	if draft.AllocationStrategy != nil && ValidateAllocation(*draft.AllocationStrategy) == nil {
		out.Allocation = *draft.AllocationStrategy
	}

	out.Items = make([]models.RoadmapItem, 0, len(draft.Items))
	for i := range draft.Items {
		out.Items = append(out.Items, NormalizeItem(draft.Items[i]))
	}
	return out
}

// NormalizeItem coerces a single candidate item into the canonical
// RoadmapItem shape. The returned item carries no ID; IDs are assigned at
// persistence time.
func NormalizeItem(item DraftItem) models.RoadmapItem {
	category := models.ItemCategory(item.Category)
	if !category.IsValid() {
		category = defaultCategory
	}

	priority := models.ItemPriority(item.Priority)
	if !priority.IsValid() {
		priority = defaultPriority
	}

	status := models.ItemStatus(item.Status)
	if !status.IsValid() {
		status = defaultStatus
	}

	riskLevel := models.RiskLevel(item.BusinessJustification.RiskLevel)
	if !riskLevel.IsValid() {
		riskLevel = defaultRiskLevel
	}

	return models.RoadmapItem{
		Title:       item.Title,
		Description: item.Description,
		Category:    category,
		Priority:    priority,
		Timeframe: models.Timeframe{
			Quarter:   item.Timeframe.Quarter,
			StartDate: item.Timeframe.StartDate,
			EndDate:   item.Timeframe.EndDate,
			EstimatedDuration: models.EstimatedDuration{
				Value: item.Timeframe.EstimatedDuration.Value,
				Unit:  normalizeUnit(item.Timeframe.EstimatedDuration.Unit),
			},
		},
		ResourceAllocation: models.ResourceAllocation{
			Percentage:    clamp(item.ResourceAllocation.Percentage, 0, 100),
			TeamMembers:   item.ResourceAllocation.TeamMembers,
			EstimatedCost: item.ResourceAllocation.EstimatedCost,
		},
		Dependencies:    item.Dependencies,
		RelatedFeedback: normalizeRelatedFeedback(item.RelatedFeedback),
		BusinessJustification: models.BusinessJustification{
			StrategicAlignment: normalizeScore(item.BusinessJustification.StrategicAlignment),
			CustomerImpact:     normalizeScore(item.BusinessJustification.CustomerImpact),
			RevenueImpact:      normalizeScore(item.BusinessJustification.RevenueImpact),
			RiskLevel:          riskLevel,
		},
		SuccessMetrics: item.SuccessMetrics,
		Status:         status,
	}
}

// normalizeUnit canonicalizes singular duration units and replaces anything
// else out of domain with the default
func normalizeUnit(unit string) models.DurationUnit {
	switch unit {
	case "day":
		return models.DurationUnitDays
	case "week":
		return models.DurationUnitWeeks
	case "month":
		return models.DurationUnitMonths
	}
	u := models.DurationUnit(unit)
	if !u.IsValid() {
		return defaultUnit
	}
	return u
}

// normalizeScore clamps a 0-10 score, defaulting absent scores to neutral
func normalizeScore(score *float64) float64 {
	if score == nil {
		return defaultScore
	}
	return clamp(*score, 0, 10)
}

func normalizeRelatedFeedback(related []models.RelatedFeedback) []models.RelatedFeedback {
	for i := range related {
		related[i].RelevanceScore = clamp(related[i].RelevanceScore, 0, 10)
	}
	return related
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
