package models

import (
	"time"

	"github.com/google/uuid"
)

// RoadmapType represents how roadmap effort is split across categories
type RoadmapType string

const (
	RoadmapTypeStrategicOnly RoadmapType = "strategic-only"
	RoadmapTypeCustomerOnly  RoadmapType = "customer-only"
	RoadmapTypeBalanced      RoadmapType = "balanced"
	RoadmapTypeCustom        RoadmapType = "custom"
)

// IsValid returns true if the roadmap type is a recognized value
func (t RoadmapType) IsValid() bool {
	switch t {
	case RoadmapTypeStrategicOnly, RoadmapTypeCustomerOnly, RoadmapTypeBalanced, RoadmapTypeCustom:
		return true
	default:
		return false
	}
}

// TimeHorizon represents how far out a roadmap plans
type TimeHorizon string

const (
	TimeHorizonQuarter   TimeHorizon = "quarter"
	TimeHorizonHalfYear  TimeHorizon = "half-year"
	TimeHorizonYear      TimeHorizon = "year"
	TimeHorizonMultiYear TimeHorizon = "multi-year"
)

// IsValid returns true if the time horizon is a recognized value
func (h TimeHorizon) IsValid() bool {
	switch h {
	case TimeHorizonQuarter, TimeHorizonHalfYear, TimeHorizonYear, TimeHorizonMultiYear:
		return true
	default:
		return false
	}
}

// Quarters returns the number of quarters covered by the horizon
func (h TimeHorizon) Quarters() int {
	switch h {
	case TimeHorizonHalfYear:
		return 2
	case TimeHorizonYear:
		return 4
	case TimeHorizonMultiYear:
		return 8
	default:
		return 1
	}
}

// ItemCategory represents the category of a roadmap item
type ItemCategory string

const (
	ItemCategoryStrategic      ItemCategory = "strategic"
	ItemCategoryCustomerDriven ItemCategory = "customer-driven"
	ItemCategoryMaintenance    ItemCategory = "maintenance"
	ItemCategoryInnovation     ItemCategory = "innovation"
)

// IsValid returns true if the category is a recognized value
func (c ItemCategory) IsValid() bool {
	switch c {
	case ItemCategoryStrategic, ItemCategoryCustomerDriven, ItemCategoryMaintenance, ItemCategoryInnovation:
		return true
	default:
		return false
	}
}

// ItemPriority represents the priority of a roadmap item
type ItemPriority string

const (
	ItemPriorityCritical ItemPriority = "critical"
	ItemPriorityHigh     ItemPriority = "high"
	ItemPriorityMedium   ItemPriority = "medium"
	ItemPriorityLow      ItemPriority = "low"
)

// IsValid returns true if the priority is a recognized value
func (p ItemPriority) IsValid() bool {
	switch p {
	case ItemPriorityCritical, ItemPriorityHigh, ItemPriorityMedium, ItemPriorityLow:
		return true
	default:
		return false
	}
}

// ItemStatus represents the lifecycle status of a roadmap item
type ItemStatus string

const (
	ItemStatusProposed   ItemStatus = "proposed"
	ItemStatusApproved   ItemStatus = "approved"
	ItemStatusInProgress ItemStatus = "in-progress"
	ItemStatusCompleted  ItemStatus = "completed"
	ItemStatusCancelled  ItemStatus = "cancelled"
)

// IsValid returns true if the status is a recognized value
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusProposed, ItemStatusApproved, ItemStatusInProgress, ItemStatusCompleted, ItemStatusCancelled:
		return true
	default:
		return false
	}
}

// RiskLevel represents the delivery risk of a roadmap item
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// IsValid returns true if the risk level is a recognized value
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	default:
		return false
	}
}

// DurationUnit represents the unit of an estimated duration
type DurationUnit string

const (
	DurationUnitDays   DurationUnit = "days"
	DurationUnitWeeks  DurationUnit = "weeks"
	DurationUnitMonths DurationUnit = "months"
)

// IsValid returns true if the duration unit is a recognized value
func (u DurationUnit) IsValid() bool {
	switch u {
	case DurationUnitDays, DurationUnitWeeks, DurationUnitMonths:
		return true
	default:
		return false
	}
}

// GeneratedBy records which strategy produced a roadmap draft
type GeneratedBy string

const (
	GeneratedByAI       GeneratedBy = "ai"
	GeneratedByFallback GeneratedBy = "fallback"
)

// AllocationStrategy is the percentage split of roadmap effort across the
// three effort categories. The three values must sum to 100 within 0.01.
type AllocationStrategy struct {
	Strategic      float64 `json:"strategic"`
	CustomerDriven float64 `json:"customer_driven"`
	Maintenance    float64 `json:"maintenance"`
}

// Sum returns the total of the three percentages
func (a AllocationStrategy) Sum() float64 {
	return a.Strategic + a.CustomerDriven + a.Maintenance
}

// EstimatedDuration represents a duration estimate with an explicit unit
type EstimatedDuration struct {
	Value float64      `json:"value"`
	Unit  DurationUnit `json:"unit"`
}

// Timeframe represents when a roadmap item is planned to happen
type Timeframe struct {
	Quarter           string            `json:"quarter,omitempty"`
	StartDate         *time.Time        `json:"start_date,omitempty"`
	EndDate           *time.Time        `json:"end_date,omitempty"`
	EstimatedDuration EstimatedDuration `json:"estimated_duration"`
}

// ResourceAllocation represents the resources assigned to a roadmap item
type ResourceAllocation struct {
	Percentage    float64  `json:"percentage"`
	TeamMembers   []string `json:"team_members,omitempty"`
	EstimatedCost float64  `json:"estimated_cost,omitempty"`
}

// RelatedFeedback links a roadmap item to a feedback item that motivated it
type RelatedFeedback struct {
	FeedbackID     uuid.UUID `json:"feedback_id"`
	RelevanceScore float64   `json:"relevance_score"`
	CustomerQuotes []string  `json:"customer_quotes,omitempty"`
}

// BusinessJustification captures why a roadmap item is worth doing.
// Numeric scores are on a 0-10 scale.
type BusinessJustification struct {
	StrategicAlignment float64   `json:"strategic_alignment"`
	CustomerImpact     float64   `json:"customer_impact"`
	RevenueImpact      float64   `json:"revenue_impact"`
	RiskLevel          RiskLevel `json:"risk_level"`
}

// RoadmapItem represents a single planned piece of work on a roadmap
type RoadmapItem struct {
	ID                    uuid.UUID             `json:"id"`
	TaskID                *uuid.UUID            `json:"task_id,omitempty"`
	Title                 string                `json:"title"`
	Description           string                `json:"description,omitempty"`
	Category              ItemCategory          `json:"category"`
	Priority              ItemPriority          `json:"priority"`
	Timeframe             Timeframe             `json:"timeframe"`
	ResourceAllocation    ResourceAllocation    `json:"resource_allocation"`
	Dependencies          []string              `json:"dependencies,omitempty"`
	RelatedFeedback       []RelatedFeedback     `json:"related_feedback,omitempty"`
	BusinessJustification BusinessJustification `json:"business_justification"`
	SuccessMetrics        []string              `json:"success_metrics,omitempty"`
	Status                ItemStatus            `json:"status"`
}

// GenerationParameters are the caller-supplied knobs for a generation run
type GenerationParameters struct {
	TimeHorizon TimeHorizon `json:"time_horizon"`
	FocusAreas  []string    `json:"focus_areas,omitempty"`
	Constraints []string    `json:"constraints,omitempty"`
}

// GenerationContext records the provenance of a generated roadmap
type GenerationContext struct {
	Prompt      string               `json:"prompt,omitempty"`
	Parameters  GenerationParameters `json:"parameters"`
	GeneratedBy GeneratedBy          `json:"generated_by"`
	Model       string               `json:"model,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// RoadmapAnalytics holds metrics derived from the current item list. The
// values are never set directly; they are recomputed before every save.
type RoadmapAnalytics struct {
	TotalItems                    int     `json:"total_items"`
	CompletionRate                float64 `json:"completion_rate"`
	RiskScore                     float64 `json:"risk_score"`
	CustomerSatisfactionPotential float64 `json:"customer_satisfaction_potential"`
}

// Roadmap is the aggregate root owning an ordered list of roadmap items
type Roadmap struct {
	ID                 uuid.UUID          `json:"id"`
	ProjectID          uuid.UUID          `json:"project_id"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	Type               RoadmapType        `json:"type"`
	TimeHorizon        TimeHorizon        `json:"time_horizon"`
	AllocationStrategy AllocationStrategy `json:"allocation_strategy"`
	Items              []RoadmapItem      `json:"items"`
	GenerationContext  GenerationContext  `json:"generation_context"`
	Analytics          RoadmapAnalytics   `json:"analytics"`
	Version            int                `json:"version"`
	IsActive           bool               `json:"is_active"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ItemIndex returns the position of the item with the given ID, or -1
func (r *Roadmap) ItemIndex(id uuid.UUID) int {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// ItemByID returns a pointer to the item with the given ID, or nil
func (r *Roadmap) ItemByID(id uuid.UUID) *RoadmapItem {
	if i := r.ItemIndex(id); i >= 0 {
		return &r.Items[i]
	}
	return nil
}

// RemoveItem deletes the item with the given ID, preserving order.
// Returns false if no item has that ID.
func (r *Roadmap) RemoveItem(id uuid.UUID) bool {
	i := r.ItemIndex(id)
	if i < 0 {
		return false
	}
	r.Items = append(r.Items[:i], r.Items[i+1:]...)
	return true
}
