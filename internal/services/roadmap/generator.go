package roadmap

import (
	"context"
	"time"

	"github.com/benvon/roadmap-api/internal/models"
)

// Generator is the contract shared by the AI-backed and deterministic
// generation strategies. Implementations return an untrusted Draft which must
// pass through NormalizeDraft before it enters application state.
type Generator interface {
	// Generate produces a roadmap draft from the aggregated project context,
	// the resolved allocation, and the caller's generation parameters
	Generate(ctx context.Context, pc ProjectContext, alloc models.AllocationStrategy, params models.GenerationParameters) (*Draft, error)

	// Source identifies which strategy produced the draft, for provenance
	Source() models.GeneratedBy
}

// Draft is an untrusted candidate roadmap produced by a generation strategy.
// Fields may be missing or hold out-of-domain values; only the normalizer
// turns a Draft into a persistable Roadmap.
type Draft struct {
	Name               string                     `json:"name"`
	Description        string                     `json:"description"`
	Type               string                     `json:"type"`
	TimeHorizon        string                     `json:"time_horizon"`
	AllocationStrategy *models.AllocationStrategy `json:"allocation_strategy"`
	Items              []DraftItem                `json:"items"`
	Rationale          string                     `json:"rationale"`

	// Provenance, filled in by the generator rather than parsed
	Prompt string `json:"-"`
	Model  string `json:"-"`
}

// DraftItem is the loosely-typed candidate form of a roadmap item
type DraftItem struct {
	Title                 string                     `json:"title"`
	Description           string                     `json:"description"`
	Category              string                     `json:"category"`
	Priority              string                     `json:"priority"`
	Timeframe             DraftTimeframe             `json:"timeframe"`
	ResourceAllocation    DraftResourceAllocation    `json:"resource_allocation"`
	Dependencies          []string                   `json:"dependencies"`
	RelatedFeedback       []models.RelatedFeedback   `json:"related_feedback"`
	BusinessJustification DraftBusinessJustification `json:"business_justification"`
	SuccessMetrics        []string                   `json:"success_metrics"`
	Status                string                     `json:"status"`
}

// DraftTimeframe is the candidate form of a timeframe
type DraftTimeframe struct {
	Quarter           string        `json:"quarter"`
	StartDate         *time.Time    `json:"start_date"`
	EndDate           *time.Time    `json:"end_date"`
	EstimatedDuration DraftDuration `json:"estimated_duration"`
}

// DraftDuration is the candidate form of an estimated duration
type DraftDuration struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// DraftResourceAllocation is the candidate form of a resource allocation
type DraftResourceAllocation struct {
	Percentage    float64  `json:"percentage"`
	TeamMembers   []string `json:"team_members"`
	EstimatedCost float64  `json:"estimated_cost"`
}

// DraftBusinessJustification is the candidate form of a business
// justification. Scores are pointers so the normalizer can distinguish an
// absent score from an explicit zero.
type DraftBusinessJustification struct {
	StrategicAlignment *float64 `json:"strategic_alignment"`
	CustomerImpact     *float64 `json:"customer_impact"`
	RevenueImpact      *float64 `json:"revenue_impact"`
	RiskLevel          string   `json:"risk_level"`
}
