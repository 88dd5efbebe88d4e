package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskCategory represents the category of a converted task
type TaskCategory string

const (
	TaskCategoryFeature     TaskCategory = "feature"
	TaskCategoryImprovement TaskCategory = "improvement"
	TaskCategoryMaintenance TaskCategory = "maintenance"
	TaskCategoryResearch    TaskCategory = "research"
)

// BusinessValueLevel is the categorical form of a 0-10 impact score
type BusinessValueLevel string

const (
	BusinessValueHigh   BusinessValueLevel = "high"
	BusinessValueMedium BusinessValueLevel = "medium"
	BusinessValueLow    BusinessValueLevel = "low"
)

// TaskTimeline holds planned start and end dates copied from a roadmap item
type TaskTimeline struct {
	PlannedStartDate *time.Time `json:"planned_start_date,omitempty"`
	PlannedEndDate   *time.Time `json:"planned_end_date,omitempty"`
}

// TaskBusinessValue is the business case carried over from a roadmap item.
// Impact scores are translated to levels; strategic alignment is kept numeric.
type TaskBusinessValue struct {
	CustomerImpact     BusinessValueLevel `json:"customer_impact"`
	RevenueImpact      BusinessValueLevel `json:"revenue_impact"`
	StrategicAlignment float64            `json:"strategic_alignment"`
}

// Task represents a tracked unit of work in the task store, created by
// converting an approved roadmap item
type Task struct {
	ID                 uuid.UUID         `json:"id"`
	RoadmapID          uuid.UUID         `json:"roadmap_id"`
	RoadmapItemID      uuid.UUID         `json:"roadmap_item_id"`
	Title              string            `json:"title"`
	Description        string            `json:"description,omitempty"`
	Category           TaskCategory      `json:"category"`
	Priority           ItemPriority      `json:"priority"`
	EstimatedEffort    EstimatedDuration `json:"estimated_effort"`
	Timeline           TaskTimeline      `json:"timeline"`
	BusinessValue      TaskBusinessValue `json:"business_value"`
	AcceptanceCriteria []string          `json:"acceptance_criteria,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}
