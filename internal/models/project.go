package models

import (
	"time"

	"github.com/google/uuid"
)

// GoalPriority represents the priority of a project goal
type GoalPriority string

const (
	GoalPriorityHigh   GoalPriority = "high"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityLow    GoalPriority = "low"
)

// Goal represents a single goal within a project
type Goal struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    GoalPriority `json:"priority"`
	Status      string       `json:"status,omitempty"`
}

// Project represents a product under management. Projects are owned by the
// persistence layer and are read-only to the roadmap engine.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Goals       []Goal    `json:"goals"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
