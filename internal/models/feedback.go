package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackPriority represents the priority assigned to a feedback item
type FeedbackPriority string

const (
	FeedbackPriorityCritical FeedbackPriority = "critical"
	FeedbackPriorityHigh     FeedbackPriority = "high"
	FeedbackPriorityMedium   FeedbackPriority = "medium"
	FeedbackPriorityLow      FeedbackPriority = "low"
)

// FeedbackItem represents a single piece of customer feedback attached to a
// project. Only active (non-ignored) items feed roadmap generation.
type FeedbackItem struct {
	ID                uuid.UUID        `json:"id"`
	ProjectID         uuid.UUID        `json:"project_id"`
	Content           string           `json:"content"`
	Category          string           `json:"category,omitempty"`
	Priority          FeedbackPriority `json:"priority"`
	Sentiment         string           `json:"sentiment,omitempty"`
	IsIgnored         bool             `json:"is_ignored"`
	ExtractedKeywords []string         `json:"extracted_keywords,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
