package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/benvon/roadmap-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("roadmap_type", validateRoadmapType); err != nil {
		panic(fmt.Sprintf("failed to register roadmap_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("time_horizon", validateTimeHorizon); err != nil {
		panic(fmt.Sprintf("failed to register time_horizon validator: %v", err))
	}
	if err := Validate.RegisterValidation("feedback_priority", validateFeedbackPriority); err != nil {
		panic(fmt.Sprintf("failed to register feedback_priority validator: %v", err))
	}
}

// validateRoadmapType validates that a string is a valid RoadmapType enum value
func validateRoadmapType(fl validator.FieldLevel) bool {
	return models.RoadmapType(fl.Field().String()).IsValid()
}

// validateTimeHorizon validates that a string is a valid TimeHorizon enum value
func validateTimeHorizon(fl validator.FieldLevel) bool {
	return models.TimeHorizon(fl.Field().String()).IsValid()
}

// validateFeedbackPriority validates that a string is a valid FeedbackPriority enum value
func validateFeedbackPriority(fl validator.FieldLevel) bool {
	switch models.FeedbackPriority(fl.Field().String()) {
	case models.FeedbackPriorityCritical, models.FeedbackPriorityHigh, models.FeedbackPriorityMedium, models.FeedbackPriorityLow:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateRoadmapType validates a RoadmapType string value
func ValidateRoadmapType(value string) error {
	if !models.RoadmapType(value).IsValid() {
		return fmt.Errorf("invalid type: %s (must be 'strategic-only', 'customer-only', 'balanced', or 'custom')", value)
	}
	return nil
}

// ValidateTimeHorizon validates a TimeHorizon string value
func ValidateTimeHorizon(value string) error {
	if !models.TimeHorizon(value).IsValid() {
		return fmt.Errorf("invalid time_horizon: %s (must be 'quarter', 'half-year', 'year', or 'multi-year')", value)
	}
	return nil
}
