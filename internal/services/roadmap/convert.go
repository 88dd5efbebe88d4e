package roadmap

import (
	"context"
	"errors"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProvenanceTag marks tasks that originated from roadmap conversion
const ProvenanceTag = "roadmap-generated"

// Thresholds for translating a 0-10 impact score into a level
const (
	highValueThreshold   = 8
	mediumValueThreshold = 5
)

// taskCategories maps a roadmap item category to its task category
var taskCategories = map[models.ItemCategory]models.TaskCategory{
	models.ItemCategoryStrategic:      models.TaskCategoryFeature,
	models.ItemCategoryCustomerDriven: models.TaskCategoryImprovement,
	models.ItemCategoryMaintenance:    models.TaskCategoryMaintenance,
	models.ItemCategoryInnovation:     models.TaskCategoryResearch,
}

// ConvertResult is the outcome of a conversion run
type ConvertResult struct {
	Roadmap        *models.Roadmap `json:"roadmap"`
	ConvertedTasks []models.Task   `json:"converted_tasks"`
}

// ConvertToTasks projects roadmap items into tasks in the task store. When
// itemIDs is empty every item is targeted; items already linked to a task are
// skipped, so re-invoking with overlapping IDs creates no duplicates.
//
// Conversion is not transactional: tasks created before a mid-batch failure
// remain, their source items stay linked, and the failed item IDs are
// reported in a ConversionError alongside the partial result.
func (s *Service) ConvertToTasks(ctx context.Context, roadmapID uuid.UUID, itemIDs []uuid.UUID) (*ConvertResult, error) {
	rm, err := s.roadmaps.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	targets, err := selectTargets(rm, itemIDs)
	if err != nil {
		return nil, err
	}

	created := make([]models.Task, 0, len(targets))
	var failedIDs []uuid.UUID
	var failures []error

	for _, item := range targets {
		if item.TaskID != nil {
			continue // already converted
		}

		task := BuildTask(rm, item)
		if err := s.tasks.CreateTask(ctx, task); err != nil {
			s.logger.Warn("task_conversion_item_failed",
				zap.String("roadmap_id", rm.ID.String()),
				zap.String("item_id", item.ID.String()),
				zap.Error(err),
			)
			failedIDs = append(failedIDs, item.ID)
			failures = append(failures, err)
			continue
		}

		taskID := task.ID
		item.TaskID = &taskID
		created = append(created, *task)
	}

	if len(created) > 0 {
		if err := s.saveMutated(ctx, rm); err != nil {
			return nil, err
		}
	}

	result := &ConvertResult{Roadmap: rm, ConvertedTasks: created}
	if len(failedIDs) > 0 {
		return result, &ConversionError{FailedItemIDs: failedIDs, Err: errors.Join(failures...)}
	}
	return result, nil
}

// selectTargets resolves the requested item IDs to items on the roadmap,
// defaulting to all items when none are named
func selectTargets(rm *models.Roadmap, itemIDs []uuid.UUID) ([]*models.RoadmapItem, error) {
	if len(itemIDs) == 0 {
		targets := make([]*models.RoadmapItem, 0, len(rm.Items))
		for i := range rm.Items {
			targets = append(targets, &rm.Items[i])
		}
		return targets, nil
	}

	targets := make([]*models.RoadmapItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		item := rm.ItemByID(id)
		if item == nil {
			return nil, &NotFoundError{Resource: "roadmap item", ID: id.String()}
		}
		targets = append(targets, item)
	}
	return targets, nil
}

// BuildTask projects a roadmap item into a task entity. The task carries the
// item's planning data plus provenance tags linking it back to the roadmap.
func BuildTask(rm *models.Roadmap, item *models.RoadmapItem) *models.Task {
	return &models.Task{
		ID:              uuid.New(),
		RoadmapID:       rm.ID,
		RoadmapItemID:   item.ID,
		Title:           item.Title,
		Description:     item.Description,
		Category:        taskCategories[item.Category],
		Priority:        item.Priority,
		EstimatedEffort: item.Timeframe.EstimatedDuration,
		Timeline: models.TaskTimeline{
			PlannedStartDate: item.Timeframe.StartDate,
			PlannedEndDate:   item.Timeframe.EndDate,
		},
		BusinessValue: models.TaskBusinessValue{
			CustomerImpact:     BusinessValueLevel(item.BusinessJustification.CustomerImpact),
			RevenueImpact:      BusinessValueLevel(item.BusinessJustification.RevenueImpact),
			StrategicAlignment: item.BusinessJustification.StrategicAlignment,
		},
		AcceptanceCriteria: item.SuccessMetrics,
		Tags:               []string{string(item.Category), ProvenanceTag},
	}
}

// BusinessValueLevel translates a 0-10 score into a categorical level
func BusinessValueLevel(score float64) models.BusinessValueLevel {
	switch {
	case score >= highValueThreshold:
		return models.BusinessValueHigh
	case score >= mediumValueThreshold:
		return models.BusinessValueMedium
	default:
		return models.BusinessValueLow
	}
}
