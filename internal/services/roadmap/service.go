package roadmap

import (
	"context"
	"time"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectStore is the narrow read interface the engine uses to load projects
type ProjectStore interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// FeedbackStore is the narrow read interface the engine uses to load active
// (non-ignored) feedback for a project
type FeedbackStore interface {
	ListActiveFeedback(ctx context.Context, projectID uuid.UUID) ([]models.FeedbackItem, error)
}

// RoadmapStore is the write interface for the roadmap document store
type RoadmapStore interface {
	GetRoadmap(ctx context.Context, id uuid.UUID) (*models.Roadmap, error)
	SaveRoadmap(ctx context.Context, roadmap *models.Roadmap) error
}

// TaskStore is the write interface for the external task store
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
}

// Service orchestrates the roadmap generation and allocation pipeline:
// aggregate context, resolve allocation, generate a draft (AI first, fallback
// on failure), normalize, recompute analytics, persist.
type Service struct {
	projects ProjectStore
	feedback FeedbackStore
	roadmaps RoadmapStore
	tasks    TaskStore

	// aiGenerator may be nil when no AI capability is configured
	aiGenerator Generator
	fallback    Generator

	logger *zap.Logger
	now    func() time.Time
}

// NewService creates the roadmap engine. aiGenerator may be nil, in which
// case every generation runs the deterministic fallback.
func NewService(
	projects ProjectStore,
	feedback FeedbackStore,
	roadmaps RoadmapStore,
	tasks TaskStore,
	aiGenerator Generator,
	fallback Generator,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		projects:    projects,
		feedback:    feedback,
		roadmaps:    roadmaps,
		tasks:       tasks,
		aiGenerator: aiGenerator,
		fallback:    fallback,
		logger:      logger,
		now:         time.Now,
	}
}

// GenerateRequest is a request to generate a roadmap for a project
type GenerateRequest struct {
	ProjectID        uuid.UUID                  `json:"project_id"`
	Name             string                     `json:"name"`
	Description      string                     `json:"description,omitempty"`
	Type             models.RoadmapType         `json:"type,omitempty"`
	TimeHorizon      models.TimeHorizon         `json:"time_horizon,omitempty"`
	CustomAllocation *models.AllocationStrategy `json:"custom_allocation,omitempty"`
	FocusAreas       []string                   `json:"focus_areas,omitempty"`
	Constraints      []string                   `json:"constraints,omitempty"`
}

// GenerateResult is a generated roadmap together with the generator's
// free-text rationale
type GenerateResult struct {
	Roadmap   *models.Roadmap `json:"roadmap"`
	Rationale string          `json:"rationale,omitempty"`
}

// validate applies defaults and rejects requests that cannot be served
func (r *GenerateRequest) validate() error {
	if r.ProjectID == uuid.Nil {
		return &ValidationError{Field: "project_id", Message: "project_id is required"}
	}
	if r.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if r.Type == "" {
		r.Type = models.RoadmapTypeBalanced
	}
	if !r.Type.IsValid() {
		return &ValidationError{Field: "type", Message: "invalid roadmap type: " + string(r.Type)}
	}
	if r.TimeHorizon == "" {
		r.TimeHorizon = models.TimeHorizonQuarter
	}
	if !r.TimeHorizon.IsValid() {
		return &ValidationError{Field: "time_horizon", Message: "invalid time horizon: " + string(r.TimeHorizon)}
	}
	return nil
}

// Generate runs the full pipeline for a generation request. AI failures are
// recovered by substituting the deterministic fallback; which strategy
// actually produced the draft is recorded in the roadmap's generation
// context.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	alloc, err := ResolveAllocation(req.Type, req.CustomAllocation)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedback.ListActiveFeedback(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	pc := BuildProjectContext(project, feedback)
	params := models.GenerationParameters{
		TimeHorizon: req.TimeHorizon,
		FocusAreas:  req.FocusAreas,
		Constraints: req.Constraints,
	}

	draft, generatedBy := s.generateDraft(ctx, pc, alloc, params)

	normalized := NormalizeDraft(draft, DraftDefaults{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		TimeHorizon: req.TimeHorizon,
		Allocation:  alloc,
	})

	now := s.now()
	rm := &models.Roadmap{
		ID:                 uuid.New(),
		ProjectID:          req.ProjectID,
		Name:               normalized.Name,
		Description:        normalized.Description,
		Type:               normalized.Type,
		TimeHorizon:        normalized.TimeHorizon,
		AllocationStrategy: normalized.Allocation,
		Items:              assignItemIDs(normalized.Items),
		GenerationContext: models.GenerationContext{
			Prompt:      draft.Prompt,
			Parameters:  params,
			GeneratedBy: generatedBy,
			Model:       draft.Model,
			GeneratedAt: now,
		},
		Version:   1,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rm.Analytics = RecomputeAnalytics(rm.Items)

	if err := s.roadmaps.SaveRoadmap(ctx, rm); err != nil {
		return nil, &PersistenceError{Op: "save roadmap", Err: err}
	}

	s.logger.Info("roadmap_generated",
		zap.String("roadmap_id", rm.ID.String()),
		zap.String("project_id", req.ProjectID.String()),
		zap.String("generated_by", string(generatedBy)),
		zap.Int("item_count", len(rm.Items)),
	)

	return &GenerateResult{Roadmap: rm, Rationale: normalized.Rationale}, nil
}

// generateDraft attempts the AI strategy first and silently substitutes the
// fallback on any GenerationError. The fallback never fails.
func (s *Service) generateDraft(ctx context.Context, pc ProjectContext, alloc models.AllocationStrategy, params models.GenerationParameters) (*Draft, models.GeneratedBy) {
	if s.aiGenerator != nil {
		draft, err := s.aiGenerator.Generate(ctx, pc, alloc, params)
		if err == nil {
			return draft, s.aiGenerator.Source()
		}
		s.logger.Warn("generation_fallback_used", zap.Error(err))
	}

	draft, _ := s.fallback.Generate(ctx, pc, alloc, params)
	return draft, s.fallback.Source()
}

// CreateRequest is a request to create a roadmap from caller-supplied items
// without invoking a generation strategy
type CreateRequest struct {
	ProjectID          uuid.UUID                  `json:"project_id"`
	Name               string                     `json:"name"`
	Description        string                     `json:"description,omitempty"`
	Type               models.RoadmapType         `json:"type,omitempty"`
	TimeHorizon        models.TimeHorizon         `json:"time_horizon,omitempty"`
	AllocationStrategy *models.AllocationStrategy `json:"allocation_strategy,omitempty"`
	Items              []DraftItem                `json:"items,omitempty"`
}

// Create persists a manually specified roadmap. Items pass through the same
// normalizer as generated drafts, so the enum invariants hold here too.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Roadmap, error) {
	gen := GenerateRequest{
		ProjectID:        req.ProjectID,
		Name:             req.Name,
		Type:             req.Type,
		TimeHorizon:      req.TimeHorizon,
		CustomAllocation: req.AllocationStrategy,
	}
	if err := gen.validate(); err != nil {
		return nil, err
	}

	var alloc models.AllocationStrategy
	if req.AllocationStrategy != nil {
		if err := ValidateAllocation(*req.AllocationStrategy); err != nil {
			return nil, err
		}
		alloc = *req.AllocationStrategy
	} else {
		resolved, err := ResolveAllocation(gen.Type, nil)
		if err != nil {
			return nil, err
		}
		alloc = resolved
	}

	// The project must exist even though no context is aggregated
	if _, err := s.projects.GetProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	items := make([]models.RoadmapItem, 0, len(req.Items))
	for i := range req.Items {
		items = append(items, NormalizeItem(req.Items[i]))
	}

	now := s.now()
	rm := &models.Roadmap{
		ID:                 uuid.New(),
		ProjectID:          req.ProjectID,
		Name:               req.Name,
		Description:        req.Description,
		Type:               gen.Type,
		TimeHorizon:        gen.TimeHorizon,
		AllocationStrategy: alloc,
		Items:              assignItemIDs(items),
		GenerationContext: models.GenerationContext{
			Parameters:  models.GenerationParameters{TimeHorizon: gen.TimeHorizon},
			GeneratedBy: models.GeneratedByFallback,
			GeneratedAt: now,
		},
		Version:   1,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rm.Analytics = RecomputeAnalytics(rm.Items)

	if err := s.roadmaps.SaveRoadmap(ctx, rm); err != nil {
		return nil, &PersistenceError{Op: "save roadmap", Err: err}
	}
	return rm, nil
}

// GetRoadmap retrieves a roadmap by ID
func (s *Service) GetRoadmap(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error) {
	return s.roadmaps.GetRoadmap(ctx, roadmapID)
}

// AddItem normalizes and appends an item to a roadmap
func (s *Service) AddItem(ctx context.Context, roadmapID uuid.UUID, item DraftItem) (*models.Roadmap, error) {
	rm, err := s.roadmaps.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeItem(item)
	normalized.ID = uuid.New()
	rm.Items = append(rm.Items, normalized)

	if err := s.saveMutated(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// UpdateItem replaces an existing item, keeping its ID and task link
func (s *Service) UpdateItem(ctx context.Context, roadmapID, itemID uuid.UUID, item DraftItem) (*models.Roadmap, error) {
	rm, err := s.roadmaps.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	existing := rm.ItemByID(itemID)
	if existing == nil {
		return nil, &NotFoundError{Resource: "roadmap item", ID: itemID.String()}
	}

	normalized := NormalizeItem(item)
	normalized.ID = existing.ID
	normalized.TaskID = existing.TaskID
	*existing = normalized

	if err := s.saveMutated(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// RemoveItem deletes an item from a roadmap by ID
func (s *Service) RemoveItem(ctx context.Context, roadmapID, itemID uuid.UUID) (*models.Roadmap, error) {
	rm, err := s.roadmaps.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	if !rm.RemoveItem(itemID) {
		return nil, &NotFoundError{Resource: "roadmap item", ID: itemID.String()}
	}

	if err := s.saveMutated(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// Deactivate soft-deletes a roadmap. The engine never hard-deletes.
func (s *Service) Deactivate(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error) {
	rm, err := s.roadmaps.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	rm.IsActive = false
	if err := s.saveMutated(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// saveMutated recomputes analytics, bumps the version and persists. All
// structural mutations funnel through here so the derived metrics can never
// drift from the item list.
func (s *Service) saveMutated(ctx context.Context, rm *models.Roadmap) error {
	rm.Analytics = RecomputeAnalytics(rm.Items)
	rm.Version++
	rm.UpdatedAt = s.now()
	if err := s.roadmaps.SaveRoadmap(ctx, rm); err != nil {
		return &PersistenceError{Op: "save roadmap", Err: err}
	}
	return nil
}

// assignItemIDs gives every item without an ID a fresh one
func assignItemIDs(items []models.RoadmapItem) []models.RoadmapItem {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return items
}
