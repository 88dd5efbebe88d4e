package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// RoadmapRepository handles roadmap database operations. Items, allocation,
// analytics and generation context are stored as JSONB documents.
type RoadmapRepository struct {
	db *DB
}

// NewRoadmapRepository creates a new roadmap repository
func NewRoadmapRepository(db *DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

// SaveRoadmap inserts or replaces a roadmap document
func (r *RoadmapRepository) SaveRoadmap(ctx context.Context, rm *models.Roadmap) error {
	query := `
		INSERT INTO roadmaps (id, project_id, name, description, type, time_horizon, allocation_strategy, items, generation_context, analytics, version, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			time_horizon = EXCLUDED.time_horizon,
			allocation_strategy = EXCLUDED.allocation_strategy,
			items = EXCLUDED.items,
			generation_context = EXCLUDED.generation_context,
			analytics = EXCLUDED.analytics,
			version = EXCLUDED.version,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	allocationJSON, err := json.Marshal(rm.AllocationStrategy)
	if err != nil {
		return fmt.Errorf("failed to marshal allocation strategy: %w", err)
	}
	itemsJSON, err := json.Marshal(rm.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	generationJSON, err := json.Marshal(rm.GenerationContext)
	if err != nil {
		return fmt.Errorf("failed to marshal generation context: %w", err)
	}
	analyticsJSON, err := json.Marshal(rm.Analytics)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		rm.ID,
		rm.ProjectID,
		rm.Name,
		rm.Description,
		rm.Type,
		rm.TimeHorizon,
		allocationJSON,
		itemsJSON,
		generationJSON,
		analyticsJSON,
		rm.Version,
		rm.IsActive,
		rm.CreatedAt,
		rm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save roadmap: %w", err)
	}

	return nil
}

// GetRoadmap retrieves a roadmap by ID
func (r *RoadmapRepository) GetRoadmap(ctx context.Context, id uuid.UUID) (*models.Roadmap, error) {
	query := `
		SELECT id, project_id, name, description, type, time_horizon, allocation_strategy, items, generation_context, analytics, version, is_active, created_at, updated_at
		FROM roadmaps
		WHERE id = $1
	`

	rm, err := scanRoadmap(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &roadmap.NotFoundError{Resource: "roadmap", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}

	return rm, nil
}

// ListByProject retrieves roadmaps for a project, newest first. When
// activeOnly is set, soft-deleted roadmaps are excluded.
func (r *RoadmapRepository) ListByProject(ctx context.Context, projectID uuid.UUID, activeOnly bool) ([]*models.Roadmap, error) {
	query := `
		SELECT id, project_id, name, description, type, time_horizon, allocation_strategy, items, generation_context, analytics, version, is_active, created_at, updated_at
		FROM roadmaps
		WHERE project_id = $1
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roadmaps: %w", err)
	}
	defer rows.Close()

	var roadmaps []*models.Roadmap
	for rows.Next() {
		rm, err := scanRoadmap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roadmap: %w", err)
		}
		roadmaps = append(roadmaps, rm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roadmaps: %w", err)
	}

	return roadmaps, nil
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRoadmap(row scanner) (*models.Roadmap, error) {
	rm := &models.Roadmap{}
	var allocationJSON, itemsJSON, generationJSON, analyticsJSON []byte

	err := row.Scan(
		&rm.ID,
		&rm.ProjectID,
		&rm.Name,
		&rm.Description,
		&rm.Type,
		&rm.TimeHorizon,
		&allocationJSON,
		&itemsJSON,
		&generationJSON,
		&analyticsJSON,
		&rm.Version,
		&rm.IsActive,
		&rm.CreatedAt,
		&rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(allocationJSON, &rm.AllocationStrategy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allocation strategy: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &rm.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	if err := json.Unmarshal(generationJSON, &rm.GenerationContext); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generation context: %w", err)
	}
	if err := json.Unmarshal(analyticsJSON, &rm.Analytics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analytics: %w", err)
	}

	return rm, nil
}
