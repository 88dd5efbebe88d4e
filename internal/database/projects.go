package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, description, goals, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	goalsJSON, err := json.Marshal(project.Goals)
	if err != nil {
		return fmt.Errorf("failed to marshal goals: %w", err)
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		goalsJSON,
		now,
		now,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetProject retrieves a project by ID
func (r *ProjectRepository) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project := &models.Project{}
	var goalsJSON []byte

	query := `
		SELECT id, name, description, goals, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&goalsJSON,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &roadmap.NotFoundError{Resource: "project", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := json.Unmarshal(goalsJSON, &project.Goals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal goals: %w", err)
	}

	return project, nil
}

// List retrieves all projects ordered by creation time
func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, name, description, goals, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		var goalsJSON []byte

		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&goalsJSON,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}

		if err := json.Unmarshal(goalsJSON, &project.Goals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal goals: %w", err)
		}

		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// Update updates an existing project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, goals = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at
	`

	goalsJSON, err := json.Marshal(project.Goals)
	if err != nil {
		return fmt.Errorf("failed to marshal goals: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		goalsJSON,
		time.Now(),
	).Scan(&project.UpdatedAt)

	if err == sql.ErrNoRows {
		return &roadmap.NotFoundError{Resource: "project", ID: project.ID.String()}
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

// Delete deletes a project by ID
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &roadmap.NotFoundError{Resource: "project", ID: id.String()}
	}

	return nil
}
