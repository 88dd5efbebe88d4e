package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask creates a new task
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, roadmap_id, roadmap_item_id, title, description, category, priority, estimated_effort, timeline, business_value, acceptance_criteria, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	effortJSON, err := json.Marshal(task.EstimatedEffort)
	if err != nil {
		return fmt.Errorf("failed to marshal estimated effort: %w", err)
	}
	timelineJSON, err := json.Marshal(task.Timeline)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}
	valueJSON, err := json.Marshal(task.BusinessValue)
	if err != nil {
		return fmt.Errorf("failed to marshal business value: %w", err)
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		task.ID,
		task.RoadmapID,
		task.RoadmapItemID,
		task.Title,
		task.Description,
		task.Category,
		task.Priority,
		effortJSON,
		timelineJSON,
		valueJSON,
		pq.Array(task.AcceptanceCriteria),
		pq.Array(task.Tags),
		now,
		now,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, roadmap_id, roadmap_item_id, title, description, category, priority, estimated_effort, timeline, business_value, acceptance_criteria, tags, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &roadmap.NotFoundError{Resource: "task", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListByRoadmap retrieves all tasks converted from a roadmap, oldest first
func (r *TaskRepository) ListByRoadmap(ctx context.Context, roadmapID uuid.UUID) ([]*models.Task, error) {
	query := `
		SELECT id, roadmap_id, roadmap_item_id, title, description, category, priority, estimated_effort, timeline, business_value, acceptance_criteria, tags, created_at, updated_at
		FROM tasks
		WHERE roadmap_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	var effortJSON, timelineJSON, valueJSON []byte

	err := row.Scan(
		&task.ID,
		&task.RoadmapID,
		&task.RoadmapItemID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Priority,
		&effortJSON,
		&timelineJSON,
		&valueJSON,
		pq.Array(&task.AcceptanceCriteria),
		pq.Array(&task.Tags),
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(effortJSON, &task.EstimatedEffort); err != nil {
		return nil, fmt.Errorf("failed to unmarshal estimated effort: %w", err)
	}
	if err := json.Unmarshal(timelineJSON, &task.Timeline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
	}
	if err := json.Unmarshal(valueJSON, &task.BusinessValue); err != nil {
		return nil, fmt.Errorf("failed to unmarshal business value: %w", err)
	}

	return task, nil
}
