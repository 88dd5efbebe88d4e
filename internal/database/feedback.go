package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db *DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create creates a new feedback item
func (r *FeedbackRepository) Create(ctx context.Context, item *models.FeedbackItem) error {
	query := `
		INSERT INTO feedback (id, project_id, content, category, priority, sentiment, is_ignored, extracted_keywords, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.ProjectID,
		item.Content,
		item.Category,
		item.Priority,
		item.Sentiment,
		item.IsIgnored,
		pq.Array(item.ExtractedKeywords),
		now,
		now,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// GetByID retrieves a feedback item by ID
func (r *FeedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FeedbackItem, error) {
	item := &models.FeedbackItem{}

	query := `
		SELECT id, project_id, content, category, priority, sentiment, is_ignored, extracted_keywords, created_at, updated_at
		FROM feedback
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.ProjectID,
		&item.Content,
		&item.Category,
		&item.Priority,
		&item.Sentiment,
		&item.IsIgnored,
		pq.Array(&item.ExtractedKeywords),
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &roadmap.NotFoundError{Resource: "feedback", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return item, nil
}

// ListByProject retrieves all feedback for a project, newest first
func (r *FeedbackRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.FeedbackItem, error) {
	query := `
		SELECT id, project_id, content, category, priority, sentiment, is_ignored, extracted_keywords, created_at, updated_at
		FROM feedback
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	return r.listFeedback(ctx, query, projectID)
}

// ListActiveFeedback retrieves non-ignored feedback for a project, newest
// first. This is the view the roadmap engine aggregates over.
func (r *FeedbackRepository) ListActiveFeedback(ctx context.Context, projectID uuid.UUID) ([]models.FeedbackItem, error) {
	query := `
		SELECT id, project_id, content, category, priority, sentiment, is_ignored, extracted_keywords, created_at, updated_at
		FROM feedback
		WHERE project_id = $1 AND is_ignored = false
		ORDER BY created_at DESC
	`
	return r.listFeedback(ctx, query, projectID)
}

func (r *FeedbackRepository) listFeedback(ctx context.Context, query string, args ...any) ([]models.FeedbackItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var items []models.FeedbackItem
	for rows.Next() {
		var item models.FeedbackItem

		err := rows.Scan(
			&item.ID,
			&item.ProjectID,
			&item.Content,
			&item.Category,
			&item.Priority,
			&item.Sentiment,
			&item.IsIgnored,
			pq.Array(&item.ExtractedKeywords),
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}

	return items, nil
}

// SetIgnored marks a feedback item as ignored or restores it
func (r *FeedbackRepository) SetIgnored(ctx context.Context, id uuid.UUID, ignored bool) error {
	query := `
		UPDATE feedback
		SET is_ignored = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, ignored, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &roadmap.NotFoundError{Resource: "feedback", ID: id.String()}
	}

	return nil
}

// Delete deletes a feedback item by ID
func (r *FeedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM feedback WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &roadmap.NotFoundError{Resource: "feedback", ID: id.String()}
	}

	return nil
}
