package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/benvon/roadmap-api/internal/queue"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// Generator processes asynchronous roadmap generation jobs
type Generator struct {
	service *roadmap.Service
	logger  *zap.Logger
}

// NewGenerator creates a new roadmap generation worker
func NewGenerator(service *roadmap.Service, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		service: service,
		logger:  logger,
	}
}

// ProcessJob processes a job based on its type
func (g *Generator) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	switch job.Type {
	case queue.JobTypeRoadmapGeneration:
		if err := g.processGenerationJob(ctx, job); err != nil {
			return g.handleJobError(msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			g.logger.Error("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// processGenerationJob decodes the generation request and runs the pipeline
func (g *Generator) processGenerationJob(ctx context.Context, job *queue.Job) error {
	var req roadmap.GenerateRequest
	if err := json.Unmarshal(job.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal generation request: %w", err)
	}

	result, err := g.service.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate roadmap: %w", err)
	}

	g.logger.Info("generation_job_completed",
		zap.String("job_id", job.ID.String()),
		zap.String("roadmap_id", result.Roadmap.ID.String()),
		zap.String("project_id", job.ProjectID.String()),
		zap.String("generated_by", string(result.Roadmap.GenerationContext.GeneratedBy)),
		zap.Int("item_count", len(result.Roadmap.Items)),
	)
	return nil
}

// handleJobError decides between retry and dead-lettering. Malformed payloads
// and rejected requests can never succeed, so they go straight to the DLQ;
// everything else is retried until the retry budget runs out.
func (g *Generator) handleJobError(msg queue.MessageInterface, job *queue.Job, err error) error {
	if roadmap.IsValidation(err) || roadmap.IsNotFound(err) {
		g.logger.Warn("generation_job_rejected",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		if nackErr := msg.Nack(false); nackErr != nil {
			g.logger.Error("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("job rejected: %w", err)
	}

	if job.CanRetry() {
		job.IncrementRetry()
		g.logger.Warn("generation_job_failed_will_retry",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			g.logger.Error("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	g.logger.Error("generation_job_failed_max_retries",
		zap.String("job_id", job.ID.String()),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		g.logger.Error("job_nack_failed", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
