package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/queue"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

type mockMessage struct {
	job      *queue.Job
	acked    bool
	nacked   bool
	requeued bool
}

func (m *mockMessage) Ack() error {
	m.acked = true
	return nil
}

func (m *mockMessage) Nack(requeue bool) error {
	m.nacked = true
	m.requeued = requeue
	return nil
}

func (m *mockMessage) GetJob() *queue.Job {
	return m.job
}

var _ queue.MessageInterface = (*mockMessage)(nil)

type stubProjectStore struct {
	project *models.Project
}

func (s *stubProjectStore) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if s.project == nil || s.project.ID != id {
		return nil, &roadmap.NotFoundError{Resource: "project", ID: id.String()}
	}
	return s.project, nil
}

type stubFeedbackStore struct{}

func (stubFeedbackStore) ListActiveFeedback(context.Context, uuid.UUID) ([]models.FeedbackItem, error) {
	return nil, nil
}

type stubRoadmapStore struct {
	saved   *models.Roadmap
	saveErr error
}

func (s *stubRoadmapStore) GetRoadmap(_ context.Context, id uuid.UUID) (*models.Roadmap, error) {
	return nil, &roadmap.NotFoundError{Resource: "roadmap", ID: id.String()}
}

func (s *stubRoadmapStore) SaveRoadmap(_ context.Context, rm *models.Roadmap) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = rm
	return nil
}

type stubTaskStore struct{}

func (stubTaskStore) CreateTask(context.Context, *models.Task) error {
	return nil
}

func newWorkerFixture(projectID uuid.UUID, roadmaps *stubRoadmapStore) *Generator {
	service := roadmap.NewService(
		&stubProjectStore{project: &models.Project{ID: projectID, Name: "Atlas"}},
		stubFeedbackStore{},
		roadmaps,
		stubTaskStore{},
		nil,
		roadmap.NewFallbackGenerator(),
		nil,
	)
	return NewGenerator(service, nil)
}

func generationJob(t *testing.T, projectID uuid.UUID, req roadmap.GenerateRequest) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return queue.NewJob(queue.JobTypeRoadmapGeneration, projectID, payload)
}

func TestProcessJob_GeneratesAndAcks(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	roadmaps := &stubRoadmapStore{}
	worker := newWorkerFixture(projectID, roadmaps)

	msg := &mockMessage{job: generationJob(t, projectID, roadmap.GenerateRequest{
		ProjectID: projectID,
		Name:      "Q3 roadmap",
	})}

	if err := worker.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("process job: %v", err)
	}
	if !msg.acked {
		t.Error("successful job not acked")
	}
	if roadmaps.saved == nil {
		t.Fatal("roadmap not persisted")
	}
	if roadmaps.saved.GenerationContext.GeneratedBy != models.GeneratedByFallback {
		t.Errorf("generated_by = %q, want fallback with no AI generator configured", roadmaps.saved.GenerationContext.GeneratedBy)
	}
}

func TestProcessJob_InvalidRequestGoesToDLQ(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	worker := newWorkerFixture(projectID, &stubRoadmapStore{})

	// Missing name makes the request permanently invalid
	msg := &mockMessage{job: generationJob(t, projectID, roadmap.GenerateRequest{ProjectID: projectID})}

	if err := worker.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error for invalid request")
	}
	if !msg.nacked || msg.requeued {
		t.Errorf("invalid job must be dead-lettered, got nacked=%v requeued=%v", msg.nacked, msg.requeued)
	}
}

func TestProcessJob_UnknownProjectGoesToDLQ(t *testing.T) {
	t.Parallel()

	worker := newWorkerFixture(uuid.New(), &stubRoadmapStore{})

	other := uuid.New()
	msg := &mockMessage{job: generationJob(t, other, roadmap.GenerateRequest{
		ProjectID: other,
		Name:      "plan",
	})}

	if err := worker.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown project")
	}
	if !msg.nacked || msg.requeued {
		t.Errorf("unknown project job must be dead-lettered, got nacked=%v requeued=%v", msg.nacked, msg.requeued)
	}
}

func TestProcessJob_TransientFailureRequeues(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	worker := newWorkerFixture(projectID, &stubRoadmapStore{saveErr: errors.New("connection reset")})

	msg := &mockMessage{job: generationJob(t, projectID, roadmap.GenerateRequest{
		ProjectID: projectID,
		Name:      "plan",
	})}

	if err := worker.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error for persistence failure")
	}
	if !msg.nacked || !msg.requeued {
		t.Errorf("transient failure must requeue, got nacked=%v requeued=%v", msg.nacked, msg.requeued)
	}
	if msg.job.RetryCount != 1 {
		t.Errorf("retry count = %d, want 1", msg.job.RetryCount)
	}
}

func TestProcessJob_MaxRetriesGoesToDLQ(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	worker := newWorkerFixture(projectID, &stubRoadmapStore{saveErr: errors.New("connection reset")})

	job := generationJob(t, projectID, roadmap.GenerateRequest{ProjectID: projectID, Name: "plan"})
	job.RetryCount = job.MaxRetries
	msg := &mockMessage{job: job}

	if err := worker.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error at max retries")
	}
	if !msg.nacked || msg.requeued {
		t.Errorf("exhausted job must be dead-lettered, got nacked=%v requeued=%v", msg.nacked, msg.requeued)
	}
}

func TestProcessJob_UnknownTypeGoesToDLQ(t *testing.T) {
	t.Parallel()

	worker := newWorkerFixture(uuid.New(), &stubRoadmapStore{})
	msg := &mockMessage{job: queue.NewJob("tag_statistics", uuid.New(), nil)}

	if err := worker.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown job type")
	}
	if !msg.nacked || msg.requeued {
		t.Errorf("unknown type must be dead-lettered, got nacked=%v requeued=%v", msg.nacked, msg.requeued)
	}
}
