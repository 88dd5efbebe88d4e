package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/queue"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

type fakeProjectStore struct {
	project *models.Project
}

func (s *fakeProjectStore) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if s.project == nil || s.project.ID != id {
		return nil, &roadmap.NotFoundError{Resource: "project", ID: id.String()}
	}
	return s.project, nil
}

type fakeFeedbackStore struct{}

func (fakeFeedbackStore) ListActiveFeedback(context.Context, uuid.UUID) ([]models.FeedbackItem, error) {
	return nil, nil
}

type fakeRoadmapStore struct {
	byID map[uuid.UUID]*models.Roadmap
}

func newFakeRoadmapStore() *fakeRoadmapStore {
	return &fakeRoadmapStore{byID: make(map[uuid.UUID]*models.Roadmap)}
}

func (s *fakeRoadmapStore) GetRoadmap(_ context.Context, id uuid.UUID) (*models.Roadmap, error) {
	rm, ok := s.byID[id]
	if !ok {
		return nil, &roadmap.NotFoundError{Resource: "roadmap", ID: id.String()}
	}
	return rm, nil
}

func (s *fakeRoadmapStore) SaveRoadmap(_ context.Context, rm *models.Roadmap) error {
	s.byID[rm.ID] = rm
	return nil
}

type fakeTaskStore struct {
	failFor map[string]error
	created []*models.Task
}

func (s *fakeTaskStore) CreateTask(_ context.Context, task *models.Task) error {
	if err, ok := s.failFor[task.Title]; ok {
		return err
	}
	s.created = append(s.created, task)
	return nil
}

type fakeLister struct {
	roadmaps []*models.Roadmap
	err      error
}

func (s *fakeLister) ListByProject(_ context.Context, projectID uuid.UUID, activeOnly bool) ([]*models.Roadmap, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.Roadmap, 0, len(s.roadmaps))
	for _, rm := range s.roadmaps {
		if rm.ProjectID != projectID {
			continue
		}
		if activeOnly && !rm.IsActive {
			continue
		}
		out = append(out, rm)
	}
	return out, nil
}

type fakeJobQueue struct {
	enqueued   []*queue.Job
	enqueueErr error
}

func (q *fakeJobQueue) Enqueue(_ context.Context, job *queue.Job) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.enqueued = append(q.enqueued, job)
	return nil
}

func (q *fakeJobQueue) Consume(context.Context, int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (q *fakeJobQueue) Close() error { return nil }

func (q *fakeJobQueue) HealthCheck(context.Context) error { return nil }

type roadmapFixture struct {
	projectID uuid.UUID
	store     *fakeRoadmapStore
	tasks     *fakeTaskStore
	lister    *fakeLister
	jobs      *fakeJobQueue
	service   *roadmap.Service
	router    *mux.Router
}

func newRoadmapFixture(t *testing.T) *roadmapFixture {
	t.Helper()

	f := &roadmapFixture{
		projectID: uuid.New(),
		store:     newFakeRoadmapStore(),
		tasks:     &fakeTaskStore{failFor: map[string]error{}},
		lister:    &fakeLister{},
		jobs:      &fakeJobQueue{},
	}
	f.service = roadmap.NewService(
		&fakeProjectStore{project: &models.Project{ID: f.projectID, Name: "Atlas"}},
		fakeFeedbackStore{},
		f.store,
		f.tasks,
		nil,
		roadmap.NewFallbackGenerator(),
		nil,
	)

	handler := NewRoadmapHandler(f.service, f.lister, f.jobs)
	f.router = mux.NewRouter()
	handler.RegisterRoutes(f.router.PathPrefix("/roadmaps").Subrouter())
	return f
}

// seedRoadmap generates and stores a roadmap through the service so the
// fixture state matches what production writes
func (f *roadmapFixture) seedRoadmap(t *testing.T) *models.Roadmap {
	t.Helper()

	result, err := f.service.Generate(context.Background(), roadmap.GenerateRequest{
		ProjectID: f.projectID,
		Name:      "Q3 roadmap",
	})
	if err != nil {
		t.Fatalf("seed roadmap: %v", err)
	}
	return result.Roadmap
}

func decodeEnvelope(t *testing.T, resp *http.Response, data any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if data != nil {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			t.Fatalf("Failed to decode data: %v", err)
		}
	}
}

func TestGenerateRoadmap_Sync(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	req := newTestRequest("POST", "/roadmaps/generate", GenerateRoadmapRequest{
		GenerateRequest: roadmap.GenerateRequest{
			ProjectID: f.projectID,
			Name:      "Q3 roadmap",
		},
	})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var result roadmap.GenerateResult
	decodeEnvelope(t, resp, &result)

	if result.Roadmap == nil {
		t.Fatal("Expected roadmap in response")
	}
	if result.Roadmap.GenerationContext.GeneratedBy != models.GeneratedByFallback {
		t.Errorf("generated_by = %q, want fallback with no AI generator", result.Roadmap.GenerationContext.GeneratedBy)
	}
	if len(result.Roadmap.Items) == 0 {
		t.Error("Expected generated items")
	}
	if len(f.store.byID) != 1 {
		t.Errorf("Expected 1 stored roadmap, got %d", len(f.store.byID))
	}
}

func TestGenerateRoadmap_Async(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	req := newTestRequest("POST", "/roadmaps/generate", GenerateRoadmapRequest{
		GenerateRequest: roadmap.GenerateRequest{
			ProjectID: f.projectID,
			Name:      "Q3 roadmap",
		},
		Async: true,
	})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", resp.StatusCode)
	}

	var enqueued EnqueuedResponse
	decodeEnvelope(t, resp, &enqueued)

	if enqueued.Status != "queued" {
		t.Errorf("Expected status 'queued', got %q", enqueued.Status)
	}
	if len(f.jobs.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued job, got %d", len(f.jobs.enqueued))
	}
	job := f.jobs.enqueued[0]
	if job.Type != queue.JobTypeRoadmapGeneration {
		t.Errorf("job type = %s, want %s", job.Type, queue.JobTypeRoadmapGeneration)
	}
	if job.ProjectID != f.projectID {
		t.Errorf("job project ID = %s, want %s", job.ProjectID, f.projectID)
	}
	if job.NotAfter == nil {
		t.Fatal("Expected enqueued job to carry a processing deadline")
	}
	remaining := time.Until(*job.NotAfter)
	if remaining <= 0 || remaining > DefaultGenerationJobTTL {
		t.Errorf("deadline in %s, want within %s of enqueue", remaining, DefaultGenerationJobTTL)
	}
	if len(f.store.byID) != 0 {
		t.Error("Async request must not generate synchronously")
	}
}

func TestGenerateRoadmap_AsyncDeadlineOverride(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	handler := NewRoadmapHandler(f.service, f.lister, f.jobs, WithGenerationJobTTL(time.Minute))
	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/roadmaps").Subrouter())

	req := newTestRequest("POST", "/roadmaps/generate", GenerateRoadmapRequest{
		GenerateRequest: roadmap.GenerateRequest{
			ProjectID: f.projectID,
			Name:      "Q3 roadmap",
		},
		Async: true,
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}
	if len(f.jobs.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued job, got %d", len(f.jobs.enqueued))
	}
	job := f.jobs.enqueued[0]
	if job.NotAfter == nil || time.Until(*job.NotAfter) > time.Minute {
		t.Errorf("job deadline = %v, want within the configured 1m", job.NotAfter)
	}
}

func TestGenerateRoadmap_AsyncWithoutQueue(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	handler := NewRoadmapHandler(f.service, f.lister, nil)
	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/roadmaps").Subrouter())

	req := newTestRequest("POST", "/roadmaps/generate", GenerateRoadmapRequest{
		GenerateRequest: roadmap.GenerateRequest{
			ProjectID: f.projectID,
			Name:      "Q3 roadmap",
		},
		Async: true,
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestGenerateRoadmap_ValidationFailure(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	tests := []struct {
		name string
		body GenerateRoadmapRequest
	}{
		{
			name: "missing name",
			body: GenerateRoadmapRequest{GenerateRequest: roadmap.GenerateRequest{ProjectID: f.projectID}},
		},
		{
			name: "missing project",
			body: GenerateRoadmapRequest{GenerateRequest: roadmap.GenerateRequest{Name: "plan"}},
		},
		{
			name: "invalid type",
			body: GenerateRoadmapRequest{GenerateRequest: roadmap.GenerateRequest{
				ProjectID: f.projectID,
				Name:      "plan",
				Type:      "aggressive",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := newTestRequest("POST", "/roadmaps/generate", tt.body)
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestGenerateRoadmap_UnknownProject(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	req := newTestRequest("POST", "/roadmaps/generate", GenerateRoadmapRequest{
		GenerateRequest: roadmap.GenerateRequest{
			ProjectID: uuid.New(),
			Name:      "plan",
		},
	})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCreateRoadmap(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	req := newTestRequest("POST", "/roadmaps", roadmap.CreateRequest{
		ProjectID: f.projectID,
		Name:      "Manual plan",
		Items: []roadmap.DraftItem{
			{Title: "Ship SSO", Category: "strategic"},
		},
	})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var rm models.Roadmap
	decodeEnvelope(t, resp, &rm)

	if rm.Name != "Manual plan" {
		t.Errorf("name = %q", rm.Name)
	}
	if len(rm.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(rm.Items))
	}
	if rm.Items[0].ID == uuid.Nil {
		t.Error("Expected item ID to be assigned")
	}
}

func TestGetRoadmap(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)

	req := newTestRequest("GET", "/roadmaps/"+seeded.ID.String(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var rm models.Roadmap
	decodeEnvelope(t, resp, &rm)
	if rm.ID != seeded.ID {
		t.Errorf("roadmap ID = %s, want %s", rm.ID, seeded.ID)
	}
}

func TestGetRoadmap_NotFound(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	req := newTestRequest("GET", "/roadmaps/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetRoadmap_InvalidID(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	req := newTestRequest("GET", "/roadmaps/not-a-uuid", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListRoadmaps(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)
	f.lister.roadmaps = []*models.Roadmap{seeded}

	req := newTestRequest("GET", "/roadmaps?project_id="+f.projectID.String(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var roadmaps []*models.Roadmap
	decodeEnvelope(t, resp, &roadmaps)
	if len(roadmaps) != 1 {
		t.Errorf("Expected 1 roadmap, got %d", len(roadmaps))
	}
}

func TestListRoadmaps_RequiresProjectID(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)

	req := newTestRequest("GET", "/roadmaps", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestDeactivateRoadmap(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)

	req := newTestRequest("DELETE", "/roadmaps/"+seeded.ID.String(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}

	stored := f.store.byID[seeded.ID]
	if stored.IsActive {
		t.Error("Expected roadmap to be deactivated")
	}
}

func TestAddItem(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)
	before := len(seeded.Items)

	req := newTestRequest("POST", "/roadmaps/"+seeded.ID.String()+"/items", roadmap.DraftItem{
		Title:    "Harden ingestion",
		Category: "maintenance",
	})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var rm models.Roadmap
	decodeEnvelope(t, resp, &rm)
	if len(rm.Items) != before+1 {
		t.Errorf("Expected %d items, got %d", before+1, len(rm.Items))
	}
}

func TestAddItem_RequiresTitle(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)

	req := newTestRequest("POST", "/roadmaps/"+seeded.ID.String()+"/items", roadmap.DraftItem{Category: "strategic"})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUpdateItem(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)
	target := seeded.Items[0]

	req := newTestRequest("PATCH", fmt.Sprintf("/roadmaps/%s/items/%s", seeded.ID, target.ID), roadmap.DraftItem{
		Title:    "Revised initiative",
		Category: "strategic",
	})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var rm models.Roadmap
	decodeEnvelope(t, resp, &rm)
	updated := rm.ItemByID(target.ID)
	if updated == nil {
		t.Fatal("Expected updated item to keep its ID")
	}
	if updated.Title != "Revised initiative" {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)
	target := seeded.Items[0]
	before := len(seeded.Items)

	req := newTestRequest("DELETE", fmt.Sprintf("/roadmaps/%s/items/%s", seeded.ID, target.ID), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var rm models.Roadmap
	decodeEnvelope(t, resp, &rm)
	if len(rm.Items) != before-1 {
		t.Errorf("Expected %d items, got %d", before-1, len(rm.Items))
	}
	if rm.ItemByID(target.ID) != nil {
		t.Error("Expected item to be removed")
	}
}

func TestConvertToTasks(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)

	req := newTestRequest("POST", "/roadmaps/"+seeded.ID.String()+"/convert", ConvertRequest{})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var converted ConvertResponse
	decodeEnvelope(t, resp, &converted)

	if len(converted.ConvertedTasks) != len(seeded.Items) {
		t.Errorf("Expected %d tasks, got %d", len(seeded.Items), len(converted.ConvertedTasks))
	}
	if len(converted.FailedItemIDs) != 0 {
		t.Errorf("Expected no failed items, got %v", converted.FailedItemIDs)
	}
	for _, item := range converted.Roadmap.Items {
		if item.TaskID == nil {
			t.Errorf("item %q not linked to a task", item.Title)
		}
	}
}

func TestConvertToTasks_PartialFailure(t *testing.T) {
	t.Parallel()

	f := newRoadmapFixture(t)
	seeded := f.seedRoadmap(t)
	f.tasks.failFor[seeded.Items[0].Title] = errors.New("insert failed")

	req := newTestRequest("POST", "/roadmaps/"+seeded.ID.String()+"/convert", ConvertRequest{})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMultiStatus {
		t.Fatalf("Expected status 207, got %d", resp.StatusCode)
	}

	var converted ConvertResponse
	decodeEnvelope(t, resp, &converted)

	if len(converted.FailedItemIDs) != 1 {
		t.Fatalf("Expected 1 failed item, got %d", len(converted.FailedItemIDs))
	}
	if converted.FailedItemIDs[0] != seeded.Items[0].ID {
		t.Errorf("failed item = %s, want %s", converted.FailedItemIDs[0], seeded.Items[0].ID)
	}
	if len(converted.ConvertedTasks) != len(seeded.Items)-1 {
		t.Errorf("Expected %d tasks, got %d", len(seeded.Items)-1, len(converted.ConvertedTasks))
	}
}
