package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/queue"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// RoadmapLister lists stored roadmaps for a project
type RoadmapLister interface {
	ListByProject(ctx context.Context, projectID uuid.UUID, activeOnly bool) ([]*models.Roadmap, error)
}

// DefaultGenerationJobTTL bounds how long a queued generation job stays
// eligible. Jobs older than this are dead-lettered by the consumer instead
// of generating a roadmap nobody is waiting for.
const DefaultGenerationJobTTL = time.Hour

// RoadmapHandler handles roadmap-related requests
type RoadmapHandler struct {
	service *roadmap.Service
	lister  RoadmapLister

	// jobs may be nil when async generation is not configured
	jobs   queue.JobQueue
	jobTTL time.Duration
}

// RoadmapHandlerOption customizes a RoadmapHandler
type RoadmapHandlerOption func(*RoadmapHandler)

// WithGenerationJobTTL overrides the deadline stamped on queued generation jobs
func WithGenerationJobTTL(ttl time.Duration) RoadmapHandlerOption {
	return func(h *RoadmapHandler) {
		if ttl > 0 {
			h.jobTTL = ttl
		}
	}
}

// NewRoadmapHandler creates a new roadmap handler
func NewRoadmapHandler(service *roadmap.Service, lister RoadmapLister, jobs queue.JobQueue, opts ...RoadmapHandlerOption) *RoadmapHandler {
	h := &RoadmapHandler{service: service, lister: lister, jobs: jobs, jobTTL: DefaultGenerationJobTTL}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers roadmap routes on the given router
// The router should already have the /roadmaps prefix
func (h *RoadmapHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListRoadmaps).Methods("GET")
	r.HandleFunc("", h.CreateRoadmap).Methods("POST")
	r.HandleFunc("/generate", h.GenerateRoadmap).Methods("POST")
	r.HandleFunc("/{id}", h.GetRoadmap).Methods("GET")
	r.HandleFunc("/{id}", h.DeactivateRoadmap).Methods("DELETE")
	r.HandleFunc("/{id}/items", h.AddItem).Methods("POST")
	r.HandleFunc("/{id}/items/{itemID}", h.UpdateItem).Methods("PATCH")
	r.HandleFunc("/{id}/items/{itemID}", h.RemoveItem).Methods("DELETE")
	r.HandleFunc("/{id}/convert", h.ConvertToTasks).Methods("POST")
}

// GenerateRoadmapRequest wraps a generation request with delivery options
type GenerateRoadmapRequest struct {
	roadmap.GenerateRequest
	Async bool `json:"async,omitempty"`
}

// EnqueuedResponse acknowledges an asynchronously queued generation
type EnqueuedResponse struct {
	JobID     uuid.UUID `json:"job_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Status    string    `json:"status"`
}

// GenerateRoadmap generates a roadmap for a project. With "async": true the
// request is queued and a job ID is returned instead of the roadmap.
func (h *RoadmapHandler) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req GenerateRoadmapRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Async {
		if h.jobs == nil {
			respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Async generation is not configured")
			return
		}
		payload, err := json.Marshal(req.GenerateRequest)
		if err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to encode job payload")
			return
		}
		job := queue.NewJob(queue.JobTypeRoadmapGeneration, req.ProjectID, payload)
		deadline := time.Now().Add(h.jobTTL)
		job.NotAfter = &deadline
		if err := h.jobs.Enqueue(r.Context(), job); err != nil {
			respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Failed to enqueue generation job")
			return
		}
		respondJSON(w, http.StatusAccepted, EnqueuedResponse{
			JobID:     job.ID,
			ProjectID: req.ProjectID,
			Status:    "queued",
		})
		return
	}

	result, err := h.service.Generate(r.Context(), req.GenerateRequest)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// CreateRoadmap creates a roadmap from caller-supplied items
func (h *RoadmapHandler) CreateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req roadmap.CreateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	rm, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rm)
}

// ListRoadmaps lists roadmaps for a project. By default only active roadmaps
// are returned; include_inactive=true includes deactivated ones.
func (h *RoadmapHandler) ListRoadmaps(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.URL.Query().Get("project_id"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Valid project_id query parameter is required")
		return
	}

	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	roadmaps, err := h.lister.ListByProject(r.Context(), projectID, activeOnly)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve roadmaps")
		return
	}
	respondJSON(w, http.StatusOK, roadmaps)
}

// GetRoadmap retrieves a roadmap by ID
func (h *RoadmapHandler) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "roadmap")
	if !ok {
		return
	}

	rm, err := h.service.GetRoadmap(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rm)
}

// DeactivateRoadmap soft-deletes a roadmap
func (h *RoadmapHandler) DeactivateRoadmap(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "roadmap")
	if !ok {
		return
	}

	if _, err := h.service.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem appends an item to a roadmap
func (h *RoadmapHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "roadmap")
	if !ok {
		return
	}

	var item roadmap.DraftItem
	if !decodeJSONBody(w, r, &item) {
		return
	}
	if item.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Item title is required")
		return
	}

	rm, err := h.service.AddItem(r.Context(), id, item)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rm)
}

// UpdateItem replaces an existing roadmap item
func (h *RoadmapHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "roadmap")
	if !ok {
		return
	}
	itemID, ok := parsePathID(w, r, "itemID", "roadmap item")
	if !ok {
		return
	}

	var item roadmap.DraftItem
	if !decodeJSONBody(w, r, &item) {
		return
	}
	if item.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Item title is required")
		return
	}

	rm, err := h.service.UpdateItem(r.Context(), id, itemID, item)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rm)
}

// RemoveItem deletes an item from a roadmap
func (h *RoadmapHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "roadmap")
	if !ok {
		return
	}
	itemID, ok := parsePathID(w, r, "itemID", "roadmap item")
	if !ok {
		return
	}

	rm, err := h.service.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rm)
}

// ConvertRequest names the roadmap items to convert into tasks. An empty list
// targets every item.
type ConvertRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids,omitempty"`
}

// ConvertResponse is the conversion outcome including any failed items
type ConvertResponse struct {
	Roadmap        *models.Roadmap `json:"roadmap"`
	ConvertedTasks []models.Task   `json:"converted_tasks"`
	FailedItemIDs  []uuid.UUID     `json:"failed_item_ids,omitempty"`
}

// ConvertToTasks converts roadmap items into tasks. A mid-batch failure
// returns 207 with the partial result and the IDs of the failed items.
func (h *RoadmapHandler) ConvertToTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "roadmap")
	if !ok {
		return
	}

	var req ConvertRequest
	if r.ContentLength != 0 {
		if !decodeJSONBody(w, r, &req) {
			return
		}
	}

	result, err := h.service.ConvertToTasks(r.Context(), id, req.ItemIDs)
	if err != nil {
		var convErr *roadmap.ConversionError
		if errors.As(err, &convErr) {
			respondJSON(w, http.StatusMultiStatus, ConvertResponse{
				Roadmap:        result.Roadmap,
				ConvertedTasks: result.ConvertedTasks,
				FailedItemIDs:  convErr.FailedItemIDs,
			})
			return
		}
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ConvertResponse{
		Roadmap:        result.Roadmap,
		ConvertedTasks: result.ConvertedTasks,
	})
}

// parsePathID extracts and parses a UUID path variable
func parsePathID(w http.ResponseWriter, r *http.Request, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}
