package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/benvon/roadmap-api/internal/database"
	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/validation"
)

// FeedbackHandler handles feedback-related requests
type FeedbackHandler struct {
	feedbackRepo *database.FeedbackRepository
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackRepo *database.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{feedbackRepo: feedbackRepo}
}

// RegisterRoutes registers feedback routes on the given router
// The router should already have the /feedback prefix
func (h *FeedbackHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListFeedback).Methods("GET")
	r.HandleFunc("", h.CreateFeedback).Methods("POST")
	r.HandleFunc("/{id}", h.GetFeedback).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteFeedback).Methods("DELETE")
	r.HandleFunc("/{id}/ignore", h.IgnoreFeedback).Methods("POST")
	r.HandleFunc("/{id}/unignore", h.UnignoreFeedback).Methods("POST")
}

// MaxFeedbackContentLength is the maximum length for feedback content
const MaxFeedbackContentLength = 10000

// CreateFeedbackRequest represents a create feedback request
type CreateFeedbackRequest struct {
	ProjectID         uuid.UUID               `json:"project_id" validate:"required"`
	Content           string                  `json:"content" validate:"required,min=1,max=10000"`
	Category          string                  `json:"category,omitempty"`
	Priority          models.FeedbackPriority `json:"priority,omitempty" validate:"omitempty,feedback_priority"`
	Sentiment         string                  `json:"sentiment,omitempty"`
	ExtractedKeywords []string                `json:"extracted_keywords,omitempty"`
}

// ListFeedback lists feedback for a project. By default ignored items are
// included; active_only=true filters them out.
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.URL.Query().Get("project_id"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Valid project_id query parameter is required")
		return
	}

	var items []models.FeedbackItem
	if r.URL.Query().Get("active_only") == "true" {
		items, err = h.feedbackRepo.ListActiveFeedback(r.Context(), projectID)
	} else {
		items, err = h.feedbackRepo.ListByProject(r.Context(), projectID)
	}
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve feedback")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// CreateFeedback creates a new feedback item
func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Content = validation.SanitizeText(req.Content)
	if req.Content == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Content is required and cannot be empty after sanitization")
		return
	}

	if req.Priority == "" {
		req.Priority = models.FeedbackPriorityMedium
	}

	item := &models.FeedbackItem{
		ID:                uuid.New(),
		ProjectID:         req.ProjectID,
		Content:           req.Content,
		Category:          req.Category,
		Priority:          req.Priority,
		Sentiment:         req.Sentiment,
		ExtractedKeywords: req.ExtractedKeywords,
	}

	if err := h.feedbackRepo.Create(r.Context(), item); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create feedback")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// GetFeedback retrieves a feedback item by ID
func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "feedback")
	if !ok {
		return
	}

	item, err := h.feedbackRepo.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DeleteFeedback deletes a feedback item
func (h *FeedbackHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "feedback")
	if !ok {
		return
	}

	if _, err := h.feedbackRepo.GetByID(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.feedbackRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete feedback")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IgnoreFeedback excludes a feedback item from roadmap generation
func (h *FeedbackHandler) IgnoreFeedback(w http.ResponseWriter, r *http.Request) {
	h.setIgnored(w, r, true)
}

// UnignoreFeedback restores a feedback item to roadmap generation
func (h *FeedbackHandler) UnignoreFeedback(w http.ResponseWriter, r *http.Request) {
	h.setIgnored(w, r, false)
}

func (h *FeedbackHandler) setIgnored(w http.ResponseWriter, r *http.Request, ignored bool) {
	id, ok := parsePathID(w, r, "id", "feedback")
	if !ok {
		return
	}

	if _, err := h.feedbackRepo.GetByID(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.feedbackRepo.SetIgnored(r.Context(), id, ignored); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update feedback")
		return
	}

	item, err := h.feedbackRepo.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
