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

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectRepo *database.ProjectRepository
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectRepo *database.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo}
}

// RegisterRoutes registers project routes on the given router
// The router should already have the /projects prefix
func (h *ProjectHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListProjects).Methods("GET")
	r.HandleFunc("", h.CreateProject).Methods("POST")
	r.HandleFunc("/{id}", h.GetProject).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateProject).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteProject).Methods("DELETE")
}

const (
	// MaxProjectNameLength is the maximum length for a project name
	MaxProjectNameLength = 200
	// MaxDescriptionLength is the maximum length for free-text descriptions
	MaxDescriptionLength = 5000
)

// CreateProjectRequest represents a create project request
type CreateProjectRequest struct {
	Name        string        `json:"name" validate:"required,min=1,max=200"`
	Description string        `json:"description,omitempty" validate:"max=5000"`
	Goals       []models.Goal `json:"goals,omitempty"`
}

// UpdateProjectRequest represents an update project request
type UpdateProjectRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Goals       *[]models.Goal `json:"goals,omitempty"`
}

// ListProjects lists all projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
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

	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}

	project := &models.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: validation.SanitizeText(req.Description),
		Goals:       req.Goals,
	}
	if project.Goals == nil {
		project.Goals = []models.Goal{}
	}

	if err := h.projectRepo.Create(r.Context(), project); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create project")
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

// GetProject retrieves a project by ID
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectRepo.GetProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// UpdateProject updates an existing project
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectRepo.GetProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req UpdateProjectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxProjectNameLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Name exceeds maximum length of %d characters", MaxProjectNameLength))
			return
		}
		project.Name = sanitized
	}
	if req.Description != nil {
		sanitized := validation.SanitizeText(*req.Description)
		if len(sanitized) > MaxDescriptionLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Description exceeds maximum length of %d characters", MaxDescriptionLength))
			return
		}
		project.Description = sanitized
	}
	if req.Goals != nil {
		project.Goals = *req.Goals
	}

	if err := h.projectRepo.Update(r.Context(), project); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(w, r, "id", "project")
	if !ok {
		return
	}

	if _, err := h.projectRepo.GetProject(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.projectRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
