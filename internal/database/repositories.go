package database

import (
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// Ensure the concrete repositories satisfy the engine's store interfaces
var (
	_ roadmap.ProjectStore  = (*ProjectRepository)(nil)
	_ roadmap.FeedbackStore = (*FeedbackRepository)(nil)
	_ roadmap.RoadmapStore  = (*RoadmapRepository)(nil)
	_ roadmap.TaskStore     = (*TaskRepository)(nil)
)
