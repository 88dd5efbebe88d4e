package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/benvon/roadmap-api/internal/config"
	"github.com/benvon/roadmap-api/internal/database"
	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
	"github.com/benvon/roadmap-api/internal/validation"
)

// NewGenerateCmd creates the generate command. Generation from the CLI always
// uses the deterministic strategy so it works without an API key.
func NewGenerateCmd() *cobra.Command {
	var (
		projectID   string
		name        string
		roadmapType string
		timeHorizon string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a roadmap for a project",
		Long:  "Generate and persist a roadmap using the deterministic allocation-driven strategy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			pid, err := uuid.Parse(projectID)
			if err != nil {
				return fmt.Errorf("--project must be a valid project ID: %w", err)
			}
			if roadmapType != "" {
				if err := validation.ValidateRoadmapType(roadmapType); err != nil {
					return err
				}
			}
			if timeHorizon != "" {
				if err := validation.ValidateTimeHorizon(timeHorizon); err != nil {
					return err
				}
			}

			service, closeDB, err := newService()
			if err != nil {
				return err
			}
			defer closeDB()

			result, err := service.Generate(context.Background(), roadmap.GenerateRequest{
				ProjectID:   pid,
				Name:        name,
				Type:        models.RoadmapType(roadmapType),
				TimeHorizon: models.TimeHorizon(timeHorizon),
			})
			if err != nil {
				return fmt.Errorf("generate roadmap: %w", err)
			}

			fmt.Printf("Generated roadmap %s with %d items (strategy: %s)\n",
				result.Roadmap.ID,
				len(result.Roadmap.Items),
				result.Roadmap.GenerationContext.GeneratedBy,
			)
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result.Roadmap)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Roadmap name (required)")
	cmd.Flags().StringVar(&roadmapType, "type", "", "Roadmap type (strategic-only, customer-only, balanced)")
	cmd.Flags().StringVar(&timeHorizon, "horizon", "", "Time horizon (quarter, half-year, year, multi-year)")
	return cmd
}

// newService wires a fallback-only roadmap service against the configured
// database
func newService() (*roadmap.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	service := roadmap.NewService(
		database.NewProjectRepository(db),
		database.NewFeedbackRepository(db),
		database.NewRoadmapRepository(db),
		database.NewTaskRepository(db),
		nil,
		roadmap.NewFallbackGenerator(),
		nil,
	)
	return service, func() { _ = db.Close() }, nil
}
