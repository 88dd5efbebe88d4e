package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// NewConvertCmd creates the convert command
func NewConvertCmd() *cobra.Command {
	var (
		roadmapID string
		itemIDs   []string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert roadmap items to tasks",
		Long:  "Create tasks from roadmap items. Without --item, every unconverted item is targeted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(roadmapID)
			if err != nil {
				return fmt.Errorf("--roadmap must be a valid roadmap ID: %w", err)
			}
			ids := make([]uuid.UUID, 0, len(itemIDs))
			for _, raw := range itemIDs {
				id, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid item ID %q: %w", raw, err)
				}
				ids = append(ids, id)
			}

			service, closeDB, err := newService()
			if err != nil {
				return err
			}
			defer closeDB()

			result, err := service.ConvertToTasks(context.Background(), rid, ids)
			if err != nil {
				var convErr *roadmap.ConversionError
				if errors.As(err, &convErr) {
					fmt.Printf("Converted %d items; %d failed:\n", len(result.ConvertedTasks), len(convErr.FailedItemIDs))
					for _, id := range convErr.FailedItemIDs {
						fmt.Printf("  %s\n", id)
					}
					return err
				}
				return fmt.Errorf("convert roadmap items: %w", err)
			}

			fmt.Printf("Converted %d items to tasks:\n", len(result.ConvertedTasks))
			for _, task := range result.ConvertedTasks {
				fmt.Printf("  %s  %s\n", task.ID, task.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&roadmapID, "roadmap", "", "Roadmap ID (required)")
	cmd.Flags().StringSliceVar(&itemIDs, "item", nil, "Item ID to convert (repeatable; default all)")
	return cmd
}
