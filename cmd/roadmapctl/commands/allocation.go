package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benvon/roadmap-api/internal/models"
	"github.com/benvon/roadmap-api/internal/services/roadmap"
)

// NewAllocationCmd creates the allocation command with list and validate
// subcommands.
func NewAllocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocation",
		Short: "Inspect and validate allocation strategies",
		Long:  "List the preset allocation strategies or validate a custom percentage split.",
	}
	cmd.AddCommand(newAllocationListCmd())
	cmd.AddCommand(newAllocationValidateCmd())
	return cmd
}

func newAllocationListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List preset allocation strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := []models.RoadmapType{
				models.RoadmapTypeStrategicOnly,
				models.RoadmapTypeCustomerOnly,
				models.RoadmapTypeBalanced,
			}
			fmt.Println("Preset allocation strategies:")
			for _, t := range presets {
				alloc, err := roadmap.ResolveAllocation(t, nil)
				if err != nil {
					return fmt.Errorf("resolve %s allocation: %w", t, err)
				}
				fmt.Printf("  %-15s strategic=%.0f%% customer=%.0f%% maintenance=%.0f%%\n",
					t, alloc.Strategic, alloc.CustomerDriven, alloc.Maintenance)
			}
			return nil
		},
	}
}

func newAllocationValidateCmd() *cobra.Command {
	var (
		strategic   float64
		customer    float64
		maintenance float64
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a custom allocation strategy",
		Long:  "Check that the three percentages are in range and sum to 100.",
		RunE: func(cmd *cobra.Command, args []string) error {
			alloc := models.AllocationStrategy{
				Strategic:      strategic,
				CustomerDriven: customer,
				Maintenance:    maintenance,
			}
			if err := roadmap.ValidateAllocation(alloc); err != nil {
				return err
			}
			fmt.Printf("Valid allocation: strategic=%.2f%% customer=%.2f%% maintenance=%.2f%% (sum %.2f)\n",
				alloc.Strategic, alloc.CustomerDriven, alloc.Maintenance, alloc.Sum())
			return nil
		},
	}

	cmd.Flags().Float64Var(&strategic, "strategic", 0, "Strategic percentage")
	cmd.Flags().Float64Var(&customer, "customer", 0, "Customer-driven percentage")
	cmd.Flags().Float64Var(&maintenance, "maintenance", 0, "Maintenance percentage")
	return cmd
}
