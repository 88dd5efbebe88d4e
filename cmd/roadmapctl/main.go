package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benvon/roadmap-api/cmd/roadmapctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "roadmapctl",
		Short: "Operations tool for the Roadmap API",
		Long:  "CLI tool for generating roadmaps, inspecting allocations, and converting roadmap items to tasks",
	}

	rootCmd.AddCommand(commands.NewGenerateCmd())
	rootCmd.AddCommand(commands.NewAllocationCmd())
	rootCmd.AddCommand(commands.NewConvertCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
