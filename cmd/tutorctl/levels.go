package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	courseFlag     string
	levelsFileFlag string
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Manage course roadmaps",
}

var levelsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Create or update the levels of a course from a JSON array",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(levelsFileFlag)
		if err != nil {
			return fmt.Errorf("read %s: %w", levelsFileFlag, err)
		}

		svc, cleanup, err := questionService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := svc.ImportLevels(cmd.Context(), courseFlag, body)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d levels for course %s\n", n, courseFlag)
		return nil
	},
}

func init() {
	levelsImportCmd.Flags().StringVar(&courseFlag, "course", "", "course id")
	levelsImportCmd.Flags().StringVar(&levelsFileFlag, "file", "", "path to the JSON roadmap file")
	_ = levelsImportCmd.MarkFlagRequired("course")
	_ = levelsImportCmd.MarkFlagRequired("file")

	levelsCmd.AddCommand(levelsImportCmd)
	rootCmd.AddCommand(levelsCmd)
}
