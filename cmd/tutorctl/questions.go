package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var (
	levelFlag string
	fileFlag  string
	yesFlag   bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Manage the question bank of a level",
}

var questionsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a JSON array of questions into a level",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(fileFlag)
		if err != nil {
			return fmt.Errorf("read %s: %w", fileFlag, err)
		}

		svc, cleanup, err := questionService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := svc.Import(cmd.Context(), levelFlag, body)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions into %s\n", result.Imported, result.LevelID)
		return nil
	},
}

var questionsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "List the questions stored for a level",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := questionService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := svc.Check(cmd.Context(), levelFlag)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Level %s: %d questions\n", report.LevelID, report.Total)
		for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
			fmt.Fprintf(out, "  %-7s %d\n", d, report.ByDifficulty[d])
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nID\tType\tDifficulty\tText")
		qs := report.Questions
		rank := map[models.Difficulty]int{models.DifficultyEasy: 0, models.DifficultyMedium: 1, models.DifficultyHard: 2}
		sort.SliceStable(qs, func(i, j int) bool { return rank[qs[i].Difficulty] < rank[qs[j].Difficulty] })
		for _, q := range qs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.ID, q.Type, q.Difficulty, truncate(q.Text, 60))
		}
		return w.Flush()
	},
}

var questionsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete every question of a level",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !yesFlag {
			return fmt.Errorf("refusing to delete questions of %s without --yes", levelFlag)
		}

		svc, cleanup, err := questionService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := svc.Clean(cmd.Context(), levelFlag)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d questions from %s\n", n, levelFlag)
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	questionsCmd.PersistentFlags().StringVar(&levelFlag, "level", "", "level id")
	_ = questionsCmd.MarkPersistentFlagRequired("level")

	questionsImportCmd.Flags().StringVar(&fileFlag, "file", "", "path to the JSON question file")
	_ = questionsImportCmd.MarkFlagRequired("file")

	questionsCleanCmd.Flags().BoolVar(&yesFlag, "yes", false, "confirm deletion")

	questionsCmd.AddCommand(questionsImportCmd, questionsCheckCmd, questionsCleanCmd)
	rootCmd.AddCommand(questionsCmd)
}
