package main

import (
	"fmt"

	"github.com/spf13/cobra"

	scribe "github.com/MUSHYo888/patient-history-pro-scribe"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog-dir]",
	Short: "Check complaint graphs for consistency",
	Long: `Crawls every complaint graph from its initial question and reports dead
links, unreachable questions, paths that never end and other authoring
mistakes. Warnings are printed; errors fail the command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("catalog-dir")
		if len(args) > 0 {
			dir = args[0]
		}

		var opts []scribe.Option
		if dir != "" {
			opts = append(opts, scribe.WithCatalogDir(dir))
		}
		eng, err := scribe.New(cmd.Context(), opts...)
		if err != nil {
			return fmt.Errorf("failed to load complaints: %w", err)
		}

		out := cmd.OutOrStdout()
		reports, err := validator.ValidateAll(eng.Catalog().Graphs())
		for _, rep := range reports {
			for _, issue := range rep.Issues {
				fmt.Fprintf(out, "%s: %s\n", rep.ComplaintID, issue)
			}
		}
		if err != nil {
			return fmt.Errorf("validation failed:\n%w", err)
		}
		fmt.Fprintf(out, "%d complaint graphs are valid.\n", len(reports))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
