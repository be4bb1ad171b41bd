package main

import (
	"fmt"

	"github.com/spf13/cobra"

	scribe "github.com/MUSHYo888/patient-history-pro-scribe"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <complaint>",
	Short: "Export a complaint graph as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the questions and transitions of one complaint.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []scribe.Option
		if dir, _ := cmd.Flags().GetString("catalog-dir"); dir != "" {
			opts = append(opts, scribe.WithCatalogDir(dir))
		}
		eng, err := scribe.New(cmd.Context(), opts...)
		if err != nil {
			return err
		}

		g, err := eng.LoadGraph(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
