package main

import (
	"github.com/spf13/cobra"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <record.json>",
	Short: "Generate the narrative note for a saved patient record",
	Long: `Reads a patient record (demographics, chief complaint and answers) and
prints its history note. Use "-" to read the record from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Metrics = false

		app, err := cli.NewApp(cmd.Context(), cfg, cli.NewLogger(cfg.Level(), true))
		if err != nil {
			return err
		}
		defer app.Close()

		record, err := cli.ReadRecord(args[0])
		if err != nil {
			return err
		}
		pdfPath, _ := cmd.Flags().GetString("pdf")
		return cli.WriteSummary(cmd.OutOrStdout(), app.Engine, record, pdfPath)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().String("pdf", "", "Also export the note to this PDF file")
}
