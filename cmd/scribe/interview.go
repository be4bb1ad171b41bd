package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/cli"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [complaint]",
	Short: "Take a history interactively on the console",
	Long: `Registers the patient from flags (or --patient record.json), asks the
questions for the chief complaint and prints the narrative note.

Type "quit" at any prompt to stop; the interview can be resumed with
--session when a persistent store is configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		debug, _ := flags.GetBool("debug")
		jsonMode, _ := flags.GetBool("json")
		plain, _ := flags.GetBool("plain")
		sessionID, _ := flags.GetString("session")

		level := cfg.Level()
		if debug {
			level = slog.LevelDebug
		}
		logger := cli.NewLogger(level, !debug)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		app, err := cli.NewApp(sigCtx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		patient, err := patientFromFlags(cmd)
		if err != nil {
			return err
		}
		complaint, _ := flags.GetString("complaint")
		if len(args) > 0 {
			complaint = args[0]
		}

		_, err = cli.RunInterview(sigCtx, app, cli.InterviewOptions{
			Patient:   *patient,
			Complaint: complaint,
			SessionID: sessionID,
			JSON:      jsonMode,
			Rich:      !jsonMode && !plain && cli.IsTerminal(os.Stdin) && cli.IsTerminal(os.Stdout),
			Signals:   true,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
		return err
	},
}

// patientFromFlags reads --patient when given, then overlays any
// demographic flags that were set explicitly.
func patientFromFlags(cmd *cobra.Command) (*domain.PatientRecord, error) {
	flags := cmd.Flags()
	record := &domain.PatientRecord{}
	if path, _ := flags.GetString("patient"); path != "" {
		r, err := cli.ReadRecord(path)
		if err != nil {
			return nil, err
		}
		record = r
	}

	set := func(name string, dst *string) {
		if flags.Changed(name) || *dst == "" {
			*dst, _ = flags.GetString(name)
		}
	}
	set("first-name", &record.FirstName)
	set("last-name", &record.LastName)
	set("gender", &record.Gender)
	set("contact", &record.ContactInfo)
	set("date", &record.DateOfVisit)
	if flags.Changed("age") || record.Age == 0 {
		record.Age, _ = flags.GetInt("age")
	}
	if record.DateOfVisit == "" {
		record.DateOfVisit = time.Now().Format(domain.DateLayout)
	}
	return record, nil
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	f := interviewCmd.Flags()
	f.String("complaint", "", "Chief complaint, e.g. \"Chest Pain\"")
	f.String("first-name", "", "Patient first name")
	f.String("last-name", "", "Patient last name")
	f.Int("age", 0, "Patient age in years")
	f.String("gender", "", "Patient gender")
	f.String("contact", "", "Patient contact information")
	f.String("date", "", "Date of visit (YYYY-MM-DD, defaults to today)")
	f.String("patient", "", "Read the patient record from a JSON file")
	f.String("session", "", "Resume an existing session")
	f.Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	f.Bool("plain", false, "Disable colours and markdown rendering")
	f.Bool("debug", false, "Log engine events to stderr")
}
