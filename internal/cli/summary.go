package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	scribe "github.com/MUSHYo888/patient-history-pro-scribe"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/export"
)

// ReadRecord decodes a patient record from a JSON file ("-" reads stdin).
func ReadRecord(path string) (*domain.PatientRecord, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var record domain.PatientRecord
	if err := json.NewDecoder(r).Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid record %s: %w", path, err)
	}
	return &record, nil
}

// WriteSummary generates the note for record and writes it to w. When
// pdfPath is set the note is also exported there.
func WriteSummary(w io.Writer, eng *scribe.Engine, record *domain.PatientRecord, pdfPath string) error {
	note := eng.Generate(record)
	if _, err := fmt.Fprintln(w, note); err != nil {
		return err
	}
	if pdfPath == "" {
		return nil
	}

	f, err := os.Create(pdfPath)
	if err != nil {
		return err
	}
	doc := export.Document{
		Title:       fmt.Sprintf("%s %s - %s", record.FirstName, record.LastName, record.ChiefComplaint),
		Note:        note,
		HasRedFlags: len(eng.RedFlags(record)) > 0,
	}
	if err := export.NewPDF().Write(f, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("export pdf: %w", err)
	}
	return f.Close()
}
