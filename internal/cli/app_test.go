package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/config"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/logging"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/testutils"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/file"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/memory"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/persistence/middleware"
)

func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	app, err := NewApp(context.Background(), testConfig(t, mutate), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func patient() domain.PatientRecord {
	return domain.PatientRecord{FirstName: "John", LastName: "Doe", Age: 45, Gender: "Male", DateOfVisit: "2024-03-10"}
}

func TestNewApp_Memory(t *testing.T) {
	app := newTestApp(t, nil)
	assert.IsType(t, &memory.RecordStore{}, app.Records)
	require.NotNil(t, app.Registry)

	ctx := context.Background()
	s, err := app.Interviewer.Begin(ctx, patient(), "Headache")
	require.NoError(t, err)

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "scribe_interviews_started_total")

	list, err := app.Records.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, s.Record.ID, list[0].ID)
}

func TestNewApp_FileEncrypted(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, func(c *config.Config) {
		c.Store = config.StoreFile
		c.StoreDir = dir
		c.EncryptionKey = strings.Repeat("0f", 32)
		c.Metrics = false
	})
	assert.Nil(t, app.Registry)
	assert.IsType(t, &file.RecordStore{}, app.Records)

	ctx := context.Background()
	s, err := app.Interviewer.Begin(ctx, patient(), "Chest Pain")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, s.ID+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), middleware.EnvelopeKey)
	assert.NotContains(t, string(raw), "John")

	loaded, err := app.Sessions.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", loaded.Record.FirstName)
}

func TestRunInterview(t *testing.T) {
	app := newTestApp(t, nil)
	in := strings.NewReader(strings.Join([]string{
		"2024-03-08", "1", "yes", "Dull", "Back of head", "4", "None", "Stress", "Sleep",
	}, "\n") + "\n")
	var out bytes.Buffer

	sum, err := RunInterview(context.Background(), app, InterviewOptions{
		Patient:   patient(),
		Complaint: "Headache",
		In:        in,
		Out:       &out,
	})
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.True(t, sum.Complete)
	assert.True(t, sum.HasRedFlags, "first-time headache leads to the thunderclap question")
	assert.Contains(t, out.String(), "When did the headache start?")
}

func TestRunInterview_QuitAndResume(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer

	sum, err := RunInterview(context.Background(), app, InterviewOptions{
		Patient:   patient(),
		Complaint: "Headache",
		In:        strings.NewReader("2024-03-08\nquit\n"),
		Out:       &out,
	})
	require.NoError(t, err)
	assert.Nil(t, sum)
	assert.Contains(t, out.String(), "Resume later with --session")

	ids, err := app.Interviewer.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)

	out.Reset()
	sum, err = RunInterview(context.Background(), app, InterviewOptions{
		SessionID: ids[0],
		JSON:      true,
		In:        strings.NewReader("Weekly\nDull\nBack of head\n4\nNone\nStress\nSleep\n"),
		Out:       &out,
	})
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.False(t, sum.HasRedFlags)
	assert.Contains(t, out.String(), `"question_id":"frequency"`)
}

func TestRunInterview_Invalid(t *testing.T) {
	app := newTestApp(t, nil)

	_, err := RunInterview(context.Background(), app, InterviewOptions{Patient: patient(), In: strings.NewReader("")})
	assert.EqualError(t, err, "a chief complaint is required")

	p := patient()
	p.FirstName = ""
	_, err = RunInterview(context.Background(), app, InterviewOptions{Patient: p, Complaint: "Headache", In: strings.NewReader("")})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestWriteSummary(t *testing.T) {
	app := newTestApp(t, nil)
	record := testutils.Record("Chest Pain",
		"onset", "2024-03-09",
		"associated", "Sweating",
		"red_flag_cardiac", "Yes",
	)

	var out bytes.Buffer
	pdfPath := filepath.Join(t.TempDir(), "note.pdf")
	require.NoError(t, WriteSummary(&out, app.Engine, &record, pdfPath))
	assert.Contains(t, out.String(), "# PATIENT HISTORY")
	assert.Contains(t, out.String(), "WARNING: Red Flag Symptoms Present")

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"first_name":"Ann","last_name":"Lee","age":30,"gender":"Female","chief_complaint":"Headache","answers":{"severity":7}}`), 0o600))

	r, err := ReadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, "Ann", r.FirstName)
	v, ok := r.Answers.String("severity")
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = ReadRecord(path)
	assert.ErrorContains(t, err, "invalid record")
}
