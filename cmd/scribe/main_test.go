package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "scribe version "))
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "graph", "headache")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "red_flag_thunderclap")

	_, err = run(t, "graph", "sprained ankle")
	assert.ErrorContains(t, err, "complaint not found")
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "3 complaint graphs are valid.")
}

func TestSummaryCommand(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(record, []byte(`{
  "first_name": "John", "last_name": "Doe", "age": 45, "gender": "Male",
  "date_of_visit": "2024-03-10", "chief_complaint": "Chest Pain",
  "answers": {"character": "Crushing", "radiation": "Left arm"}
}`), 0o600))
	pdf := filepath.Join(dir, "note.pdf")

	out, err := run(t, "summary", record, "--pdf", pdf)
	require.NoError(t, err)
	assert.Contains(t, out, "John Doe, 45 year old Male")
	assert.Contains(t, out, "The pain radiates to the left arm.")

	info, err := os.Stat(pdf)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
