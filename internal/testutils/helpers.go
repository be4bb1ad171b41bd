package testutils

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	if len(opts) == 0 {
		opts = []loam.Option{loam.WithVersioning(false)}
	}
	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// Record returns a patient record with the given answers, in order.
func Record(complaint string, pairs ...any) domain.PatientRecord {
	return domain.PatientRecord{
		FirstName:      "John",
		LastName:       "Doe",
		Age:            45,
		Gender:         "Male",
		DateOfVisit:    "2024-03-10",
		ChiefComplaint: complaint,
		Answers:        domain.NewAnswerMap(pairs...),
	}
}
