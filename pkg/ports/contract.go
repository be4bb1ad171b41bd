package ports

import (
	"context"
	"testing"
	"time"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSession := func(id string) *domain.Session {
		s := domain.NewSession(id, domain.PatientRecord{FirstName: "Ada", LastName: "Lovelace", Age: 36, Gender: "female"})
		s.ComplaintID = "chest-pain"
		s.Status = domain.StatusAwaitingAnswer
		s.CurrentQuestionID = "severity"
		s.History = []string{"onset", "character", "severity"}
		s.Record.ChiefComplaint = "Chest Pain"
		s.Record.Answers = domain.NewAnswerMap("onset", "2024-03-01", "character", "Sharp")
		return s
	}

	t.Run("Save and Load", func(t *testing.T) {
		session := newSession(sessionID)
		session.Record.Answers.Set("severity", 8.0)

		require.NoError(t, store.Save(ctx, sessionID, session), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.CurrentQuestionID, loaded.CurrentQuestionID)
		assert.Equal(t, session.Status, loaded.Status)
		assert.Equal(t, session.History, loaded.History)
		assert.Equal(t, "Chest Pain", loaded.Record.ChiefComplaint)

		// Answer ids are the join key with the narrative; order and
		// spelling must survive persistence.
		assert.Equal(t, []string{"onset", "character", "severity"}, loaded.Record.Answers.Keys())
		v, _ := loaded.Record.Answers.String("severity")
		assert.Equal(t, "8", v)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Record.Answers.Set("character", "Dull")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		v, _ := again.Record.Answers.String("character")
		assert.Equal(t, "Sharp", v, "mutating a loaded session must not change the stored one")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, newSession(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, newSession(id1)))
		require.NoError(t, store.Save(ctx, id2, newSession(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunRecordStoreContract verifies a RecordStore implementation.
func RunRecordStoreContract(t *testing.T, store RecordStore) {
	ctx := context.Background()

	record := &domain.PatientRecord{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Age:         45,
		Gender:      "female",
		DateOfVisit: "2024-03-10",
	}

	t.Run("Create assigns ID", func(t *testing.T) {
		require.NoError(t, store.CreatePatient(ctx, record))
		assert.NotEmpty(t, record.ID)
	})

	t.Run("Get", func(t *testing.T) {
		got, err := store.GetPatient(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grace", got.FirstName)
		assert.Equal(t, 45, got.Age)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.GetPatient(ctx, "missing-"+record.ID)
		assert.ErrorIs(t, err, domain.ErrPatientNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		record.ChiefComplaint = "Headache"
		record.Summary = "# PATIENT HISTORY"
		require.NoError(t, store.UpdatePatient(ctx, record))

		got, err := store.GetPatient(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "Headache", got.ChiefComplaint)
		assert.Equal(t, "# PATIENT HISTORY", got.Summary)
	})

	t.Run("SaveAnswers preserves order", func(t *testing.T) {
		answers := domain.NewAnswerMap("onset", "2024-03-09", "severity", 6.0, "aura", "No")
		require.NoError(t, store.SaveAnswers(ctx, record.ID, "Headache", answers))

		got, err := store.GetPatient(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"onset", "severity", "aura"}, got.Answers.Keys())
	})

	t.Run("List", func(t *testing.T) {
		all, err := store.ListPatients(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, r := range all {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, record.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.DeletePatient(ctx, record.ID))
		_, err := store.GetPatient(ctx, record.ID)
		assert.ErrorIs(t, err, domain.ErrPatientNotFound)
	})
}
