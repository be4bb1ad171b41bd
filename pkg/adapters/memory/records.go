package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// RecordStore implements ports.RecordStore in memory.
// Safe for concurrent use.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]*domain.PatientRecord
}

// NewRecordStore creates an empty record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string]*domain.PatientRecord)}
}

// CreatePatient stores a copy of record, assigning a UUID when ID is empty.
func (s *RecordStore) CreatePatient(_ context.Context, record *domain.PatientRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record.Clone()
	return nil
}

// GetPatient returns a copy of the record.
func (s *RecordStore) GetPatient(_ context.Context, id string) (*domain.PatientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	return r.Clone(), nil
}

// ListPatients returns copies ordered by last name, first name and ID.
func (s *RecordStore) ListPatients(_ context.Context) ([]*domain.PatientRecord, error) {
	s.mu.RLock()
	out := make([]*domain.PatientRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdatePatient replaces an existing record.
func (s *RecordStore) UpdatePatient(_ context.Context, record *domain.PatientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return domain.ErrPatientNotFound
	}
	s.records[record.ID] = record.Clone()
	return nil
}

// DeletePatient removes a record. Unknown ids are not an error.
func (s *RecordStore) DeletePatient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// SaveAnswers replaces the answers and chief complaint of a record.
func (s *RecordStore) SaveAnswers(_ context.Context, patientID, complaint string, answers domain.AnswerMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[patientID]
	if !ok {
		return domain.ErrPatientNotFound
	}
	r.ChiefComplaint = complaint
	r.Answers = answers.Clone()
	return nil
}
