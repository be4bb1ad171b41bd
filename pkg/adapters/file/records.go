package file

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// RecordStore implements ports.RecordStore with one JSON file per patient.
type RecordStore struct {
	BasePath string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewRecordStore creates a RecordStore rooted at basePath.
// If basePath is empty, it defaults to ".scribe/patients".
func NewRecordStore(basePath string) *RecordStore {
	if basePath == "" {
		basePath = filepath.Join(".scribe", "patients")
	}
	return &RecordStore{BasePath: basePath}
}

func (s *RecordStore) CreatePatient(_ context.Context, record *domain.PatientRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := validID("patient", record.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.BasePath, record.ID+".json", record)
}

func (s *RecordStore) GetPatient(_ context.Context, id string) (*domain.PatientRecord, error) {
	if err := validID("patient", id); err != nil {
		return nil, err
	}
	return s.read(id)
}

func (s *RecordStore) read(id string) (*domain.PatientRecord, error) {
	var r domain.PatientRecord
	if err := readJSON(s.BasePath, id+".json", &r, domain.ErrPatientNotFound); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListPatients returns all records ordered by last name, first name and ID.
func (s *RecordStore) ListPatients(_ context.Context) ([]*domain.PatientRecord, error) {
	ids, err := listIDs(s.BasePath)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PatientRecord, 0, len(ids))
	for _, id := range ids {
		r, err := s.read(id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
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

func (s *RecordStore) UpdatePatient(_ context.Context, record *domain.PatientRecord) error {
	if err := validID("patient", record.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.read(record.ID); err != nil {
		return err
	}
	return writeJSON(s.BasePath, record.ID+".json", record)
}

func (s *RecordStore) DeletePatient(_ context.Context, id string) error {
	if err := validID("patient", id); err != nil {
		return err
	}
	return removeFile(s.BasePath, id+".json")
}

func (s *RecordStore) SaveAnswers(_ context.Context, patientID, complaint string, answers domain.AnswerMap) error {
	if err := validID("patient", patientID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.read(patientID)
	if err != nil {
		return err
	}
	r.ChiefComplaint = complaint
	r.Answers = answers.Clone()
	return writeJSON(s.BasePath, patientID+".json", r)
}
