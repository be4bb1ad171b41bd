package ports

import (
	"context"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// RecordStore persists patient records and the answers collected for them.
type RecordStore interface {
	// CreatePatient stores a new record. An empty ID is assigned by the store.
	CreatePatient(ctx context.Context, record *domain.PatientRecord) error

	// GetPatient returns domain.ErrPatientNotFound for unknown ids.
	GetPatient(ctx context.Context, id string) (*domain.PatientRecord, error)

	ListPatients(ctx context.Context) ([]*domain.PatientRecord, error)

	UpdatePatient(ctx context.Context, record *domain.PatientRecord) error

	DeletePatient(ctx context.Context, id string) error

	// SaveAnswers replaces the stored answers of a patient for one complaint,
	// preserving their order.
	SaveAnswers(ctx context.Context, patientID, complaint string, answers domain.AnswerMap) error
}
