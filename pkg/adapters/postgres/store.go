// Package postgres implements ports.RecordStore on PostgreSQL via lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// uniqueViolation is the SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// ErrDuplicatePatient is returned when CreatePatient reuses an existing id.
var ErrDuplicatePatient = errors.New("patient already exists")

// RecordStore persists patient records in two tables. patients keeps the
// ordered answer map as JSON (JSONB would reorder keys); patient_answers
// keeps one row per answer for reporting.
type RecordStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects with the "postgres" driver and pings the server.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// New wraps an open database handle.
func New(db *sql.DB) *RecordStore {
	return &RecordStore{db: db, now: time.Now}
}

// Migrate applies Schema.
func (s *RecordStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *RecordStore) CreatePatient(ctx context.Context, r *domain.PatientRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO patients (id, first_name, last_name, age, gender, contact_info,
			date_of_visit, chief_complaint, answers, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		r.ID, r.FirstName, r.LastName, r.Age, r.Gender, r.ContactInfo,
		r.DateOfVisit, r.ChiefComplaint, answers, r.Summary, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicatePatient, r.ID)
		}
		return fmt.Errorf("failed to insert patient: %w", err)
	}
	return nil
}

const selectPatient = `SELECT id, first_name, last_name, age, gender, contact_info,
	date_of_visit, chief_complaint, answers, summary FROM patients`

type scanner interface {
	Scan(dest ...any) error
}

func scanPatient(row scanner) (*domain.PatientRecord, error) {
	var r domain.PatientRecord
	var answers []byte
	err := row.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Age, &r.Gender, &r.ContactInfo,
		&r.DateOfVisit, &r.ChiefComplaint, &answers, &r.Summary)
	if err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &r.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
	}
	return &r, nil
}

func (s *RecordStore) GetPatient(ctx context.Context, id string) (*domain.PatientRecord, error) {
	r, err := scanPatient(s.db.QueryRowContext(ctx, selectPatient+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return r, nil
}

func (s *RecordStore) ListPatients(ctx context.Context) ([]*domain.PatientRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectPatient+` ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var out []*domain.PatientRecord
	for rows.Next() {
		r, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *RecordStore) UpdatePatient(ctx context.Context, r *domain.PatientRecord) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE patients SET first_name = $2, last_name = $3, age = $4, gender = $5,
			contact_info = $6, date_of_visit = $7, chief_complaint = $8, answers = $9,
			summary = $10, updated_at = $11
		WHERE id = $1`,
		r.ID, r.FirstName, r.LastName, r.Age, r.Gender, r.ContactInfo,
		r.DateOfVisit, r.ChiefComplaint, answers, r.Summary, s.now())
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return expectOne(res)
}

func (s *RecordStore) DeletePatient(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// SaveAnswers replaces the answers of a patient in one transaction.
func (s *RecordStore) SaveAnswers(ctx context.Context, patientID, complaint string, answers domain.AnswerMap) (err error) {
	encoded, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE patients SET chief_complaint = $2, answers = $3, updated_at = $4 WHERE id = $1`,
		patientID, complaint, encoded, s.now())
	if err != nil {
		return fmt.Errorf("failed to update answers: %w", err)
	}
	if err = expectOne(res); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM patient_answers WHERE patient_id = $1`, patientID); err != nil {
		return fmt.Errorf("failed to clear answers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("patient_answers",
		"patient_id", "complaint", "position", "question_id", "value", "is_positive"))
	if err != nil {
		return fmt.Errorf("failed to prepare answer copy: %w", err)
	}
	for i, row := range AnswerRows(answers) {
		if _, err = stmt.ExecContext(ctx, patientID, complaint, i, row.QuestionID, row.Value, row.IsPositive); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("failed to copy answer %s: %w", row.QuestionID, err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("failed to flush answers: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("failed to close answer copy: %w", err)
	}

	return tx.Commit()
}

// AnswerRow is one patient_answers row.
type AnswerRow struct {
	QuestionID string
	Value      string
	IsPositive bool
}

// AnswerRows flattens answers in order. An answer is positive when its
// value is "Yes" or "true".
func AnswerRows(answers domain.AnswerMap) []AnswerRow {
	rows := make([]AnswerRow, 0, answers.Len())
	answers.Each(func(id string, v any) {
		value := domain.FormatAnswer(v)
		rows = append(rows, AnswerRow{
			QuestionID: id,
			Value:      value,
			IsPositive: value == domain.AnswerYes || strings.EqualFold(value, "true"),
		})
	})
	return rows
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}
