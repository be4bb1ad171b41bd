package postgres

// Schema creates the tables used by RecordStore. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS patients (
	id              TEXT PRIMARY KEY,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL,
	age             INTEGER NOT NULL DEFAULT 0,
	gender          TEXT NOT NULL DEFAULT '',
	contact_info    TEXT NOT NULL DEFAULT '',
	date_of_visit   TEXT NOT NULL DEFAULT '',
	chief_complaint TEXT NOT NULL DEFAULT '',
	answers         JSON NOT NULL DEFAULT '{}',
	summary         TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS patient_answers (
	patient_id  TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
	complaint   TEXT NOT NULL,
	position    INTEGER NOT NULL,
	question_id TEXT NOT NULL,
	value       TEXT NOT NULL,
	is_positive BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (patient_id, question_id)
);
`
