// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Executed one statement at a time.
var schema = []string{
	// Questionnaires
	`CREATE TABLE IF NOT EXISTS questionnaire (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT '',
    form_xml TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	// Surveys
	`CREATE TABLE IF NOT EXISTS survey (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner TEXT NOT NULL,
    questionnaire_id TEXT REFERENCES questionnaire(id) ON DELETE SET NULL,
    starts_at TIMESTAMP,
    ends_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_questionnaire_id ON survey(questionnaire_id)`,

	// Submissions: one per respondent per survey
	`CREATE TABLE IF NOT EXISTS submission (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    respondent_id TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ip_hash TEXT,
    user_agent TEXT,
    UNIQUE (survey_id, respondent_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_submission_survey_id ON submission(survey_id)`,

	// Responses: one row per answered question
	`CREATE TABLE IF NOT EXISTS response (
    submission_id TEXT NOT NULL REFERENCES submission(id) ON DELETE CASCADE,
    survey_id TEXT NOT NULL,
    respondent_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    value TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (survey_id, respondent_id, question_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_response_submission_id ON response(submission_id)`,
}
