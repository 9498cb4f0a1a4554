// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores questionnaires, surveys and survey responses.

# Opening a Store

Open connects with either driver and creates the schema:

	store, err := db.Open(db.DriverSQLite, "survey.db")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

SQLite connections are limited to a single writer and run with WAL,
a busy timeout and foreign keys enabled. PostgreSQL uses lib/pq. Queries are
written with ? placeholders and rebound to $n for PostgreSQL.

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - questionnaire: metadata, current form definition and its version
  - survey: metadata, questionnaire reference and response window
  - submission: one per respondent per survey (unique)
  - response: one row per answered question (primary key survey, respondent, question)

# Relationships

	questionnaire 1──* survey
	survey 1──* submission
	submission 1──* response

# Submissions

InsertResponses writes a submission and all of its rows in one transaction.
A repeated submission violates the unique constraint and is reported as
ErrDuplicateSubmission:

	err := store.InsertResponses(ctx, sub, rows)
	if errors.Is(err, db.ErrDuplicateSubmission) {
		// 409
	}

# Response Views

CreateResponseView materializes the export projection of a survey as the
view responses_survey_<id>, one column per question. Survey and question ids
are checked against an allow-list and quoted before they are written into
the statement. Creating an existing view is a no-op; DeleteResponses drops it.
*/
package db
