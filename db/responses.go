// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/response"
)

// InsertResponses stores one submission and its rows in a single
// transaction. A second submission by the same respondent for the same
// survey fails with ErrDuplicateSubmission and stores nothing.
func (s *Store) InsertResponses(ctx context.Context, sub models.Submission, rows []response.Row) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	for _, r := range rows {
		if r.SurveyID != sub.SurveyID || r.RespondentID != sub.RespondentID {
			return fmt.Errorf("row for respondent %s of survey %s does not belong to submission %s",
				r.RespondentID, r.SurveyID, sub.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO submission (id, survey_id, respondent_id, submitted_at, ip_hash, user_agent)
		VALUES (?, ?, ?, ?, ?, ?)
	`), sub.ID, sub.SurveyID, sub.RespondentID, sub.SubmittedAt, sub.IPHash, sub.UserAgent)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO response (submission_id, survey_id, respondent_id, question_id, value, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare response insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		at := r.SubmittedAt
		if at.IsZero() {
			at = sub.SubmittedAt
		}
		if _, err := stmt.ExecContext(ctx, sub.ID, r.SurveyID, r.RespondentID, r.QuestionID, r.Value, at); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateSubmission
			}
			return fmt.Errorf("failed to insert response: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}
	return nil
}

// ListResponses returns every stored row of a survey in submission order.
func (s *Store) ListResponses(ctx context.Context, surveyID string) ([]response.Row, error) {
	rows, err := s.query(ctx, `
		SELECT respondent_id, survey_id, question_id, value, submitted_at
		FROM response
		WHERE survey_id = ?
		ORDER BY submitted_at, respondent_id, question_id
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var out []response.Row
	for rows.Next() {
		var r response.Row
		if err := rows.Scan(&r.RespondentID, &r.SurveyID, &r.QuestionID, &r.Value, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountResponses returns the number of submissions for a survey.
func (s *Store) CountResponses(ctx context.Context, surveyID string) (int, error) {
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM submission WHERE survey_id = ?`, surveyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return n, nil
}

// DeleteResponses removes every submission of a survey together with its
// rows and response view. It returns the number of submissions removed.
func (s *Store) DeleteResponses(ctx context.Context, surveyID string) (int64, error) {
	if err := s.DropResponseView(ctx, surveyID); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM response WHERE survey_id = ?`), surveyID); err != nil {
		return 0, fmt.Errorf("failed to delete responses: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM submission WHERE survey_id = ?`), surveyID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit deletion: %w", err)
	}
	return n, nil
}
