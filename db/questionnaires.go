// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

// CreateQuestionnaire inserts q without a form definition.
func (s *Store) CreateQuestionnaire(ctx context.Context, q models.Questionnaire) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	_, err := s.exec(ctx, `
		INSERT INTO questionnaire (id, name, description, owner, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, q.ID, q.Name, q.Description, q.Owner, q.Language, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert questionnaire: %w", err)
	}
	return nil
}

// GetQuestionnaire returns the questionnaire including its form definition.
func (s *Store) GetQuestionnaire(ctx context.Context, id string) (models.Questionnaire, error) {
	var q models.Questionnaire
	err := s.queryRow(ctx, `
		SELECT id, name, description, owner, language, form_xml, version, created_at
		FROM questionnaire
		WHERE id = ?
	`, id).Scan(&q.ID, &q.Name, &q.Description, &q.Owner, &q.Language, &q.FormXML, &q.Version, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Questionnaire{}, fmt.Errorf("questionnaire %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Questionnaire{}, fmt.Errorf("failed to query questionnaire: %w", err)
	}
	return q, nil
}

// ListQuestionnaires returns all questionnaires, newest first, without
// their form definitions.
func (s *Store) ListQuestionnaires(ctx context.Context) ([]models.Questionnaire, error) {
	rows, err := s.query(ctx, `
		SELECT id, name, description, owner, language, version, created_at
		FROM questionnaire
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questionnaires: %w", err)
	}
	defer rows.Close()

	var out []models.Questionnaire
	for rows.Next() {
		var q models.Questionnaire
		if err := rows.Scan(&q.ID, &q.Name, &q.Description, &q.Owner, &q.Language, &q.Version, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan questionnaire: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// UpdateQuestionnaireForm stores a new form definition and returns the new
// version number. It fails with ErrResponsesExist while any survey using the
// questionnaire has submissions, since stored answers were validated against
// the current form.
func (s *Store) UpdateQuestionnaireForm(ctx context.Context, id, formXML string) (int, error) {
	res, err := s.exec(ctx, `
		UPDATE questionnaire SET form_xml = ?, version = version + 1
		WHERE id = ? AND NOT EXISTS (
			SELECT 1 FROM submission JOIN survey ON survey.id = submission.survey_id
			WHERE survey.questionnaire_id = ?
		)
	`, formXML, id, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update form: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetQuestionnaire(ctx, id); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("questionnaire %s: %w", id, ErrResponsesExist)
	}

	var version int
	if err := s.queryRow(ctx, `SELECT version FROM questionnaire WHERE id = ?`, id).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read form version: %w", err)
	}
	return version, nil
}
