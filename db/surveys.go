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

func (s *Store) CreateSurvey(ctx context.Context, sv models.Survey) error {
	if sv.CreatedAt.IsZero() {
		sv.CreatedAt = time.Now().UTC()
	}

	_, err := s.exec(ctx, `
		INSERT INTO survey (id, name, description, owner, questionnaire_id, starts_at, ends_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sv.ID, sv.Name, sv.Description, sv.Owner, nullString(sv.QuestionnaireID),
		nullTime(sv.StartsAt), nullTime(sv.EndsAt), sv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert survey: %w", err)
	}
	return nil
}

func (s *Store) GetSurvey(ctx context.Context, id string) (models.Survey, error) {
	sv, err := scanSurvey(s.queryRow(ctx, `
		SELECT id, name, description, owner, questionnaire_id, starts_at, ends_at, created_at
		FROM survey
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Survey{}, fmt.Errorf("survey %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Survey{}, fmt.Errorf("failed to query survey: %w", err)
	}
	return sv, nil
}

func (s *Store) ListSurveys(ctx context.Context) ([]models.Survey, error) {
	rows, err := s.query(ctx, `
		SELECT id, name, description, owner, questionnaire_id, starts_at, ends_at, created_at
		FROM survey
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}
	defer rows.Close()

	var out []models.Survey
	for rows.Next() {
		sv, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

// SetSurveyQuestionnaire points a survey at a questionnaire.
func (s *Store) SetSurveyQuestionnaire(ctx context.Context, surveyID, questionnaireID string) error {
	res, err := s.exec(ctx, `UPDATE survey SET questionnaire_id = ? WHERE id = ?`, questionnaireID, surveyID)
	if err != nil {
		return fmt.Errorf("failed to set questionnaire: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("survey %s: %w", surveyID, ErrNotFound)
	}
	return nil
}

// SurveysForQuestionnaire returns the ids of surveys using a questionnaire.
func (s *Store) SurveysForQuestionnaire(ctx context.Context, questionnaireID string) ([]string, error) {
	rows, err := s.query(ctx, `SELECT id FROM survey WHERE questionnaire_id = ? ORDER BY id`, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan survey id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row scanner) (models.Survey, error) {
	var (
		sv               models.Survey
		questionnaireID  sql.NullString
		startsAt, endsAt sql.NullTime
	)
	err := row.Scan(&sv.ID, &sv.Name, &sv.Description, &sv.Owner, &questionnaireID, &startsAt, &endsAt, &sv.CreatedAt)
	if err != nil {
		return models.Survey{}, err
	}

	sv.QuestionnaireID = questionnaireID.String
	if startsAt.Valid {
		t := startsAt.Time
		sv.StartsAt = &t
	}
	if endsAt.Valid {
		t := endsAt.Time
		sv.EndsAt = &t
	}
	return sv, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
