// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/danielhkuo/quickly-survey/catalog"
	"github.com/danielhkuo/quickly-survey/export"
)

var (
	surveyIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	questionIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]{0,63}$`)
)

// ResponseViewName returns the name of the response view of a survey.
func ResponseViewName(surveyID string) (string, error) {
	if !surveyIDPattern.MatchString(surveyID) {
		return "", fmt.Errorf("survey id %q not usable in a view name", surveyID)
	}
	return "responses_survey_" + surveyID, nil
}

// CreateResponseView materializes the export projection of a survey as a
// view with one column per catalog question. Creating a view that already
// exists does nothing.
func (s *Store) CreateResponseView(ctx context.Context, surveyID string, cat *catalog.Catalog) error {
	exists, err := s.ResponseViewExists(ctx, surveyID)
	if err != nil || exists {
		return err
	}

	stmt, err := responseViewSQL(surveyID, cat)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		// lost a race with a concurrent export
		if exists, _ := s.ResponseViewExists(ctx, surveyID); exists {
			return nil
		}
		return fmt.Errorf("failed to create response view: %w", err)
	}
	return nil
}

// ResponseViewExists reports whether the response view of a survey exists.
func (s *Store) ResponseViewExists(ctx context.Context, surveyID string) (bool, error) {
	name, err := ResponseViewName(surveyID)
	if err != nil {
		return false, err
	}

	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'view' AND name = ?`
	if s.driver == DriverPostgres {
		query = `SELECT COUNT(*) FROM information_schema.views WHERE table_name = ?`
	}

	var n int
	if err := s.queryRow(ctx, query, name).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to look up response view: %w", err)
	}
	return n > 0, nil
}

// DropResponseView removes the response view of a survey if it exists.
func (s *Store) DropResponseView(ctx context.Context, surveyID string) error {
	name, err := ResponseViewName(surveyID)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DROP VIEW IF EXISTS `+quoteIdent(name)); err != nil {
		return fmt.Errorf("failed to drop response view: %w", err)
	}
	return nil
}

// responseViewSQL builds the view statement. Views take no bind
// parameters, so every interpolated id is checked against an allow-list
// and quoted.
func responseViewSQL(surveyID string, cat *catalog.Catalog) (string, error) {
	name, err := ResponseViewName(surveyID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("CREATE VIEW ")
	b.WriteString(quoteIdent(name))
	b.WriteString(" AS SELECT respondent_id AS ")
	b.WriteString(quoteIdent(export.RespondentColumn))

	for _, q := range cat.Questions() {
		if !questionIDPattern.MatchString(q.ID) {
			return "", fmt.Errorf("question id %q not usable as a column name", q.ID)
		}

		value := "value"
		if q.Kind().Numeric() {
			value = "CAST(value AS INTEGER)"
		}
		fmt.Fprintf(&b, ", MAX(CASE WHEN question_id = %s THEN %s END) AS %s",
			quoteLiteral(q.ID), value, quoteIdent(q.ID))
	}

	fmt.Fprintf(&b, " FROM response WHERE survey_id = %s GROUP BY respondent_id", quoteLiteral(surveyID))
	return b.String(), nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
