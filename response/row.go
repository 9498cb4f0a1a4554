// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"sort"
	"time"
)

// Row is one stored answer: a respondent's value for one question of one
// survey. Rows carry no catalog information.
type Row struct {
	RespondentID string
	SurveyID     string
	QuestionID   string
	Value        string
	SubmittedAt  time.Time
}

// Rows converts a validated set into storage rows sorted by question id.
func Rows(surveyID, respondentID string, validated Validated, at time.Time) []Row {
	rows := make([]Row, 0, len(validated))
	for qid, v := range validated {
		rows = append(rows, Row{
			RespondentID: respondentID,
			SurveyID:     surveyID,
			QuestionID:   qid,
			Value:        v,
			SubmittedAt:  at,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].QuestionID < rows[j].QuestionID })
	return rows
}
