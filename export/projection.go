// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-survey/catalog"
	"github.com/danielhkuo/quickly-survey/response"
)

// RespondentColumn is the name of the first export column.
const RespondentColumn = "respondentId"

// Cell is one question's value in a projected row.
type Cell struct {
	Present bool
	Kind    catalog.Kind
	Int     int64
	Text    string
}

func (c Cell) String() string {
	if !c.Present {
		return ""
	}
	if c.Kind.Numeric() {
		return strconv.FormatInt(c.Int, 10)
	}
	return c.Text
}

// Row is one respondent's answers to every catalog question.
type Row struct {
	RespondentID string
	Cells        []Cell
}

// Columns returns the export header for cat.
func Columns(cat *catalog.Catalog) []string {
	return append([]string{RespondentColumn}, cat.IDs()...)
}

// BuildProjection aggregates rows of surveyID into one Row per respondent.
// Rows of other surveys and rows for questions the catalog no longer has
// are ignored. When a respondent has several values for a question the
// largest one is kept.
func BuildProjection(surveyID string, cat *catalog.Catalog, rows []response.Row) ([]Row, error) {
	questions := cat.Questions()
	column := make(map[string]int, len(questions))
	for i, q := range questions {
		column[q.ID] = i
	}

	var out []Row
	byRespondent := make(map[string]int)

	for _, r := range rows {
		if r.SurveyID != surveyID {
			continue
		}
		col, ok := column[r.QuestionID]
		if !ok {
			continue
		}

		idx, seen := byRespondent[r.RespondentID]
		if !seen {
			idx = len(out)
			byRespondent[r.RespondentID] = idx
			out = append(out, Row{
				RespondentID: r.RespondentID,
				Cells:        make([]Cell, len(questions)),
			})
		}

		cell, err := toCell(questions[col], r.Value)
		if err != nil {
			return nil, fmt.Errorf("respondent %s: %w", r.RespondentID, err)
		}

		current := &out[idx].Cells[col]
		if !current.Present || greater(cell, *current) {
			*current = cell
		}
	}

	return out, nil
}

func toCell(q catalog.Question, value string) (Cell, error) {
	kind := q.Kind()
	if !kind.Numeric() {
		return Cell{Present: true, Kind: kind, Text: value}, nil
	}

	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return Cell{}, fmt.Errorf("question %s: stored value %q is not numeric", q.ID, value)
	}
	return Cell{Present: true, Kind: kind, Int: v}, nil
}

func greater(a, b Cell) bool {
	if a.Kind.Numeric() {
		return a.Int > b.Int
	}
	return a.Text > b.Text
}
