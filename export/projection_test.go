// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-survey/catalog"
	"github.com/danielhkuo/quickly-survey/response"
)

var at = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func row(survey, respondent, qid, value string) response.Row {
	return response.Row{SurveyID: survey, RespondentID: respondent, QuestionID: qid, Value: value, SubmittedAt: at}
}

func mixedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		catalog.Question{ID: "Q1", Required: true, Rule: catalog.DichotomousRule{}},
		catalog.Question{ID: "Q2", Rule: catalog.OrdinalScaleRule{Min: 1, Max: 5}},
		catalog.Question{ID: "Q3", Rule: catalog.FreeTextRule{}},
	)
	require.NoError(t, err)
	return cat
}

func mixedRows() []response.Row {
	return []response.Row{
		row("s1", "alice", "Q1", "1"),
		row("s1", "bob", "Q1", "0"),
		row("s2", "mallory", "Q1", "1"),
		row("s1", "alice", "Q2", "5"),
		row("s1", "alice", "Q3", "Hello, \"world\"\nbye"),
		row("s1", "carol", "Q3", "  padded  "),
	}
}

func num(v int64) Cell  { return Cell{Present: true, Kind: catalog.Dichotomous, Int: v} }
func text(s string) Cell { return Cell{Present: true, Kind: catalog.FreeText, Text: s} }

func TestBuildProjection(t *testing.T) {
	got, err := BuildProjection("s1", mixedCatalog(t), mixedRows())
	require.NoError(t, err)

	ordinal := func(v int64) Cell { return Cell{Present: true, Kind: catalog.OrdinalScale, Int: v} }
	want := []Row{
		{RespondentID: "alice", Cells: []Cell{num(1), ordinal(5), text("Hello, \"world\"\nbye")}},
		{RespondentID: "bob", Cells: []Cell{num(0), {}, {}}},
		{RespondentID: "carol", Cells: []Cell{{}, {}, text("  padded  ")}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildProjection_TwoRespondents(t *testing.T) {
	cat, err := catalog.New(catalog.Question{ID: "Q1", Required: true, Rule: catalog.DichotomousRule{}})
	require.NoError(t, err)

	got, err := BuildProjection("s1", cat, []response.Row{
		row("s1", "r1", "Q1", "1"),
		row("s1", "r2", "Q1", "0"),
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"respondentId", "Q1"}, Columns(cat))
	assert.Equal(t, "r1", got[0].RespondentID)
	assert.Equal(t, "1", got[0].Cells[0].String())
	assert.Equal(t, "r2", got[1].RespondentID)
	assert.Equal(t, "0", got[1].Cells[0].String())
}

func TestBuildProjection_IgnoresUnknownQuestions(t *testing.T) {
	got, err := BuildProjection("s1", mixedCatalog(t), []response.Row{
		row("s1", "r1", "Removed", "x"),
		row("s1", "r2", "Q1", "1"),
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "r2", got[0].RespondentID)
}

func TestBuildProjection_DuplicatesKeepMaximum(t *testing.T) {
	got, err := BuildProjection("s1", mixedCatalog(t), []response.Row{
		row("s1", "r1", "Q2", "4"),
		row("s1", "r1", "Q2", "2"),
		row("s1", "r1", "Q3", "apple"),
		row("s1", "r1", "Q3", "pear"),
		row("s1", "r1", "Q3", "banana"),
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].Cells[1].Int)
	assert.Equal(t, "pear", got[0].Cells[2].Text)
}

func TestBuildProjection_NonNumericStoredValue(t *testing.T) {
	_, err := BuildProjection("s1", mixedCatalog(t), []response.Row{
		row("s1", "r1", "Q2", "three"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Q2")
}

func TestBuildProjection_Empty(t *testing.T) {
	got, err := BuildProjection("s1", mixedCatalog(t), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildProjection_DoesNotMutateRows(t *testing.T) {
	rows := mixedRows()
	before := append([]response.Row(nil), rows...)

	_, err := BuildProjection("s1", mixedCatalog(t), rows)
	require.NoError(t, err)

	if diff := cmp.Diff(before, rows); diff != "" {
		t.Errorf("rows changed (-before +after):\n%s", diff)
	}
}
