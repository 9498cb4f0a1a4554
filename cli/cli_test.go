// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/form"
	"github.com/danielhkuo/quickly-survey/response"
	"github.com/danielhkuo/quickly-survey/survey"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func writeForm(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheck_Text(t *testing.T) {
	path := writeForm(t, testutil.TestForm)

	out, err := execute(t, "check", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Regexp(t, `^ID\s+KIND\s+REQUIRED\s+DOMAIN$`, lines[0])
	assert.Regexp(t, `^Q1\s+Dichotomous\s+true\s+0 or 1$`, lines[1])
	assert.Regexp(t, `^Q2\s+OrdinalScale\s+false\s+1\.\.5$`, lines[2])
	assert.Regexp(t, `^Q3\s+FreeText\s+false\s+text$`, lines[3])
	assert.Equal(t, "3 questions", lines[4])
}

func TestCheck_JSON(t *testing.T) {
	path := writeForm(t, testutil.TestForm)

	out, err := execute(t, "check", "--format", "json", path)
	require.NoError(t, err)

	var questions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	require.Len(t, questions, 3)
	assert.Equal(t, "Q2", questions[1]["id"])
	assert.EqualValues(t, 5, questions[1]["max_value"])
}

func TestCheck_InvalidForm(t *testing.T) {
	path := writeForm(t, strings.Replace(testutil.TestForm, "</qu:Questionnaire>", "", 1))

	_, err := execute(t, "check", path)
	assert.ErrorIs(t, err, form.ErrMalformedDocument)

	_, err = execute(t, "check", filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestRoot_InvalidFormat(t *testing.T) {
	path := writeForm(t, testutil.TestForm)

	_, err := execute(t, "check", "--format", "yaml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestExport(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	ctx := context.Background()

	questionnaireID, _ := testutil.CreateTestQuestionnaire(t, store, cfg, testutil.TestForm)
	surveyID, _ := testutil.CreateTestSurvey(t, store, cfg, questionnaireID, nil, nil)

	svc := survey.NewService(store, nil)
	cat, err := svc.Catalog(questionnaireID, 1, []byte(testutil.TestForm))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, surveyID, "r1", cat, response.AnswerSet{"Q1": "1", "Q2": "3"})
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		err := runExport(ctx, store, &ExportOptions{SurveyID: surveyID, Sep: ";", SepLine: true}, &out, logger)
		require.NoError(t, err)
		assert.Equal(t, "sep=;\r\nrespondentId;Q1;Q2;Q3\r\nr1;1;3;", out.String())
		assert.Contains(t, logs.String(), "size=")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		err := runExport(ctx, store, &ExportOptions{SurveyID: surveyID, Sep: ",", Out: path}, &bytes.Buffer{}, logger)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "respondentId,Q1,Q2,Q3\r\nr1,1,3,", string(data))
	})

	t.Run("unknown survey", func(t *testing.T) {
		err := runExport(ctx, store, &ExportOptions{SurveyID: "missing", Sep: ","}, &bytes.Buffer{}, logger)
		assert.Error(t, err)
	})

	t.Run("survey without questionnaire", func(t *testing.T) {
		bare, _ := testutil.CreateTestSurvey(t, store, cfg, "", nil, nil)
		err := runExport(ctx, store, &ExportOptions{SurveyID: bare, Sep: ","}, &bytes.Buffer{}, logger)
		assert.ErrorContains(t, err, "no questionnaire")
	})
}

func TestExport_RequiresSurvey(t *testing.T) {
	_, err := execute(t, "export")
	assert.ErrorContains(t, err, "--survey")
}

func TestNewLogger(t *testing.T) {
	t.Run("stdout text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := newLogger(cliparse.Config{LogLevel: "warn"}, &buf)
		require.NoError(t, err)
		assert.Nil(t, closer)

		logger.Info("hidden")
		logger.Warn("shown", "k", "v")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "k=v")
	})

	t.Run("rotating file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "server.log")
		logger, closer, err := newLogger(cliparse.Config{LogLevel: "debug", LogFile: path}, &bytes.Buffer{})
		require.NoError(t, err)
		require.NotNil(t, closer)

		logger.Debug("to file", "survey_id", "s1")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
		assert.Equal(t, "to file", record["msg"])
		assert.Equal(t, "s1", record["survey_id"])
	})

	t.Run("invalid level", func(t *testing.T) {
		_, _, err := newLogger(cliparse.Config{LogLevel: "loud"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
