// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
)

// TestForm has a required dichotomous question Q1, an ordinal question Q2
// on 1..5 and a free text question Q3.
const TestForm = `<?xml version="1.0" encoding="UTF-8"?>
<qu:Questionnaire xmlns:qu="http://dbis.rwth-aachen.de/mobsos/questionnaire.xsd"
    xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" name="Feedback" language="en">
  <qu:Page xsi:type="qu:InformationPageType" name="Welcome">
    <qu:Instructions>Thanks for your time.</qu:Instructions>
  </qu:Page>
  <qu:Page xsi:type="qu:DichotomousQuestionPageType" qid="Q1" name="Recommend" required="true" minlabel="no" maxlabel="yes">
    <qu:Instructions>Would you recommend us?</qu:Instructions>
  </qu:Page>
  <qu:Page xsi:type="qu:OrdinalScaleQuestionPageType" qid="Q2" name="Rating" minval="1" maxval="5" minlabel="bad" maxlabel="good">
    <qu:Instructions>Rate the service.</qu:Instructions>
  </qu:Page>
  <qu:Page xsi:type="qu:FreeTextQuestionPageType" qid="Q3" name="Comments">
    <qu:Instructions>Anything else?</qu:Instructions>
  </qu:Page>
</qu:Questionnaire>`

// SetupTestDB opens a fresh SQLite database with the full schema in a
// temporary directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	store, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         cliparse.DefaultPort,
		DatabaseType: db.DriverSQLite,
		AdminKeySalt: "test-admin-salt",
		LogLevel:     cliparse.DefaultLogLevel,
	}
}

// CreateTestQuestionnaire creates a questionnaire and returns its ID and
// admin key. formXML is stored unchecked when non-empty.
func CreateTestQuestionnaire(t *testing.T, store *db.Store, cfg cliparse.Config, formXML string) (questionnaireID, adminKey string) {
	t.Helper()

	ctx := context.Background()
	questionnaireID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(auth.ScopeQuestionnaire, questionnaireID, cfg.AdminKeySalt)

	err := store.CreateQuestionnaire(ctx, models.Questionnaire{
		ID:       questionnaireID,
		Name:     "Test Questionnaire",
		Owner:    "TestUser",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("Failed to create test questionnaire: %v", err)
	}

	if formXML != "" {
		if _, err := store.UpdateQuestionnaireForm(ctx, questionnaireID, formXML); err != nil {
			t.Fatalf("Failed to store test form: %v", err)
		}
	}

	return questionnaireID, adminKey
}

// CreateTestSurvey creates a survey using questionnaireID (may be empty)
// and returns its ID and admin key. Nil bounds leave the survey open.
func CreateTestSurvey(t *testing.T, store *db.Store, cfg cliparse.Config, questionnaireID string, startsAt, endsAt *time.Time) (surveyID, adminKey string) {
	t.Helper()

	surveyID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(auth.ScopeSurvey, surveyID, cfg.AdminKeySalt)

	err := store.CreateSurvey(context.Background(), models.Survey{
		ID:              surveyID,
		Name:            "Test Survey",
		Owner:           "TestUser",
		QuestionnaireID: questionnaireID,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
	})
	if err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}

	return surveyID, adminKey
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeRawRequest creates an HTTP test request with a verbatim body.
func MakeRawRequest(method, path, contentType, body string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
