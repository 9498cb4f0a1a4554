// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func newQuestionnaireHandler(t *testing.T) (*QuestionnaireHandler, *db.Store) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	return NewQuestionnaireHandler(store, survey.NewService(store, nil), testutil.GetTestConfig()), store
}

func TestCreateQuestionnaire(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()

	tests := []struct {
		name           string
		request        models.CreateQuestionnaireRequest
		expectedStatus int
	}{
		{
			name: "valid questionnaire",
			request: models.CreateQuestionnaireRequest{
				Name:        "Course feedback",
				Description: "End of term",
				Owner:       "Alice",
				Language:    "en",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			request:        models.CreateQuestionnaireRequest{Owner: "Alice"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank name",
			request:        models.CreateQuestionnaireRequest{Name: "   ", Owner: "Alice"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing owner",
			request:        models.CreateQuestionnaireRequest{Name: "Course feedback"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/questionnaires", tt.request, nil)
			w := httptest.NewRecorder()

			h.CreateQuestionnaire(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.CreateQuestionnaireResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.QuestionnaireID == "" {
				t.Fatal("Expected questionnaire_id")
			}
			if err := auth.ValidateAdminKey(auth.ScopeQuestionnaire, resp.QuestionnaireID, resp.AdminKey, cfg.AdminKeySalt); err != nil {
				t.Errorf("Admin key does not validate: %v", err)
			}

			q, err := store.GetQuestionnaire(context.Background(), resp.QuestionnaireID)
			if err != nil {
				t.Fatalf("Questionnaire not stored: %v", err)
			}
			if q.Name != tt.request.Name || q.Owner != tt.request.Owner || q.HasForm() {
				t.Errorf("Unexpected stored questionnaire: %+v", q)
			}
		})
	}
}

func TestCreateQuestionnaire_InvalidJSON(t *testing.T) {
	h, _ := newQuestionnaireHandler(t)

	req := testutil.MakeRawRequest("POST", "/questionnaires", "application/json", "{not json", nil)
	w := httptest.NewRecorder()

	h.CreateQuestionnaire(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestListQuestionnaires(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()

	w := httptest.NewRecorder()
	h.ListQuestionnaires(w, testutil.MakeRequest("GET", "/questionnaires", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty list, got %s", w.Body.String())
	}

	testutil.CreateTestQuestionnaire(t, store, cfg, "")
	testutil.CreateTestQuestionnaire(t, store, cfg, testutil.TestForm)

	w = httptest.NewRecorder()
	h.ListQuestionnaires(w, testutil.MakeRequest("GET", "/questionnaires", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.Questionnaire
	testutil.AssertJSON(t, w, &list)
	if len(list) != 2 {
		t.Errorf("Expected 2 questionnaires, got %d", len(list))
	}
}

func TestGetQuestionnaire(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()
	questionnaireID, _ := testutil.CreateTestQuestionnaire(t, store, cfg, testutil.TestForm)

	t.Run("found", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/questionnaires/"+questionnaireID, nil, nil)
		req.SetPathValue("id", questionnaireID)
		w := httptest.NewRecorder()

		h.GetQuestionnaire(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		if strings.Contains(w.Body.String(), "Questionnaire xmlns") {
			t.Error("Form definition must not be part of the questionnaire JSON")
		}

		var q models.Questionnaire
		testutil.AssertJSON(t, w, &q)
		if q.ID != questionnaireID || q.Version != 1 {
			t.Errorf("Unexpected questionnaire: %+v", q)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/questionnaires/missing", nil, nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		h.GetQuestionnaire(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func uploadForm(h *QuestionnaireHandler, questionnaireID, adminKey, body string) *httptest.ResponseRecorder {
	req := testutil.MakeRawRequest("PUT", "/questionnaires/"+questionnaireID+"/form", "application/xml", body,
		map[string]string{"X-Admin-Key": adminKey})
	req.SetPathValue("id", questionnaireID)
	w := httptest.NewRecorder()
	h.UploadForm(w, req)
	return w
}

func TestUploadForm(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()
	questionnaireID, adminKey := testutil.CreateTestQuestionnaire(t, store, cfg, "")

	w := uploadForm(h, questionnaireID, adminKey, testutil.TestForm)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.UploadFormResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Version != 1 || resp.Questions != 3 {
		t.Errorf("Expected version 1 with 3 questions, got %+v", resp)
	}

	// A second upload bumps the version
	w = uploadForm(h, questionnaireID, adminKey, strings.Replace(testutil.TestForm, `qid="Q3"`, `qid="Q4"`, 1))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	if resp.Version != 2 {
		t.Errorf("Expected version 2, got %d", resp.Version)
	}

	q, err := store.GetQuestionnaire(context.Background(), questionnaireID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q.FormXML, `qid="Q4"`) {
		t.Error("Expected the latest form to be stored")
	}
}

func TestUploadForm_Rejected(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()
	questionnaireID, adminKey := testutil.CreateTestQuestionnaire(t, store, cfg, "")

	duplicate := strings.Replace(testutil.TestForm, `qid="Q3"`, `qid="Q1"`, 1)
	answerDoc := `<qu:QuestionnaireAnswer xmlns:qu="http://dbis.rwth-aachen.de/mobsos/questionnaire.xsd"/>`

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed", "<qu:Questionnaire", "malformed"},
		{"schema violation", strings.Replace(testutil.TestForm, `minval="1"`, `minval="x"`, 1), "schema"},
		{"answer document", answerDoc, "qu:Questionnaire"},
		{"duplicate question id", duplicate, "Q1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := uploadForm(h, questionnaireID, adminKey, tt.body)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if !strings.Contains(resp.Message, tt.message) {
				t.Errorf("Expected message to mention %q, got %q", tt.message, resp.Message)
			}
		})
	}

	q, err := store.GetQuestionnaire(context.Background(), questionnaireID)
	if err != nil {
		t.Fatal(err)
	}
	if q.HasForm() || q.Version != 0 {
		t.Errorf("Rejected forms must not be stored, got version %d", q.Version)
	}
}

func TestUploadForm_Auth(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()
	questionnaireID, _ := testutil.CreateTestQuestionnaire(t, store, cfg, "")

	tests := []struct {
		name     string
		adminKey string
	}{
		{"missing key", ""},
		{"wrong key", "not-the-key"},
		{"survey scoped key", auth.GenerateAdminKey(auth.ScopeSurvey, questionnaireID, cfg.AdminKeySalt)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := uploadForm(h, questionnaireID, tt.adminKey, testutil.TestForm)
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestUploadForm_NotFound(t *testing.T) {
	h, _ := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()

	adminKey := auth.GenerateAdminKey(auth.ScopeQuestionnaire, "missing", cfg.AdminKeySalt)
	w := uploadForm(h, "missing", adminKey, testutil.TestForm)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUploadForm_DropsResponseViews(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()
	ctx := context.Background()

	questionnaireID, adminKey := testutil.CreateTestQuestionnaire(t, store, cfg, testutil.TestForm)
	surveyID, _ := testutil.CreateTestSurvey(t, store, cfg, questionnaireID, nil, nil)

	cat, err := survey.NewService(store, nil).Catalog(questionnaireID, 1, []byte(testutil.TestForm))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CreateResponseView(ctx, surveyID, cat); err != nil {
		t.Fatal(err)
	}

	w := uploadForm(h, questionnaireID, adminKey, testutil.TestForm)
	testutil.AssertStatus(t, w, http.StatusOK)

	exists, err := store.ResponseViewExists(ctx, surveyID)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("Expected the response view to be dropped after a form change")
	}
}

func TestUploadForm_RefusedWhileResponsesExist(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := survey.NewService(store, nil)
	qh := NewQuestionnaireHandler(store, svc, cfg)
	rh := NewResponseHandler(store, svc, cfg)
	ctx := context.Background()

	questionnaireID, adminKey := testutil.CreateTestQuestionnaire(t, store, cfg, testutil.TestForm)
	surveyID, surveyKey := testutil.CreateTestSurvey(t, store, cfg, questionnaireID, nil, nil)

	w := submitJSON(rh, surveyID, "alice", map[string]string{"Q1": "1", "Q3": "great"})
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Q3 turns from free text into a 1..5 scale
	ordinalQ3 := strings.Replace(testutil.TestForm,
		`<qu:Page xsi:type="qu:FreeTextQuestionPageType" qid="Q3" name="Comments">`,
		`<qu:Page xsi:type="qu:OrdinalScaleQuestionPageType" qid="Q3" name="Comments" minval="1" maxval="5" minlabel="low" maxlabel="high">`,
		1)

	w = uploadForm(qh, questionnaireID, adminKey, ordinalQ3)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	q, err := store.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		t.Fatal(err)
	}
	if q.Version != 1 || q.FormXML != testutil.TestForm {
		t.Errorf("Refused form must not be stored, got version %d", q.Version)
	}

	w = exportResponses(rh, surveyID, surveyKey, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	if want := "respondentId,Q1,Q2,Q3\r\nalice,1,,great"; w.Body.String() != want {
		t.Errorf("Expected export %q, got %q", want, w.Body.String())
	}

	// Once the responses are gone the form may change
	if _, err := store.DeleteResponses(ctx, surveyID); err != nil {
		t.Fatal(err)
	}
	w = uploadForm(qh, questionnaireID, adminKey, ordinalQ3)
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestDownloadForm(t *testing.T) {
	h, store := newQuestionnaireHandler(t)
	cfg := testutil.GetTestConfig()
	withForm, _ := testutil.CreateTestQuestionnaire(t, store, cfg, testutil.TestForm)
	withoutForm, _ := testutil.CreateTestQuestionnaire(t, store, cfg, "")

	req := testutil.MakeRequest("GET", "/questionnaires/"+withForm+"/form", nil, nil)
	req.SetPathValue("id", withForm)
	w := httptest.NewRecorder()
	h.DownloadForm(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("Expected application/xml, got %q", ct)
	}
	if w.Body.String() != testutil.TestForm {
		t.Error("Expected the stored form verbatim")
	}

	req = testutil.MakeRequest("GET", "/questionnaires/"+withoutForm+"/form", nil, nil)
	req.SetPathValue("id", withoutForm)
	w = httptest.NewRecorder()
	h.DownloadForm(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
