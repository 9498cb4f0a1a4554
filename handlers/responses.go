// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/export"
	"github.com/danielhkuo/quickly-survey/form"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/response"
	"github.com/danielhkuo/quickly-survey/survey"
)

const maxRespondentIDLen = 128

type ResponseHandler struct {
	store *db.Store
	svc   *survey.Service
	cfg   cliparse.Config
	now   func() time.Time
}

func NewResponseHandler(store *db.Store, svc *survey.Service, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{store: store, svc: svc, cfg: cfg, now: time.Now}
}

// SubmitResponse handles POST /surveys/{id}/responses
// The body is a JSON object of answers or a questionnaire answer document.
// X-Respondent-ID names the respondent; without it an anonymous id is used.
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	sv, ok := lookupSurvey(w, r, h.store)
	if !ok {
		return
	}

	now := h.now()
	if sv.EndsAt != nil && now.After(*sv.EndsAt) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot submit response. Survey expired.")
		return
	}
	if !sv.Open(now) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot submit response. Survey has not begun yet.")
		return
	}

	respondentID := strings.TrimSpace(r.Header.Get("X-Respondent-ID"))
	if respondentID == "" {
		respondentID = auth.AnonymousRespondentID()
	} else if err := checkRespondentID(respondentID); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	_, cat, ok := surveyCatalog(w, r, h.store, h.svc, sv)
	if !ok {
		return
	}

	raw, err := middleware.ReadBody(r)
	if errors.Is(err, middleware.ErrBodyTooLarge) {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Response too large")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read response")
		return
	}

	var answers response.AnswerSet
	if middleware.IsXML(r) {
		answers, err = form.LoadAnswers(raw)
	} else {
		answers, err = decodeAnswers(raw)
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Survey response is malformed: "+err.Error())
		return
	}

	clientIP := middleware.GetClientIP(r)
	sub, err := h.svc.Submit(r.Context(), sv.ID, respondentID, cat, answers,
		survey.WithClient(auth.HashIP(clientIP, h.cfg.AdminKeySalt), r.UserAgent()))

	var verr *response.Error
	switch {
	case errors.As(err, &verr):
		middleware.JSONResponse(w, http.StatusBadRequest, validationErrorResponse(verr))
		return
	case errors.Is(err, db.ErrDuplicateSubmission):
		middleware.ErrorResponse(w, http.StatusConflict, "Survey response already submitted")
		return
	case err != nil:
		slog.Error("failed to store response", "error", err, "survey_id", sv.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store response")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponseResponse{
		SubmissionID: sub.ID,
		RespondentID: sub.RespondentID,
		Answered:     len(answers),
	})
}

// ExportResponses handles GET /surveys/{id}/responses
// Query parameters: sep (default ",") and sepline (boolean).
func (h *ResponseHandler) ExportResponses(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.ScopeSurvey, surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	query := r.URL.Query()
	opts := export.Options{Separator: query.Get("sep")}
	if query.Has("sep") && opts.Separator == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, export.ErrEmptySeparator.Error())
		return
	}
	if v := query.Get("sepline"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "sepline must be a boolean")
			return
		}
		opts.SepLine = b
	}

	sv, ok := lookupSurvey(w, r, h.store)
	if !ok {
		return
	}
	_, cat, ok := surveyCatalog(w, r, h.store, h.svc, sv)
	if !ok {
		return
	}

	if err := h.store.CreateResponseView(r.Context(), sv.ID, cat); err != nil {
		slog.Warn("failed to create response view", "error", err, "survey_id", sv.ID)
	}

	text, err := h.svc.ExportSurveyResponses(r.Context(), sv.ID, cat, opts)
	if err != nil {
		if errors.Is(err, export.ErrEmptySeparator) || errors.Is(err, export.ErrInvalidSeparator) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to export responses", "error", err, "survey_id", sv.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export responses")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="survey-%s.csv"`, sv.ID))
	middleware.TextResponse(w, http.StatusOK, "text/csv; charset=utf-8", text)
}

// DeleteResponses handles DELETE /surveys/{id}/responses
func (h *ResponseHandler) DeleteResponses(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.ScopeSurvey, surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if _, ok := lookupSurvey(w, r, h.store); !ok {
		return
	}

	deleted, err := h.store.DeleteResponses(r.Context(), surveyID)
	if err != nil {
		slog.Error("failed to delete responses", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("responses deleted", "survey_id", surveyID, "submissions", deleted)

	middleware.JSONResponse(w, http.StatusOK, models.DeleteResponsesResponse{Deleted: deleted})
}

// decodeAnswers reads a JSON object of answers. Numbers keep their
// literal text so "01" and 1.0 are judged by the validator, not here.
func decodeAnswers(raw []byte) (response.AnswerSet, error) {
	var req models.SubmitResponseRequest

	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if req == nil {
		return nil, errors.New("answers must be a JSON object")
	}

	answers := make(response.AnswerSet, len(req))
	for id, v := range req {
		switch v := v.(type) {
		case string:
			answers[id] = v
		case json.Number:
			answers[id] = v.String()
		default:
			return nil, fmt.Errorf("answer to %s must be a string or a number", id)
		}
	}
	return answers, nil
}

func checkRespondentID(id string) error {
	if len(id) > maxRespondentIDLen {
		return fmt.Errorf("X-Respondent-ID longer than %d bytes", maxRespondentIDLen)
	}
	if strings.HasPrefix(id, auth.AnonymousPrefix) {
		return fmt.Errorf("X-Respondent-ID must not start with %q", auth.AnonymousPrefix)
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return errors.New("X-Respondent-ID contains control characters")
	}
	return nil
}

func validationErrorResponse(e *response.Error) models.ValidationErrorResponse {
	out := models.ValidationErrorResponse{
		Error:      http.StatusText(http.StatusBadRequest),
		Message:    "Survey response is invalid: " + e.Error(),
		Code:       string(e.Code),
		QuestionID: e.QuestionID,
		Expected:   e.Expected,
	}

	switch e.Code {
	case response.CodeOutOfDomain, response.CodeNotAnInteger, response.CodeOutOfRange:
		v := e.Value
		out.Value = &v
	}
	if e.Code == response.CodeOutOfRange {
		lo, hi := e.Min, e.Max
		out.Min, out.Max = &lo, &hi
	}
	return out
}
