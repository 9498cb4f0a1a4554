// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/catalog"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

type SurveyHandler struct {
	store *db.Store
	svc   *survey.Service
	cfg   cliparse.Config
}

func NewSurveyHandler(store *db.Store, svc *survey.Service, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{store: store, svc: svc, cfg: cfg}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Owner == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "owner is required")
		return
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ends_at must not be before starts_at")
		return
	}

	if req.QuestionnaireID != "" {
		if _, err := h.store.GetQuestionnaire(r.Context(), req.QuestionnaireID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				middleware.ErrorResponse(w, http.StatusNotFound, "Questionnaire not found")
				return
			}
			slog.Error("failed to query questionnaire", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	surveyID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate survey ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	err = h.store.CreateSurvey(r.Context(), models.Survey{
		ID:              surveyID,
		Name:            req.Name,
		Description:     req.Description,
		Owner:           req.Owner,
		QuestionnaireID: req.QuestionnaireID,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
	})
	if err != nil {
		slog.Error("failed to insert survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	slog.Info("survey created", "survey_id", surveyID, "owner", req.Owner)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		SurveyID: surveyID,
		AdminKey: auth.GenerateAdminKey(auth.ScopeSurvey, surveyID, h.cfg.AdminKeySalt),
	})
}

// ListSurveys handles GET /surveys
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListSurveys(r.Context())
	if err != nil {
		slog.Error("failed to list surveys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if list == nil {
		list = []models.Survey{}
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetSurvey handles GET /surveys/{id}
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	sv, ok := lookupSurvey(w, r, h.store)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sv)
}

// SetQuestionnaire handles PUT /surveys/{id}/questionnaire
// Refused while responses exist; they must be exported and deleted first.
func (h *SurveyHandler) SetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.ScopeSurvey, surveyID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.SetQuestionnaireRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.QuestionnaireID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "questionnaire_id is required")
		return
	}

	if _, ok := lookupSurvey(w, r, h.store); !ok {
		return
	}

	q, err := h.store.GetQuestionnaire(r.Context(), req.QuestionnaireID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Questionnaire not found")
		return
	}
	if err != nil {
		slog.Error("failed to query questionnaire", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !q.HasForm() {
		middleware.ErrorResponse(w, http.StatusNotFound, "Questionnaire has no form")
		return
	}

	count, err := h.store.CountResponses(r.Context(), surveyID)
	if err != nil {
		slog.Error("failed to count responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		middleware.ErrorResponse(w, http.StatusForbidden,
			"Forbidden to change questionnaire, because responses exist. Export and delete them first.")
		return
	}

	if err := h.store.SetSurveyQuestionnaire(r.Context(), surveyID, q.ID); err != nil {
		slog.Error("failed to set questionnaire", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := h.store.DropResponseView(r.Context(), surveyID); err != nil {
		slog.Warn("failed to drop response view", "error", err, "survey_id", surveyID)
	}

	slog.Info("survey questionnaire set", "survey_id", surveyID, "questionnaire_id", q.ID)

	w.WriteHeader(http.StatusNoContent)
}

// GetQuestions handles GET /surveys/{id}/questions
func (h *SurveyHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	sv, ok := lookupSurvey(w, r, h.store)
	if !ok {
		return
	}
	q, cat, ok := surveyCatalog(w, r, h.store, h.svc, sv)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionsResponse{
		SurveyID:        sv.ID,
		QuestionnaireID: q.ID,
		Version:         q.Version,
		Questions:       cat,
	})
}

// lookupSurvey loads the survey named by the path and writes the error
// response when it cannot.
func lookupSurvey(w http.ResponseWriter, r *http.Request, store *db.Store) (models.Survey, bool) {
	sv, err := store.GetSurvey(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return models.Survey{}, false
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Survey{}, false
	}
	return sv, true
}

// surveyCatalog resolves the catalog of the survey's current form.
func surveyCatalog(w http.ResponseWriter, r *http.Request, store *db.Store, svc *survey.Service, sv models.Survey) (models.Questionnaire, *catalog.Catalog, bool) {
	if sv.QuestionnaireID == "" {
		middleware.ErrorResponse(w, http.StatusNotFound, "No questionnaire defined for survey")
		return models.Questionnaire{}, nil, false
	}

	q, err := store.GetQuestionnaire(r.Context(), sv.QuestionnaireID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Questionnaire not found")
		return models.Questionnaire{}, nil, false
	}
	if err != nil {
		slog.Error("failed to query questionnaire", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Questionnaire{}, nil, false
	}
	if !q.HasForm() {
		middleware.ErrorResponse(w, http.StatusNotFound, "Questionnaire has no form")
		return models.Questionnaire{}, nil, false
	}

	cat, err := svc.Catalog(q.ID, q.Version, []byte(q.FormXML))
	if err != nil {
		slog.Error("stored form failed to load", "error", err, "questionnaire_id", q.ID, "version", q.Version)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Stored questionnaire form is invalid")
		return models.Questionnaire{}, nil, false
	}
	return q, cat, true
}
