// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

type QuestionnaireHandler struct {
	store *db.Store
	svc   *survey.Service
	cfg   cliparse.Config
}

func NewQuestionnaireHandler(store *db.Store, svc *survey.Service, cfg cliparse.Config) *QuestionnaireHandler {
	return &QuestionnaireHandler{store: store, svc: svc, cfg: cfg}
}

// CreateQuestionnaire handles POST /questionnaires
func (h *QuestionnaireHandler) CreateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionnaireRequest
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

	questionnaireID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate questionnaire ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create questionnaire")
		return
	}

	err = h.store.CreateQuestionnaire(r.Context(), models.Questionnaire{
		ID:          questionnaireID,
		Name:        req.Name,
		Description: req.Description,
		Owner:       req.Owner,
		Language:    req.Language,
	})
	if err != nil {
		slog.Error("failed to insert questionnaire", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create questionnaire")
		return
	}

	slog.Info("questionnaire created", "questionnaire_id", questionnaireID, "owner", req.Owner)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionnaireResponse{
		QuestionnaireID: questionnaireID,
		AdminKey:        auth.GenerateAdminKey(auth.ScopeQuestionnaire, questionnaireID, h.cfg.AdminKeySalt),
	})
}

// ListQuestionnaires handles GET /questionnaires
func (h *QuestionnaireHandler) ListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListQuestionnaires(r.Context())
	if err != nil {
		slog.Error("failed to list questionnaires", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if list == nil {
		list = []models.Questionnaire{}
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetQuestionnaire handles GET /questionnaires/{id}
func (h *QuestionnaireHandler) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	q, ok := h.lookup(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, q)
}

// UploadForm handles PUT /questionnaires/{id}/form
// The body is a questionnaire form document. It is stored only if it loads
// and yields a catalog, and only while no survey using the questionnaire
// has responses.
func (h *QuestionnaireHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	questionnaireID := r.PathValue("id")

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.ScopeQuestionnaire, questionnaireID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if _, ok := h.lookup(w, r); !ok {
		return
	}

	raw, err := middleware.ReadBody(r)
	if errors.Is(err, middleware.ErrBodyTooLarge) {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Form document too large")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read form document")
		return
	}

	doc, err := survey.LoadAndValidateForm(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Questionnaire form is invalid: "+err.Error())
		return
	}
	cat, err := survey.ExtractCatalog(doc)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Questionnaire form is invalid: "+err.Error())
		return
	}

	version, err := h.store.UpdateQuestionnaireForm(r.Context(), questionnaireID, string(raw))
	if errors.Is(err, db.ErrResponsesExist) {
		middleware.ErrorResponse(w, http.StatusForbidden,
			"Forbidden to change form, because responses exist. Export and delete them first.")
		return
	}
	if err != nil {
		slog.Error("failed to store form", "error", err, "questionnaire_id", questionnaireID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	h.svc.InvalidateForm(questionnaireID)

	// Response views are built from the catalog, so they go stale with it.
	surveyIDs, err := h.store.SurveysForQuestionnaire(r.Context(), questionnaireID)
	if err != nil {
		slog.Error("failed to list surveys", "error", err, "questionnaire_id", questionnaireID)
	}
	for _, id := range surveyIDs {
		if err := h.store.DropResponseView(r.Context(), id); err != nil {
			slog.Warn("failed to drop response view", "error", err, "survey_id", id)
		}
	}

	slog.Info("form uploaded",
		"questionnaire_id", questionnaireID,
		"version", version,
		"questions", cat.Len(),
	)

	middleware.JSONResponse(w, http.StatusOK, models.UploadFormResponse{
		QuestionnaireID: questionnaireID,
		Version:         version,
		Questions:       cat.Len(),
	})
}

// DownloadForm handles GET /questionnaires/{id}/form
func (h *QuestionnaireHandler) DownloadForm(w http.ResponseWriter, r *http.Request) {
	q, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !q.HasForm() {
		middleware.ErrorResponse(w, http.StatusNotFound, "Questionnaire has no form")
		return
	}

	middleware.TextResponse(w, http.StatusOK, "application/xml", q.FormXML)
}

// lookup loads the questionnaire named by the path and writes the error
// response when it cannot.
func (h *QuestionnaireHandler) lookup(w http.ResponseWriter, r *http.Request) (models.Questionnaire, bool) {
	q, err := h.store.GetQuestionnaire(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Questionnaire not found")
		return models.Questionnaire{}, false
	}
	if err != nil {
		slog.Error("failed to query questionnaire", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Questionnaire{}, false
	}
	return q, true
}
