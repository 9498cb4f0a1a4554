// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/handlers"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/survey"
)

func NewRouter(store *db.Store, svc *survey.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	questionnaireHandler := handlers.NewQuestionnaireHandler(store, svc, cfg)
	surveyHandler := handlers.NewSurveyHandler(store, svc, cfg)
	responseHandler := handlers.NewResponseHandler(store, svc, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Questionnaires and their forms
	mux.HandleFunc("POST /questionnaires", middleware.WithLogging(questionnaireHandler.CreateQuestionnaire))
	mux.HandleFunc("GET /questionnaires", middleware.WithLogging(questionnaireHandler.ListQuestionnaires))
	mux.HandleFunc("GET /questionnaires/{id}", middleware.WithLogging(questionnaireHandler.GetQuestionnaire))
	mux.HandleFunc("PUT /questionnaires/{id}/form", middleware.WithLogging(questionnaireHandler.UploadForm))
	mux.HandleFunc("GET /questionnaires/{id}/form", middleware.WithLogging(questionnaireHandler.DownloadForm))

	// Surveys
	mux.HandleFunc("POST /surveys", middleware.WithLogging(surveyHandler.CreateSurvey))
	mux.HandleFunc("GET /surveys", middleware.WithLogging(surveyHandler.ListSurveys))
	mux.HandleFunc("GET /surveys/{id}", middleware.WithLogging(surveyHandler.GetSurvey))
	mux.HandleFunc("PUT /surveys/{id}/questionnaire", middleware.WithLogging(surveyHandler.SetQuestionnaire))
	mux.HandleFunc("GET /surveys/{id}/questions", middleware.WithLogging(surveyHandler.GetQuestions))

	// Responses
	mux.HandleFunc("POST /surveys/{id}/responses", middleware.WithLogging(responseHandler.SubmitResponse))
	mux.HandleFunc("GET /surveys/{id}/responses", middleware.WithLogging(responseHandler.ExportResponses))
	mux.HandleFunc("DELETE /surveys/{id}/responses", middleware.WithLogging(responseHandler.DeleteResponses))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-survey API v1"))
	})

	return mux
}
