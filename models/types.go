// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/quickly-survey/catalog"
)

// Request types

type CreateQuestionnaireRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Language    string `json:"language"`
}

type CreateSurveyRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Owner           string     `json:"owner"`
	QuestionnaireID string     `json:"questionnaire_id,omitempty"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
}

type SetQuestionnaireRequest struct {
	QuestionnaireID string `json:"questionnaire_id"`
}

// SubmitResponseRequest maps question ids to answers. Values are JSON
// strings or numbers.
type SubmitResponseRequest map[string]any

// Response types

type CreateQuestionnaireResponse struct {
	QuestionnaireID string `json:"questionnaire_id"`
	AdminKey        string `json:"admin_key"`
}

type UploadFormResponse struct {
	QuestionnaireID string `json:"questionnaire_id"`
	Version         int    `json:"version"`
	Questions       int    `json:"questions"`
}

type CreateSurveyResponse struct {
	SurveyID string `json:"survey_id"`
	AdminKey string `json:"admin_key"`
}

type SubmitResponseResponse struct {
	SubmissionID string `json:"submission_id"`
	RespondentID string `json:"respondent_id"`
	Answered     int    `json:"answered"`
}

type QuestionsResponse struct {
	SurveyID        string           `json:"survey_id"`
	QuestionnaireID string           `json:"questionnaire_id"`
	Version         int              `json:"version"`
	Questions       *catalog.Catalog `json:"questions"`
}

type DeleteResponsesResponse struct {
	Deleted int64 `json:"deleted"`
}

// Domain types

type Questionnaire struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	Language    string    `json:"language"`
	FormXML     string    `json:"-"` // served by GET /questionnaires/{id}/form
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasForm reports whether a form definition has been uploaded.
func (q Questionnaire) HasForm() bool {
	return q.FormXML != ""
}

type Survey struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Owner           string     `json:"owner"`
	QuestionnaireID string     `json:"questionnaire_id,omitempty"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Open reports whether the survey accepts responses at t.
func (s Survey) Open(t time.Time) bool {
	if s.StartsAt != nil && t.Before(*s.StartsAt) {
		return false
	}
	if s.EndsAt != nil && t.After(*s.EndsAt) {
		return false
	}
	return true
}

type Submission struct {
	ID           string    `json:"id"`
	SurveyID     string    `json:"survey_id"`
	RespondentID string    `json:"respondent_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IPHash       *string   `json:"-"` // Never expose in JSON
	UserAgent    *string   `json:"-"` // Never expose in JSON
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse carries the details of a rejected submission.
type ValidationErrorResponse struct {
	Error      string  `json:"error"`
	Message    string  `json:"message"`
	Code       string  `json:"code"`
	QuestionID string  `json:"question_id,omitempty"`
	Value      *string `json:"value,omitempty"`
	Expected   string  `json:"expected,omitempty"`
	Min        *int    `json:"min,omitempty"`
	Max        *int    `json:"max,omitempty"`
}
