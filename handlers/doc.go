// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Survey API.

# Handler Types

Each handler is a struct with store, service and config dependencies:

  - QuestionnaireHandler: Questionnaires and their form definitions
  - SurveyHandler: Surveys, their questionnaire and question catalog
  - ResponseHandler: Submission, export and deletion of responses

Handlers are created via constructor functions:

	svc := survey.NewService(store, nil)
	surveyHandler := handlers.NewSurveyHandler(store, svc, cfg)

# Owner Operations

Creating a questionnaire or survey returns an admin key. Changing a form,
reassigning a survey's questionnaire, exporting and deleting responses
require it in the X-Admin-Key header. Keys are scoped: a questionnaire key
never unlocks a survey.

	PUT    /questionnaires/{id}/form     → UploadForm (XML body)
	PUT    /surveys/{id}/questionnaire   → SetQuestionnaire (403 while responses exist)
	GET    /surveys/{id}/responses       → ExportResponses (text/csv)
	DELETE /surveys/{id}/responses       → DeleteResponses

# Submitting Responses

	POST /surveys/{id}/responses → SubmitResponse

The body is a JSON object of answers or, with an XML content type, a
questionnaire answer document. X-Respondent-ID names the respondent;
without it every submission gets its own anonymous id. Submissions outside
the survey's start and end time are refused with 403, invalid ones with
400 and a machine-readable code, repeated ones with 409.
*/
package handlers
