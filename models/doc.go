// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateQuestionnaireRequest: name, description, owner, language
  - CreateSurveyRequest: name, description, owner, questionnaire_id, starts_at, ends_at
  - SetQuestionnaireRequest: questionnaire_id
  - SubmitResponseRequest: question id to raw value

Form definitions and XML answer documents are sent as raw request bodies
and are not modeled here.

# Response Types

Types for JSON responses:

  - CreateQuestionnaireResponse: questionnaire_id, admin_key
  - UploadFormResponse: questionnaire_id, version, questions
  - CreateSurveyResponse: survey_id, admin_key
  - SubmitResponseResponse: submission_id, respondent_id, answered
  - QuestionsResponse: the question catalog of a survey
  - DeleteResponsesResponse: deleted
  - ErrorResponse: error, message
  - ValidationErrorResponse: error, message, code, question_id, value, expected, min, max

# Domain Types

Stored records:

  - Questionnaire: metadata plus the current form definition and its version
  - Survey: metadata, the questionnaire it uses and its response window
  - Submission: one respondent's accepted answer set for a survey
*/
package models
