// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, svc, cfg)

# Endpoints

Health:

	GET /health

Questionnaires:

	POST /questionnaires           - Create questionnaire (returns admin key)
	GET  /questionnaires           - List questionnaires
	GET  /questionnaires/{id}      - Questionnaire details
	PUT  /questionnaires/{id}/form - Upload form definition (X-Admin-Key)
	GET  /questionnaires/{id}/form - Download form definition

Surveys:

	POST /surveys                    - Create survey (returns admin key)
	GET  /surveys                    - List surveys
	GET  /surveys/{id}               - Survey details
	PUT  /surveys/{id}/questionnaire - Assign questionnaire (X-Admin-Key)
	GET  /surveys/{id}/questions     - Question catalog

Responses:

	POST   /surveys/{id}/responses - Submit answers
	GET    /surveys/{id}/responses - Export as CSV (X-Admin-Key)
	DELETE /surveys/{id}/responses - Delete all responses (X-Admin-Key)

All handlers share the store, the survey service with its catalog cache,
and the configuration.
*/
package router
