// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package survey is the entry point to form loading, response validation and
export.

The package functions are pure:

	doc, err := survey.LoadAndValidateForm(raw)
	cat, err := survey.ExtractCatalog(doc)
	validated, err := survey.ValidateSubmission(cat, answers)

Service adds a catalog cache and a response store:

	svc := survey.NewService(store, catalog.NewCache())
	cat, err := svc.Catalog(q.ID, q.Version, []byte(q.FormXML))
	sub, err := svc.Submit(ctx, surveyID, respondentID, cat, answers)
	csv, err := svc.ExportSurveyResponses(ctx, surveyID, cat, export.Options{Separator: ";"})

Submit stores a submission atomically. A repeated submission by the same
respondent fails with db.ErrDuplicateSubmission, which is passed through
unchanged.
*/
package survey
