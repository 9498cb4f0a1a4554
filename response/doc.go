// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package response validates respondent answers against a question catalog.

# Validation

Validate checks a submitted AnswerSet against a catalog and returns the
accepted answers:

	validated, err := response.Validate(cat, response.AnswerSet{"Q1": "1"})
	if err != nil {
		var verr *response.Error
		if errors.As(err, &verr) {
			// verr.Code, verr.QuestionID, verr.Value
		}
	}

Rules per question kind:

  - Dichotomous: exactly "0" or "1"
  - OrdinalScale: a base-10 integer within [min, max], both inclusive
  - FreeText: any value

Validation stops at the first failure and never returns a partial result.
Failures are reported in a fixed order: unknown question ids (sorted), then
submitted answers in catalog order, then missing required questions in
catalog order.

# Rows

Rows turns a validated set into the storage rows of one submission,
one row per answered question. Unanswered optional questions produce no row.
*/
package response
