// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export aggregates stored response rows into one row per respondent
and renders them as delimited text.

# Projection

BuildProjection groups the rows of one survey by respondent. Each projected
row has one cell per catalog question, in catalog order:

	rows, err := export.BuildProjection(surveyID, cat, stored)

Dichotomous and OrdinalScale values become integers; FreeText values stay
text. Questions a respondent skipped produce empty cells. Respondents
appear in the order of their first stored row.

# Delimited text

ToDelimitedText writes a header line (respondentId, then the question ids)
followed by one line per respondent:

	respondentId,Q1
	r1,1
	r2,0

Fields containing the separator, a double quote or a line break are quoted
as in RFC 4180. Lines end with CRLF and trailing whitespace of the whole
output is removed.
*/
package export
