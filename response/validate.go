// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"sort"
	"strconv"

	"github.com/danielhkuo/quickly-survey/catalog"
)

// AnswerSet maps question ids to raw submitted values.
type AnswerSet map[string]string

// Validated is an AnswerSet that passed validation. Only questions that were
// answered are present.
type Validated map[string]string

// Validate checks answers against cat. The catalog is only read.
func Validate(cat *catalog.Catalog, answers AnswerSet) (Validated, error) {
	var unknown []string
	for qid := range answers {
		if _, ok := cat.Lookup(qid); !ok {
			unknown = append(unknown, qid)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &Error{Code: CodeUnknownQuestion, QuestionID: unknown[0], Value: answers[unknown[0]]}
	}

	result := make(Validated, len(answers))
	answered := make(map[string]struct{}, len(answers))

	questions := cat.Questions()
	for _, q := range questions {
		raw, ok := answers[q.ID]
		if !ok {
			continue
		}
		if err := check(q, raw); err != nil {
			return nil, err
		}
		answered[q.ID] = struct{}{}
		result[q.ID] = raw
	}

	for _, q := range questions {
		if _, ok := answered[q.ID]; ok || !q.Required {
			continue
		}
		return nil, &Error{Code: CodeMissingRequiredQuestion, QuestionID: q.ID}
	}

	return result, nil
}

func check(q catalog.Question, raw string) error {
	switch r := q.Rule.(type) {
	case catalog.DichotomousRule:
		if raw != "0" && raw != "1" {
			return &Error{Code: CodeOutOfDomain, QuestionID: q.ID, Value: raw, Expected: "0 or 1"}
		}

	case catalog.OrdinalScaleRule:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return &Error{Code: CodeNotAnInteger, QuestionID: q.ID, Value: raw}
		}
		if v < r.Min || v > r.Max {
			return &Error{Code: CodeOutOfRange, QuestionID: q.ID, Value: raw, Min: r.Min, Max: r.Max}
		}

	case catalog.FreeTextRule:
	}
	return nil
}
