// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-survey/form"
)

// Extract builds the catalog of a loaded questionnaire form.
func Extract(doc *form.Document) (*Catalog, error) {
	var questions []Question

	for _, page := range doc.Pages() {
		if !page.IsQuestion() {
			continue
		}

		rule, err := buildRule(page)
		if err != nil {
			return nil, err
		}

		id, _ := page.Attr("qid")
		name, _ := page.Attr("name")
		required, _ := page.Attr("required")

		questions = append(questions, Question{
			ID:           id,
			Name:         name,
			Instructions: page.Instructions,
			Required:     required == "true",
			Rule:         rule,
		})
	}

	return New(questions...)
}

func buildRule(page form.Page) (Rule, error) {
	minLabel, _ := page.Attr("minlabel")
	maxLabel, _ := page.Attr("maxlabel")

	switch page.Type {
	case form.DichotomousQuestionPage:
		return DichotomousRule{MinLabel: minLabel, MaxLabel: maxLabel}, nil

	case form.OrdinalScaleQuestionPage:
		lo, err := intAttr(page, "minval")
		if err != nil {
			return nil, err
		}
		hi, err := intAttr(page, "maxval")
		if err != nil {
			return nil, err
		}
		if lo > hi {
			qid, _ := page.Attr("qid")
			return nil, fmt.Errorf("question %s: minval %d exceeds maxval %d", qid, lo, hi)
		}
		return OrdinalScaleRule{Min: lo, Max: hi, MinLabel: minLabel, MaxLabel: maxLabel}, nil

	case form.FreeTextQuestionPage:
		return FreeTextRule{}, nil
	}

	return nil, fmt.Errorf("unsupported page type %q", page.Type)
}

func intAttr(page form.Page, name string) (int, error) {
	raw, ok := page.Attr(name)
	if !ok {
		qid, _ := page.Attr("qid")
		return 0, fmt.Errorf("question %s: missing %s", qid, name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		qid, _ := page.Attr("qid")
		return 0, fmt.Errorf("question %s: %s: %w", qid, name, err)
	}
	return v, nil
}
