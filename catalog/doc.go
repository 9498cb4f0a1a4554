// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog derives per-question validation rules from a questionnaire form.

# Extraction

	cat, err := catalog.Extract(doc)

Extract walks the question pages of a loaded form in document order and
builds one Question per page. The page type selects the Rule:

  - DichotomousRule: answers "0" or "1"; labels are display only
  - OrdinalScaleRule: integer answers in [Min, Max]
  - FreeTextRule: any text

A question is required only when its required attribute is the literal
"true". Two pages with the same qid make the form unusable and Extract
returns *DuplicateQuestionIDError.

# Caching

A Catalog is immutable and safe to share. Cache keeps one catalog per form id
and version so submissions do not re-walk the form:

	cat, err := cache.Get(catalog.Key{FormID: id, Version: v}, formXML)

Uploading a new form version changes the key; Invalidate drops the old
versions.
*/
package catalog
