// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package form loads questionnaire form documents and answer documents.

# Documents

Both document kinds share the questionnaire namespace:

	http://dbis.rwth-aachen.de/mobsos/questionnaire.xsd

A form is a qu:Questionnaire root holding an ordered list of qu:Page elements.
Each page declares its kind with xsi:type:

  - qu:InformationPageType: display only
  - qu:DichotomousQuestionPageType: answers 0 or 1
  - qu:OrdinalScaleQuestionPageType: integer answers in [minval, maxval]
  - qu:FreeTextQuestionPageType: any text

An answer document is a qu:QuestionnaireAnswer root holding qu:Question
elements, one per answered question id.

# Loading

	doc, err := form.LoadForm(raw)

Load checks well-formedness first (ErrMalformedDocument), then validates the
tree against the embedded CUE schema (*SchemaViolationError). LoadForm and
LoadAnswers additionally check the root element and return
ErrWrongDocumentRole when a valid document has the other role.

Loading is pure. The schema is compiled once per process.
*/
package form
