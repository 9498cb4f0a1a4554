// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package form

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Namespace is the questionnaire namespace shared by forms and answers.
const Namespace = "http://dbis.rwth-aachen.de/mobsos/questionnaire.xsd"

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Root element names
const (
	RoleQuestionnaire = "Questionnaire"
	RoleAnswer        = "QuestionnaireAnswer"
)

// Page types (local part of xsi:type)
const (
	InformationPage          = "InformationPageType"
	DichotomousQuestionPage  = "DichotomousQuestionPageType"
	OrdinalScaleQuestionPage = "OrdinalScaleQuestionPageType"
	FreeTextQuestionPage     = "FreeTextQuestionPageType"
)

// Document is a schema-valid questionnaire or answer document.
// It is never modified after Load returns it.
type Document struct {
	root    string
	attrs   map[string]string
	pages   []Page
	answers []Answer
}

// Page is one qu:Page of a questionnaire form, in document order.
type Page struct {
	Type         string
	Instructions string
	attrs        map[string]string
}

// Answer is one qu:Question element of an answer document.
type Answer struct {
	QuestionID string
	Value      string
}

// Root returns the local name of the root element.
func (d *Document) Root() string { return d.root }

// Name returns the questionnaire name attribute, if any.
func (d *Document) Name() string { return d.attrs["name"] }

// Language returns the questionnaire language attribute, if any.
func (d *Document) Language() string { return d.attrs["language"] }

// Pages returns a copy of the form's pages.
func (d *Document) Pages() []Page {
	pages := make([]Page, len(d.pages))
	copy(pages, d.pages)
	return pages
}

// Answers returns a copy of the answer document's answered questions.
func (d *Document) Answers() []Answer {
	answers := make([]Answer, len(d.answers))
	copy(answers, d.answers)
	return answers
}

// Attr returns a page attribute by local name.
func (p Page) Attr(name string) (string, bool) {
	v, ok := p.attrs[name]
	return v, ok
}

// IsQuestion reports whether the page asks a question.
func (p Page) IsQuestion() bool {
	return p.Type != InformationPage
}

// node is a generic element tree; encoding/xml resolves prefixes into Space.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

// nsScope maps declared prefixes to namespace URIs.
type nsScope map[string]string

func (s nsScope) with(attrs []xml.Attr) nsScope {
	declared := false
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			declared = true
			break
		}
	}
	if !declared {
		return s
	}

	next := make(nsScope, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			next[a.Name.Local] = a.Value
		}
	}
	return next
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}

// attrKey gives unqualified attributes their local name and keeps foreign
// ones qualified, so the closed schema rejects them.
func attrKey(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// encodeTree converts the parsed tree into the value checked by the schema.
// Unexpected elements become extra fields that closed definitions reject.
func encodeTree(root node) map[string]any {
	scope := nsScope{}.with(root.Attrs)

	attrs := map[string]any{}
	for _, a := range root.Attrs {
		if isNamespaceDecl(a) {
			continue
		}
		attrs[attrKey(a.Name)] = a.Value
	}

	v := map[string]any{
		"root":      root.XMLName.Local,
		"namespace": root.XMLName.Space,
		"attrs":     attrs,
	}

	switch root.XMLName.Local {
	case RoleAnswer:
		questions := []any{}
		for _, child := range root.Children {
			if child.XMLName.Space != Namespace || child.XMLName.Local != "Question" {
				v["element:"+child.XMLName.Local] = true
				continue
			}
			questions = append(questions, encodeAnswer(child))
		}
		v["questions"] = questions
	default:
		pages := []any{}
		for _, child := range root.Children {
			if child.XMLName.Space != Namespace || child.XMLName.Local != "Page" {
				v["element:"+child.XMLName.Local] = true
				continue
			}
			pages = append(pages, encodePage(child, scope.with(child.Attrs)))
		}
		v["pages"] = pages
	}

	return v
}

func encodePage(n node, scope nsScope) map[string]any {
	page := map[string]any{}
	attrs := map[string]any{}

	for _, a := range n.Attrs {
		switch {
		case isNamespaceDecl(a):
		case a.Name.Space == xsiNamespace && a.Name.Local == "type":
			page["type"] = resolvePageType(a.Value, scope)
		case a.Name.Space == "" && isIntegerAttr(a.Name.Local):
			if i, err := strconv.ParseInt(strings.TrimSpace(a.Value), 10, 64); err == nil {
				attrs[a.Name.Local] = i
			} else {
				attrs[a.Name.Local] = a.Value
			}
		default:
			attrs[attrKey(a.Name)] = a.Value
		}
	}
	page["attrs"] = attrs

	for _, child := range n.Children {
		if child.XMLName.Space == Namespace && child.XMLName.Local == "Instructions" {
			if _, dup := page["instructions"]; !dup {
				page["instructions"] = strings.TrimSpace(child.Text)
				continue
			}
		}
		page["element:"+child.XMLName.Local] = true
	}

	return page
}

func encodeAnswer(n node) map[string]any {
	attrs := map[string]any{}
	for _, a := range n.Attrs {
		if isNamespaceDecl(a) {
			continue
		}
		attrs[attrKey(a.Name)] = a.Value
	}

	q := map[string]any{
		"attrs": attrs,
		"value": strings.TrimSpace(n.Text),
	}
	for _, child := range n.Children {
		q["element:"+child.XMLName.Local] = true
	}
	return q
}

// resolvePageType returns the local type name when its prefix is bound to
// the questionnaire namespace; anything else is returned as written.
func resolvePageType(value string, scope nsScope) string {
	prefix, local, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		if scope[""] == Namespace {
			return prefix
		}
		return value
	}
	if scope[prefix] != Namespace {
		return value
	}
	return local
}

func isIntegerAttr(name string) bool {
	return name == "minval" || name == "maxval" || name == "defval"
}

// newDocument builds the immutable document from a tree that already passed
// schema validation.
func newDocument(root node) *Document {
	scope := nsScope{}.with(root.Attrs)

	doc := &Document{
		root:  root.XMLName.Local,
		attrs: map[string]string{},
	}
	for _, a := range root.Attrs {
		if !isNamespaceDecl(a) {
			doc.attrs[a.Name.Local] = a.Value
		}
	}

	for _, child := range root.Children {
		switch doc.root {
		case RoleAnswer:
			doc.answers = append(doc.answers, Answer{
				QuestionID: attrValue(child.Attrs, "qid"),
				Value:      strings.TrimSpace(child.Text),
			})
		default:
			page := Page{attrs: map[string]string{}}
			for _, a := range child.Attrs {
				switch {
				case isNamespaceDecl(a):
				case a.Name.Space == xsiNamespace && a.Name.Local == "type":
					page.Type = resolvePageType(a.Value, scope.with(child.Attrs))
				default:
					page.attrs[a.Name.Local] = a.Value
				}
			}
			for _, c := range child.Children {
				if c.XMLName.Local == "Instructions" {
					page.Instructions = strings.TrimSpace(c.Text)
				}
			}
			doc.pages = append(doc.pages, page)
		}
	}

	return doc
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
