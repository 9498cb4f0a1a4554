// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package form

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed questionnaire.cue
var schemaSource string

// schema holds the compiled questionnaire definitions. A cue.Context is not
// safe for concurrent use, so every use goes through mu.
type schema struct {
	mu   sync.Mutex
	ctx  *cue.Context
	root cue.Value
}

var (
	schemaOnce sync.Once
	compiled   *schema
	compileErr error
)

func loadSchema() (*schema, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaSource, cue.Filename("questionnaire.cue"))
		if err := v.Err(); err != nil {
			compileErr = fmt.Errorf("failed to compile questionnaire schema: %w", err)
			return
		}
		compiled = &schema{ctx: ctx, root: v}
	})
	return compiled, compileErr
}

func (s *schema) validate(tree map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := "#Document"
	switch tree["root"] {
	case RoleQuestionnaire:
		def = "#Questionnaire"
	case RoleAnswer:
		def = "#QuestionnaireAnswer"
	}

	v := s.root.LookupPath(cue.ParsePath(def)).Unify(s.ctx.Encode(tree))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &SchemaViolationError{
			Detail: strings.TrimSpace(cueerrors.Details(err, nil)),
			Err:    err,
		}
	}
	return nil
}

// Load parses raw as a questionnaire or answer document and validates it
// against the questionnaire schema.
func Load(raw []byte) (*Document, error) {
	root, err := parse(raw)
	if err != nil {
		return nil, err
	}

	s, err := loadSchema()
	if err != nil {
		return nil, err
	}
	if err := s.validate(encodeTree(root)); err != nil {
		return nil, err
	}

	return newDocument(root), nil
}

// LoadForm loads a questionnaire form. A valid answer document is rejected
// with ErrWrongDocumentRole.
func LoadForm(raw []byte) (*Document, error) {
	doc, err := Load(raw)
	if err != nil {
		return nil, err
	}
	if doc.root != RoleQuestionnaire {
		return nil, fmt.Errorf("%w: document element must be qu:%s, got qu:%s",
			ErrWrongDocumentRole, RoleQuestionnaire, doc.root)
	}
	return doc, nil
}

// LoadAnswers loads an answer document and returns its answers keyed by
// question id. Values are trimmed of surrounding whitespace.
func LoadAnswers(raw []byte) (map[string]string, error) {
	doc, err := Load(raw)
	if err != nil {
		return nil, err
	}
	if doc.root != RoleAnswer {
		return nil, fmt.Errorf("%w: document element must be qu:%s, got qu:%s",
			ErrWrongDocumentRole, RoleAnswer, doc.root)
	}

	answers := make(map[string]string, len(doc.answers))
	for _, a := range doc.answers {
		if _, dup := answers[a.QuestionID]; dup {
			return nil, &SchemaViolationError{
				Detail: fmt.Sprintf("question %s answered more than once", a.QuestionID),
			}
		}
		answers[a.QuestionID] = a.Value
	}
	return answers, nil
}

// parse checks well-formedness and returns the element tree.
func parse(raw []byte) (node, error) {
	var root node

	d := xml.NewDecoder(bytes.NewReader(raw))

	var start xml.StartElement
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return node{}, fmt.Errorf("%w: no root element", ErrMalformedDocument)
		}
		if err != nil {
			return node{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			start = se
			break
		}
		if cd, ok := tok.(xml.CharData); ok && len(bytes.TrimSpace(cd)) > 0 {
			return node{}, fmt.Errorf("%w: text before root element", ErrMalformedDocument)
		}
	}

	if err := d.DecodeElement(&root, &start); err != nil {
		return node{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	// Only whitespace, comments and processing instructions may follow the root.
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return node{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return node{}, fmt.Errorf("%w: content after root element", ErrMalformedDocument)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return node{}, fmt.Errorf("%w: content after root element", ErrMalformedDocument)
			}
		}
	}

	return root, nil
}
