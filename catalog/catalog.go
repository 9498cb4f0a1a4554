// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrDuplicateQuestionID = errors.New("duplicate question id")

// DuplicateQuestionIDError reports two question pages sharing an id.
type DuplicateQuestionIDError struct {
	ID string
}

func (e *DuplicateQuestionIDError) Error() string {
	return fmt.Sprintf("duplicate question id %q", e.ID)
}

func (e *DuplicateQuestionIDError) Is(target error) bool {
	return target == ErrDuplicateQuestionID
}

// Catalog maps question ids to their definitions and remembers the order in
// which the form declared them. It is never modified after construction.
type Catalog struct {
	questions []Question
	index     map[string]int
}

// New builds a catalog from questions in declaration order.
func New(questions ...Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for _, q := range questions {
		if _, dup := c.index[q.ID]; dup {
			return nil, &DuplicateQuestionIDError{ID: q.ID}
		}
		c.index[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}
	return c, nil
}

// Lookup returns the question with the given id.
func (c *Catalog) Lookup(id string) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Questions returns the questions in declaration order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// IDs returns the question ids in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.questions))
	for i, q := range c.questions {
		ids[i] = q.ID
	}
	return ids
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.questions)
}
