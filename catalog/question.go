// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"encoding/json"
	"fmt"
)

// Kind is the question archetype.
type Kind int

const (
	Dichotomous Kind = iota + 1
	OrdinalScale
	FreeText
)

func (k Kind) String() string {
	switch k {
	case Dichotomous:
		return "Dichotomous"
	case OrdinalScale:
		return "OrdinalScale"
	case FreeText:
		return "FreeText"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Numeric reports whether answers of this kind are integers.
func (k Kind) Numeric() bool {
	return k == Dichotomous || k == OrdinalScale
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Rule is the value-domain constraint of a question. Its concrete type is
// one of DichotomousRule, OrdinalScaleRule or FreeTextRule.
type Rule interface {
	Kind() Kind
	rule()
}

type DichotomousRule struct {
	MinLabel string
	MaxLabel string
}

// OrdinalScaleRule accepts integers in [Min, Max], both inclusive.
type OrdinalScaleRule struct {
	Min      int
	Max      int
	MinLabel string
	MaxLabel string
}

type FreeTextRule struct{}

func (DichotomousRule) Kind() Kind  { return Dichotomous }
func (OrdinalScaleRule) Kind() Kind { return OrdinalScale }
func (FreeTextRule) Kind() Kind     { return FreeText }

func (DichotomousRule) rule()  {}
func (OrdinalScaleRule) rule() {}
func (FreeTextRule) rule()     {}

// Question is the definition of one question page.
type Question struct {
	ID           string
	Name         string
	Instructions string
	Required     bool
	Rule         Rule
}

// Kind returns the kind of the question's rule.
func (q Question) Kind() Kind {
	if q.Rule == nil {
		return 0
	}
	return q.Rule.Kind()
}

// questionJSON is the wire shape used by the questions endpoint.
type questionJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
	Required     bool   `json:"required"`
	Kind         Kind   `json:"kind"`
	MinValue     *int   `json:"min_value,omitempty"`
	MaxValue     *int   `json:"max_value,omitempty"`
	MinLabel     string `json:"min_label,omitempty"`
	MaxLabel     string `json:"max_label,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		ID:           q.ID,
		Name:         q.Name,
		Instructions: q.Instructions,
		Required:     q.Required,
		Kind:         q.Kind(),
	}

	switch r := q.Rule.(type) {
	case DichotomousRule:
		out.MinLabel, out.MaxLabel = r.MinLabel, r.MaxLabel
	case OrdinalScaleRule:
		out.MinValue, out.MaxValue = &r.Min, &r.Max
		out.MinLabel, out.MaxLabel = r.MinLabel, r.MaxLabel
	}

	return json.Marshal(out)
}
