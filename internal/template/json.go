package template

import (
	"encoding/json"
	"fmt"

	"orkg/internal/graph"
)

const (
	KindUntyped       = "untyped"
	KindStringLiteral = "string_literal"
	KindNumberLiteral = "number_literal"
	KindOtherLiteral  = "other_literal"
	KindResource      = "resource"
)

// KindOf names the variant of a definition.
func KindOf(d PropertyDefinition) string {
	switch d.(type) {
	case UntypedPropertyDefinition:
		return KindUntyped
	case StringLiteralPropertyDefinition:
		return KindStringLiteral
	case NumberLiteralPropertyDefinition:
		return KindNumberLiteral
	case OtherLiteralPropertyDefinition:
		return KindOtherLiteral
	case ResourcePropertyDefinition:
		return KindResource
	}
	return ""
}

type definitionJSON struct {
	Kind string `json:"kind"`
	Shape
	Datatype     graph.ThingID `json:"datatype,omitempty"`
	Pattern      *string       `json:"pattern,omitempty"`
	MinInclusive *RealNumber   `json:"min_inclusive,omitempty"`
	MaxInclusive *RealNumber   `json:"max_inclusive,omitempty"`
	Class        graph.ThingID `json:"class,omitempty"`
}

// Definitions is an ordered list of property definitions with a JSON form
// that carries an explicit kind per element.
type Definitions []PropertyDefinition

// A nil list encodes as null so that "unchanged" survives a round trip.
func (ds Definitions) MarshalJSON() ([]byte, error) {
	if ds == nil {
		return []byte("null"), nil
	}
	out := make([]definitionJSON, 0, len(ds))
	for _, d := range ds {
		j := definitionJSON{Kind: KindOf(d), Shape: d.shape()}
		switch x := d.(type) {
		case StringLiteralPropertyDefinition:
			j.Datatype, j.Pattern = x.Datatype, x.Pattern
		case NumberLiteralPropertyDefinition:
			j.Datatype, j.MinInclusive, j.MaxInclusive = x.Datatype, x.MinInclusive, x.MaxInclusive
		case OtherLiteralPropertyDefinition:
			j.Datatype = x.Datatype
		case ResourcePropertyDefinition:
			j.Class = x.Class
		}
		out = append(out, j)
	}
	return json.Marshal(out)
}

func (ds *Definitions) UnmarshalJSON(data []byte) error {
	var in []definitionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in == nil {
		*ds = nil
		return nil
	}
	out := make(Definitions, 0, len(in))
	for i, j := range in {
		switch j.Kind {
		case KindUntyped:
			out = append(out, UntypedPropertyDefinition{Shape: j.Shape})
		case KindStringLiteral:
			out = append(out, StringLiteralPropertyDefinition{Shape: j.Shape, Datatype: j.Datatype, Pattern: j.Pattern})
		case KindNumberLiteral:
			out = append(out, NumberLiteralPropertyDefinition{Shape: j.Shape, Datatype: j.Datatype, MinInclusive: j.MinInclusive, MaxInclusive: j.MaxInclusive})
		case KindOtherLiteral:
			out = append(out, OtherLiteralPropertyDefinition{Shape: j.Shape, Datatype: j.Datatype})
		case KindResource:
			out = append(out, ResourcePropertyDefinition{Shape: j.Shape, Class: j.Class})
		default:
			return fmt.Errorf("property %d: unknown kind %q", i, j.Kind)
		}
	}
	*ds = out
	return nil
}
