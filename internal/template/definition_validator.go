package template

import (
	"context"
	"fmt"
	"regexp"

	"orkg/internal/graph"
)

// DefinitionValidator checks a property definition before it is written.
type DefinitionValidator struct {
	schema graph.SchemaStore
}

func NewDefinitionValidator(schema graph.SchemaStore) *DefinitionValidator {
	return &DefinitionValidator{schema: schema}
}

func (v *DefinitionValidator) Validate(ctx context.Context, def PropertyDefinition) error {
	s := def.shape()
	if !graph.ValidLabel(s.Label) {
		return graph.Errorf(graph.ErrInvalidLabel, "invalid property label %q", s.Label)
	}
	if s.Placeholder != nil && !graph.ValidLabel(*s.Placeholder) {
		return graph.Errorf(graph.ErrInvalidPlaceholder, "invalid placeholder for property %q", s.Label)
	}
	if !graph.ValidDescription(s.Description) {
		return graph.Errorf(graph.ErrInvalidDescription, "invalid description for property %q", s.Label)
	}
	if s.MinCount < 0 {
		return graph.Errorf(graph.ErrInvalidMinCount, "min count %d of property %q must not be negative", s.MinCount, s.Label)
	}
	if s.MaxCount != nil {
		if *s.MaxCount < 0 {
			return graph.Errorf(graph.ErrInvalidMaxCount, "max count %d of property %q must not be negative", *s.MaxCount, s.Label)
		}
		if s.MinCount > *s.MaxCount {
			return graph.Errorf(graph.ErrInvalidCardinality, "min count %d exceeds max count %d of property %q", s.MinCount, *s.MaxCount, s.Label)
		}
	}
	if _, ok, err := v.schema.FindPredicateByID(ctx, s.Path); err != nil {
		return fmt.Errorf("find predicate: %w", err)
	} else if !ok {
		return graph.Errorf(graph.ErrPredicateNotFound, "predicate %q not found", s.Path)
	}

	switch d := def.(type) {
	case UntypedPropertyDefinition:
		return nil
	case StringLiteralPropertyDefinition:
		if err := v.requireClass(ctx, d.Datatype); err != nil {
			return err
		}
		if d.Datatype != graph.ClassString {
			return graph.Errorf(graph.ErrInvalidDatatype, "string property %q needs datatype %q, got %q", s.Label, graph.ClassString, d.Datatype)
		}
		if d.Pattern != nil {
			if _, err := regexp.Compile(*d.Pattern); err != nil {
				return graph.Errorf(graph.ErrInvalidRegexPattern, "invalid pattern %q of property %q: %v", *d.Pattern, s.Label, err)
			}
		}
		return nil
	case NumberLiteralPropertyDefinition:
		if err := v.requireClass(ctx, d.Datatype); err != nil {
			return err
		}
		if !graph.IsNumberClass(d.Datatype) {
			return graph.Errorf(graph.ErrInvalidDatatype, "number property %q has non-numeric datatype %q", s.Label, d.Datatype)
		}
		return validateBounds(s.Label, d)
	case OtherLiteralPropertyDefinition:
		if err := v.requireClass(ctx, d.Datatype); err != nil {
			return err
		}
		if d.Datatype == graph.ClassString || graph.IsNumberClass(d.Datatype) {
			return graph.Errorf(graph.ErrInvalidDatatype, "datatype %q of property %q needs a string or number property", d.Datatype, s.Label)
		}
		return nil
	case ResourcePropertyDefinition:
		return v.requireClass(ctx, d.Class)
	}
	return fmt.Errorf("unsupported property definition %T", def)
}

func (v *DefinitionValidator) requireClass(ctx context.Context, id graph.ThingID) error {
	_, ok, err := v.schema.FindClassByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find class: %w", err)
	}
	if !ok {
		return graph.Errorf(graph.ErrClassNotFound, "class %q not found", id)
	}
	return nil
}

func validateBounds(label string, d NumberLiteralPropertyDefinition) error {
	for _, bound := range []*RealNumber{d.MinInclusive, d.MaxInclusive} {
		if bound != nil && !bound.Fits(d.Datatype) {
			return graph.Errorf(graph.ErrInvalidBounds, "bound %q of property %q is not a valid %s", *bound, label, d.Datatype)
		}
	}
	if d.MinInclusive != nil && d.MaxInclusive != nil {
		if c, _ := CompareNumbers(d.Datatype, string(*d.MinInclusive), string(*d.MaxInclusive)); c > 0 {
			return graph.Errorf(graph.ErrInvalidBounds, "min inclusive %s exceeds max inclusive %s of property %q", *d.MinInclusive, *d.MaxInclusive, label)
		}
	}
	return nil
}
