package template

import (
	"regexp"

	"orkg/internal/graph"
	"orkg/internal/things"
)

// ValueValidator checks candidate objects of an instance against a
// property shape.
type ValueValidator struct{}

func NewValueValidator() *ValueValidator { return &ValueValidator{} }

func (ValueValidator) ValidateCardinality(p Property, values []graph.ThingID) error {
	s := p.Definition.shape()
	if len(values) < s.MinCount {
		return graph.Errorf(graph.ErrMissingPropertyValues,
			"missing values for property %q with predicate %q: min %d, found %d", p.ID, s.Path, s.MinCount, len(values))
	}
	if s.MaxCount != nil && len(values) > *s.MaxCount {
		return graph.Errorf(graph.ErrTooManyPropertyValues,
			"too many values for property %q with predicate %q: max %d, found %d", p.ID, s.Path, *s.MaxCount, len(values))
	}
	return nil
}

// ValidateObject checks a single resolved object id against the property.
func (ValueValidator) ValidateObject(p Property, id graph.ThingID, object things.Resolution) error {
	switch d := p.Definition.(type) {
	case UntypedPropertyDefinition:
		return nil
	case ResourcePropertyDefinition:
		return validateResourceObject(p.ID, d, id, object)
	case StringLiteralPropertyDefinition:
		label, err := literalLabel(p.ID, d.Datatype, id, object)
		if err != nil {
			return err
		}
		if d.Pattern != nil {
			re, err := regexp.Compile(*d.Pattern)
			if err != nil {
				return graph.Errorf(graph.ErrInvalidRegexPattern, "invalid pattern %q of property %q", *d.Pattern, p.ID)
			}
			if !re.MatchString(label) {
				return graph.Errorf(graph.ErrLabelDoesNotMatchPattern, "label %q of %q does not match pattern %q of property %q", label, id, *d.Pattern, p.ID)
			}
		}
		return nil
	case NumberLiteralPropertyDefinition:
		label, err := literalLabel(p.ID, d.Datatype, id, object)
		if err != nil {
			return err
		}
		if d.MinInclusive != nil {
			if c, ok := CompareNumbers(d.Datatype, label, string(*d.MinInclusive)); ok && c < 0 {
				return graph.Errorf(graph.ErrNumberTooLow, "number %s of %q must be at least %s for property %q", label, id, *d.MinInclusive, p.ID)
			}
		}
		if d.MaxInclusive != nil {
			if c, ok := CompareNumbers(d.Datatype, label, string(*d.MaxInclusive)); ok && c > 0 {
				return graph.Errorf(graph.ErrNumberTooHigh, "number %s of %q must be at most %s for property %q", label, id, *d.MaxInclusive, p.ID)
			}
		}
		return nil
	case OtherLiteralPropertyDefinition:
		_, err := literalLabel(p.ID, d.Datatype, id, object)
		return err
	}
	return nil
}

func validateResourceObject(propertyID graph.ThingID, d ResourcePropertyDefinition, id graph.ThingID, object things.Resolution) error {
	def, pending := object.Pending()
	thing, _ := object.Persisted()
	switch d.Class {
	case graph.ClassClass:
		_, pendingClass := def.(things.ClassDefinition)
		_, class := thing.(graph.Class)
		if !pendingClass && !class {
			return graph.Errorf(graph.ErrObjectIsNotAClass, "object %q of property %q is not a class", id, propertyID)
		}
		return nil
	case graph.ClassPredicate:
		_, pendingPredicate := def.(things.PredicateDefinition)
		_, predicate := thing.(graph.Predicate)
		if !pendingPredicate && !predicate {
			return graph.Errorf(graph.ErrObjectIsNotAPredicate, "object %q of property %q is not a predicate", id, propertyID)
		}
		return nil
	case graph.ClassList:
		_, pendingList := def.(things.ListDefinition)
		r, resource := thing.(graph.Resource)
		if !pendingList && !(resource && r.HasClass(graph.ClassList)) {
			return graph.Errorf(graph.ErrObjectIsNotAList, "object %q of property %q is not a list", id, propertyID)
		}
		return nil
	}
	if object.IsLiteral() {
		return graph.Errorf(graph.ErrObjectMustNotBeALiteral, "object %q of property %q must not be a literal", id, propertyID)
	}
	var classes []graph.ThingID
	if pending {
		switch x := def.(type) {
		case things.ResourceDefinition:
			classes = x.Classes
		case things.ListDefinition:
			classes = []graph.ThingID{graph.ClassList}
		}
	} else if r, ok := thing.(graph.Resource); ok {
		classes = r.Classes
	}
	for _, c := range classes {
		if c == d.Class {
			return nil
		}
	}
	return graph.Errorf(graph.ErrResourceIsNotAnInstanceOfTargetClass, "object %q of property %q is not an instance of %q", id, propertyID, d.Class)
}

// literalLabel returns the label of a literal object after checking it is a
// valid value of the datatype class.
func literalLabel(propertyID, datatype, id graph.ThingID, object things.Resolution) (string, error) {
	var label string
	if def, ok := object.Pending(); ok {
		l, isLiteral := def.(things.LiteralDefinition)
		if !isLiteral {
			return "", graph.Errorf(graph.ErrObjectIsNotALiteral, "object %q of property %q is not a literal", id, propertyID)
		}
		label = l.Label
	} else {
		thing, _ := object.Persisted()
		l, isLiteral := thing.(graph.Literal)
		if !isLiteral {
			return "", graph.Errorf(graph.ErrObjectIsNotALiteral, "object %q of property %q is not a literal", id, propertyID)
		}
		label = l.Label
	}
	if dt, known := graph.DatatypeForClass(datatype); known && !dt.Accepts(label) {
		return "", graph.Errorf(graph.ErrInvalidLiteral, "label %q of %q is not a valid %s", label, id, dt.Prefixed)
	}
	return label, nil
}
