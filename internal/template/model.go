package template

import (
	"math/big"
	"time"

	"orkg/internal/graph"
)

// RealNumber is a numeric bound kept in its lexical form. It is interpreted
// according to the datatype of the property it bounds.
type RealNumber string

func (n RealNumber) Integer() (*big.Int, bool) { return graph.ParseInteger(string(n)) }

func (n RealNumber) Decimal() (*big.Rat, bool) { return graph.ParseDecimal(string(n)) }

func (n RealNumber) Float() (float64, bool) { return graph.ParseFloat(string(n)) }

// Fits reports whether n parses as a number of the given datatype class.
func (n RealNumber) Fits(datatype graph.ThingID) bool {
	switch datatype {
	case graph.ClassInteger:
		_, ok := n.Integer()
		return ok
	case graph.ClassDecimal:
		_, ok := n.Decimal()
		return ok
	case graph.ClassFloat:
		_, ok := n.Float()
		return ok
	}
	return false
}

// CompareNumbers compares two labels as numbers of the given datatype class.
// Integers and decimals compare exactly, floats as float64.
func CompareNumbers(datatype graph.ThingID, a, b string) (int, bool) {
	switch datatype {
	case graph.ClassInteger:
		x, ok1 := graph.ParseInteger(a)
		y, ok2 := graph.ParseInteger(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		return x.Cmp(y), true
	case graph.ClassDecimal:
		x, ok1 := graph.ParseDecimal(a)
		y, ok2 := graph.ParseDecimal(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		return x.Cmp(y), true
	case graph.ClassFloat:
		x, ok1 := graph.ParseFloat(a)
		y, ok2 := graph.ParseFloat(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// Shape holds the fields every property definition carries.
type Shape struct {
	Label       string        `json:"label"`
	Placeholder *string       `json:"placeholder,omitempty"`
	Description *string       `json:"description,omitempty"`
	MinCount    int           `json:"min_count"`
	MaxCount    *int          `json:"max_count,omitempty"`
	Path        graph.ThingID `json:"path"`
}

// PropertyDefinition is one of UntypedPropertyDefinition,
// StringLiteralPropertyDefinition, NumberLiteralPropertyDefinition,
// OtherLiteralPropertyDefinition or ResourcePropertyDefinition.
type PropertyDefinition interface {
	shape() Shape
	isPropertyDefinition()
}

type UntypedPropertyDefinition struct {
	Shape
}

type StringLiteralPropertyDefinition struct {
	Shape
	Datatype graph.ThingID `json:"datatype"`
	Pattern  *string       `json:"pattern,omitempty"`
}

type NumberLiteralPropertyDefinition struct {
	Shape
	Datatype     graph.ThingID `json:"datatype"`
	MinInclusive *RealNumber   `json:"min_inclusive,omitempty"`
	MaxInclusive *RealNumber   `json:"max_inclusive,omitempty"`
}

type OtherLiteralPropertyDefinition struct {
	Shape
	Datatype graph.ThingID `json:"datatype"`
}

type ResourcePropertyDefinition struct {
	Shape
	Class graph.ThingID `json:"class"`
}

func (d UntypedPropertyDefinition) shape() Shape       { return d.Shape }
func (d StringLiteralPropertyDefinition) shape() Shape { return d.Shape }
func (d NumberLiteralPropertyDefinition) shape() Shape { return d.Shape }
func (d OtherLiteralPropertyDefinition) shape() Shape  { return d.Shape }
func (d ResourcePropertyDefinition) shape() Shape      { return d.Shape }

func (UntypedPropertyDefinition) isPropertyDefinition()       {}
func (StringLiteralPropertyDefinition) isPropertyDefinition() {}
func (NumberLiteralPropertyDefinition) isPropertyDefinition() {}
func (OtherLiteralPropertyDefinition) isPropertyDefinition()  {}
func (ResourcePropertyDefinition) isPropertyDefinition()      {}

// ShapeOf returns the common fields of a definition.
func ShapeOf(d PropertyDefinition) Shape { return d.shape() }

// Property is a persisted property shape of a template.
type Property struct {
	ID         graph.ThingID       `json:"id"`
	Order      int                 `json:"order"`
	CreatedAt  time.Time           `json:"created_at"`
	CreatedBy  graph.ContributorID `json:"created_by"`
	Definition PropertyDefinition  `json:"-"`
}

func (p Property) Label() string { return p.Definition.shape().Label }

func (p Property) Path() graph.ThingID { return p.Definition.shape().Path }

// Matches reports whether the property already persists def at position
// order, in which case an update would be a no-op.
func (p Property) Matches(def PropertyDefinition, order int) bool {
	return p.Order == order && Equal(p.Definition, def)
}

// Equal compares two definitions field by field.
func Equal(a, b PropertyDefinition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !equalShape(a.shape(), b.shape()) {
		return false
	}
	switch x := a.(type) {
	case UntypedPropertyDefinition:
		_, ok := b.(UntypedPropertyDefinition)
		return ok
	case StringLiteralPropertyDefinition:
		y, ok := b.(StringLiteralPropertyDefinition)
		return ok && x.Datatype == y.Datatype && equalPtr(x.Pattern, y.Pattern)
	case NumberLiteralPropertyDefinition:
		y, ok := b.(NumberLiteralPropertyDefinition)
		return ok && x.Datatype == y.Datatype && equalPtr(x.MinInclusive, y.MinInclusive) && equalPtr(x.MaxInclusive, y.MaxInclusive)
	case OtherLiteralPropertyDefinition:
		y, ok := b.(OtherLiteralPropertyDefinition)
		return ok && x.Datatype == y.Datatype
	case ResourcePropertyDefinition:
		y, ok := b.(ResourcePropertyDefinition)
		return ok && x.Class == y.Class
	}
	return false
}

func equalShape(a, b Shape) bool {
	return a.Label == b.Label &&
		equalPtr(a.Placeholder, b.Placeholder) &&
		equalPtr(a.Description, b.Description) &&
		a.MinCount == b.MinCount &&
		equalPtr(a.MaxCount, b.MaxCount) &&
		a.Path == b.Path
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// datatypeOf returns the sh:datatype of a literal definition.
func datatypeOf(d PropertyDefinition) (graph.ThingID, bool) {
	switch x := d.(type) {
	case StringLiteralPropertyDefinition:
		return x.Datatype, true
	case NumberLiteralPropertyDefinition:
		return x.Datatype, true
	case OtherLiteralPropertyDefinition:
		return x.Datatype, true
	}
	return "", false
}

// literalDatatype is the xsd datatype used for literals of a datatype class.
func literalDatatype(class graph.ThingID) string {
	if dt, ok := graph.DatatypeForClass(class); ok {
		return dt.Prefixed
	}
	return graph.XSDString.Prefixed
}
