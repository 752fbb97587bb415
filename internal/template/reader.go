package template

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"orkg/internal/graph"
)

// Template is a NodeShape resource with its property shapes.
type Template struct {
	ID          graph.ThingID
	Label       string
	Description *string
	TargetClass graph.ThingID
	CreatedBy   graph.ContributorID
	// Properties are sorted by order.
	Properties []Property
	// Statements holds the statements of the template and of each property,
	// keyed by subject.
	Statements map[graph.ThingID][]graph.Statement
}

// Reader loads persisted templates.
type Reader struct {
	store  graph.Store
	schema graph.SchemaStore
}

func NewReader(store graph.Store, schema graph.SchemaStore) *Reader {
	return &Reader{store: store, schema: schema}
}

func (r *Reader) Read(ctx context.Context, templateID graph.ThingID) (*Template, error) {
	thing, ok, err := r.schema.FindThingByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	resource, isResource := thing.(graph.Resource)
	if !ok || !isResource || !resource.HasClass(graph.ClassNodeShape) {
		return nil, graph.Errorf(graph.ErrTemplateNotFound, "template %q not found", templateID)
	}
	own, err := r.store.FindStatements(ctx, graph.StatementFilter{SubjectID: templateID})
	if err != nil {
		return nil, fmt.Errorf("find template statements: %w", err)
	}
	t := &Template{
		ID:         templateID,
		Label:      resource.Label,
		CreatedBy:  resource.CreatedBy,
		Statements: map[graph.ThingID][]graph.Statement{templateID: own},
	}
	if s := graph.WithPredicate(own, graph.PredShTargetClass); len(s) > 0 {
		t.TargetClass = s[0].Object.ThingID()
	}
	t.Description = optionalLabel(own, graph.PredDescription)

	for _, link := range graph.WithPredicate(own, graph.PredShProperty) {
		shape, isResource := link.Object.(graph.Resource)
		if !isResource {
			continue
		}
		stmts, err := r.store.FindStatements(ctx, graph.StatementFilter{SubjectID: shape.ID})
		if err != nil {
			return nil, fmt.Errorf("find property statements: %w", err)
		}
		t.Statements[shape.ID] = stmts
		p, err := parseProperty(shape, stmts)
		if err != nil {
			return nil, err
		}
		t.Properties = append(t.Properties, p)
	}
	sort.SliceStable(t.Properties, func(i, j int) bool { return t.Properties[i].Order < t.Properties[j].Order })
	return t, nil
}

// parseProperty rebuilds the definition persisted by Creator.
func parseProperty(shape graph.Resource, stmts []graph.Statement) (Property, error) {
	s := Shape{
		Label:       shape.Label,
		Placeholder: optionalLabel(stmts, graph.PredPlaceholder),
		Description: optionalLabel(stmts, graph.PredDescription),
	}
	if v := optionalLabel(stmts, graph.PredShMinCount); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return Property{}, fmt.Errorf("property %s: parse min count: %w", shape.ID, err)
		}
		s.MinCount = n
	}
	if v := optionalLabel(stmts, graph.PredShMaxCount); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return Property{}, fmt.Errorf("property %s: parse max count: %w", shape.ID, err)
		}
		s.MaxCount = &n
	}
	if path := graph.WithPredicate(stmts, graph.PredShPath); len(path) > 0 {
		s.Path = path[0].Object.ThingID()
	}
	p := Property{ID: shape.ID, CreatedAt: shape.CreatedAt, CreatedBy: shape.CreatedBy}
	if v := optionalLabel(stmts, graph.PredShOrder); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return Property{}, fmt.Errorf("property %s: parse order: %w", shape.ID, err)
		}
		p.Order = n
	}

	class := graph.WithPredicate(stmts, graph.PredShClass)
	datatype := graph.WithPredicate(stmts, graph.PredShDatatype)
	switch {
	case len(class) > 0:
		p.Definition = ResourcePropertyDefinition{Shape: s, Class: class[0].Object.ThingID()}
	case len(datatype) > 0:
		dt := datatype[0].Object.ThingID()
		pattern := optionalLabel(stmts, graph.PredShPattern)
		switch {
		case dt == graph.ClassString || pattern != nil:
			p.Definition = StringLiteralPropertyDefinition{Shape: s, Datatype: dt, Pattern: pattern}
		case graph.IsNumberClass(dt):
			p.Definition = NumberLiteralPropertyDefinition{
				Shape:        s,
				Datatype:     dt,
				MinInclusive: optionalNumber(stmts, graph.PredShMinInclusive),
				MaxInclusive: optionalNumber(stmts, graph.PredShMaxInclusive),
			}
		default:
			p.Definition = OtherLiteralPropertyDefinition{Shape: s, Datatype: dt}
		}
	default:
		p.Definition = UntypedPropertyDefinition{Shape: s}
	}
	return p, nil
}

func optionalLabel(stmts []graph.Statement, predicate graph.ThingID) *string {
	for _, s := range graph.WithPredicate(stmts, predicate) {
		if l, ok := s.Object.(graph.Literal); ok {
			label := l.Label
			return &label
		}
	}
	return nil
}

func optionalNumber(stmts []graph.Statement, predicate graph.ThingID) *RealNumber {
	v := optionalLabel(stmts, predicate)
	if v == nil {
		return nil
	}
	n := RealNumber(*v)
	return &n
}
