package template

import (
	"context"
	"fmt"
	"strconv"

	"orkg/internal/graph"
)

// Creator writes a new property shape and attaches it to a template.
type Creator struct {
	store graph.Store
}

func NewCreator(store graph.Store) *Creator {
	return &Creator{store: store}
}

func (c *Creator) Create(ctx context.Context, contributorID graph.ContributorID, templateID graph.ThingID, order int, def PropertyDefinition) (graph.ThingID, error) {
	s := def.shape()
	id, err := c.store.CreateResource(ctx, graph.CreateResourceCommand{
		ContributorID: contributorID,
		Label:         s.Label,
		Classes:       []graph.ThingID{graph.ClassPropertyShape},
	})
	if err != nil {
		return "", fmt.Errorf("create property resource: %w", err)
	}
	w := writer{ctx: ctx, store: c.store, contributorID: contributorID, subjectID: id}
	if s.Placeholder != nil {
		w.literal(graph.PredPlaceholder, *s.Placeholder, graph.XSDString.Prefixed)
	}
	if s.Description != nil {
		w.literal(graph.PredDescription, *s.Description, graph.XSDString.Prefixed)
	}
	w.literal(graph.PredShMinCount, strconv.Itoa(s.MinCount), graph.XSDInteger.Prefixed)
	if s.MaxCount != nil {
		w.literal(graph.PredShMaxCount, strconv.Itoa(*s.MaxCount), graph.XSDInteger.Prefixed)
	}
	switch d := def.(type) {
	case UntypedPropertyDefinition:
	case StringLiteralPropertyDefinition:
		w.statement(graph.PredShDatatype, d.Datatype)
		if d.Pattern != nil {
			w.literal(graph.PredShPattern, *d.Pattern, graph.XSDString.Prefixed)
		}
	case NumberLiteralPropertyDefinition:
		w.statement(graph.PredShDatatype, d.Datatype)
		if d.MinInclusive != nil {
			w.literal(graph.PredShMinInclusive, string(*d.MinInclusive), literalDatatype(d.Datatype))
		}
		if d.MaxInclusive != nil {
			w.literal(graph.PredShMaxInclusive, string(*d.MaxInclusive), literalDatatype(d.Datatype))
		}
	case OtherLiteralPropertyDefinition:
		w.statement(graph.PredShDatatype, d.Datatype)
	case ResourcePropertyDefinition:
		w.statement(graph.PredShClass, d.Class)
	default:
		return "", fmt.Errorf("unsupported property definition %T", def)
	}
	w.statement(graph.PredShPath, s.Path)
	w.literal(graph.PredShOrder, strconv.Itoa(order), graph.XSDInteger.Prefixed)
	if w.err != nil {
		return "", w.err
	}
	if _, err := c.store.CreateStatement(ctx, contributorID, templateID, graph.PredShProperty, id); err != nil {
		return "", fmt.Errorf("link property to template: %w", err)
	}
	return id, nil
}

// writer adds statements to one subject and keeps the first error.
type writer struct {
	ctx           context.Context
	store         graph.Store
	contributorID graph.ContributorID
	subjectID     graph.ThingID
	err           error
}

func (w *writer) statement(predicateID, objectID graph.ThingID) {
	if w.err != nil {
		return
	}
	if _, err := w.store.CreateStatement(w.ctx, w.contributorID, w.subjectID, predicateID, objectID); err != nil {
		w.err = fmt.Errorf("create %s statement: %w", predicateID, err)
	}
}

func (w *writer) literal(predicateID graph.ThingID, label, datatype string) {
	if w.err != nil {
		return
	}
	id, err := w.store.CreateLiteral(w.ctx, graph.CreateLiteralCommand{ContributorID: w.contributorID, Label: label, Datatype: datatype})
	if err != nil {
		w.err = fmt.Errorf("create %s literal: %w", predicateID, err)
		return
	}
	w.statement(predicateID, id)
}
