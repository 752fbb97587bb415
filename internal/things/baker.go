package things

import (
	"context"
	"sort"

	"orkg/internal/graph"
)

// ObjectDefinition is the object of a statement in a nested statement tree.
// Statements, if any, use ID as their subject.
type ObjectDefinition struct {
	ID         graph.ThingID                        `json:"id"`
	Statements map[graph.ThingID][]ObjectDefinition `json:"statements,omitempty"`
}

// BakedStatement is a validated triple whose ids may still be temp ids.
type BakedStatement struct {
	Subject   graph.ThingID
	Predicate graph.ThingID
	Object    graph.ThingID
}

// StatementSet collects baked statements; duplicates collapse.
type StatementSet map[BakedStatement]struct{}

func (s StatementSet) Add(b BakedStatement) { s[b] = struct{}{} }

func (s StatementSet) Contains(b BakedStatement) bool {
	_, ok := s[b]
	return ok
}

// Sorted returns the statements ordered by subject, predicate and object.
func (s StatementSet) Sorted() []BakedStatement {
	out := make([]BakedStatement, 0, len(s))
	for b := range s {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		if out[i].Predicate != out[j].Predicate {
			return out[i].Predicate < out[j].Predicate
		}
		return out[i].Object < out[j].Object
	})
	return out
}

// StatementBaker flattens statement trees into baked statements.
type StatementBaker struct {
	resolver *Resolver
}

func NewStatementBaker(resolver *Resolver) *StatementBaker {
	return &StatementBaker{resolver: resolver}
}

// Bake adds one statement per (subject, predicate, object) found in the tree
// rooted at subjectID to destination.
func (b *StatementBaker) Bake(ctx context.Context, subjectID graph.ThingID, statements map[graph.ThingID][]ObjectDefinition, cmd *CreateThingsCommand, cache *ResolutionCache, destination StatementSet) error {
	for _, predicateID := range sortedKeys(statements) {
		if err := b.checkPredicate(ctx, predicateID, cmd, cache); err != nil {
			return err
		}
		for _, object := range statements[predicateID] {
			res, err := b.resolver.Resolve(ctx, object.ID, cmd, cache)
			if err != nil {
				return err
			}
			if res.IsLiteral() && len(object.Statements) > 0 {
				return graph.Errorf(graph.ErrInvalidStatementSubject, "literal %q cannot be the subject of a statement", object.ID)
			}
			destination.Add(BakedStatement{Subject: subjectID, Predicate: predicateID, Object: object.ID})
			if len(object.Statements) > 0 {
				if err := b.Bake(ctx, object.ID, object.Statements, cmd, cache, destination); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (b *StatementBaker) checkPredicate(ctx context.Context, id graph.ThingID, cmd *CreateThingsCommand, cache *ResolutionCache) error {
	res, err := b.resolver.Resolve(ctx, id, cmd, cache)
	if err != nil {
		return err
	}
	if def, ok := res.Pending(); ok {
		if _, isPredicate := def.(PredicateDefinition); isPredicate {
			return nil
		}
	} else if thing, _ := res.Persisted(); isPredicateThing(thing) {
		return nil
	}
	return graph.Errorf(graph.ErrThingIsNotAPredicate, "thing %q is not a predicate", id)
}

func isPredicateThing(t graph.Thing) bool {
	_, ok := t.(graph.Predicate)
	return ok
}
