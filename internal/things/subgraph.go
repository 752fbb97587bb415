package things

import (
	"context"
	"fmt"

	"orkg/internal/graph"
)

// Lookup maps temp ids to the ids of the things created for them.
type Lookup map[graph.ThingID]graph.ThingID

// Resolve substitutes a temp id. Persisted ids are returned unchanged.
func (l Lookup) Resolve(id graph.ThingID) (graph.ThingID, error) {
	if created, ok := l[id]; ok {
		return created, nil
	}
	if graph.IsTempID(string(id)) || isContributionPlaceholder(id) {
		return "", graph.Errorf(graph.ErrThingNotDefined, "thing %q was not created", id)
	}
	return id, nil
}

func isContributionPlaceholder(id graph.ThingID) bool {
	return len(id) > 1 && id[:1] == contributionPlaceholderPrefix
}

// SubgraphCreator materializes validated things and baked statements.
type SubgraphCreator struct {
	store graph.Store
}

func NewSubgraphCreator(store graph.Store) *SubgraphCreator {
	return &SubgraphCreator{store: store}
}

// CreateThingsAndStatements creates every pending thing validated into cache,
// then every statement not yet present in the graph.
func (c *SubgraphCreator) CreateThingsAndStatements(ctx context.Context, contributorID graph.ContributorID, method graph.ExtractionMethod, cmd *CreateThingsCommand, cache *ResolutionCache, statements StatementSet, lookup Lookup) error {
	if err := c.CreateThings(ctx, contributorID, method, cmd, cache, lookup); err != nil {
		return err
	}
	return c.CreateStatements(ctx, contributorID, statements, lookup)
}

// CreateThings creates classes, resources, literals, predicates and lists in
// that order. Lists are created empty and filled once every element exists.
// Definitions that were never validated are skipped.
func (c *SubgraphCreator) CreateThings(ctx context.Context, contributorID graph.ContributorID, method graph.ExtractionMethod, cmd *CreateThingsCommand, cache *ResolutionCache, lookup Lookup) error {
	if cmd == nil {
		return nil
	}
	validated := cache.PendingIDs()
	for _, id := range sortedKeys(cmd.Classes) {
		if _, ok := validated[id]; !ok {
			continue
		}
		def := cmd.Classes[id]
		realID, err := c.store.CreateClass(ctx, graph.CreateClassCommand{ContributorID: contributorID, Label: def.Label, URI: def.URI})
		if err != nil {
			return fmt.Errorf("create class %s: %w", id, err)
		}
		lookup[id] = realID
	}
	for _, id := range sortedKeys(cmd.Resources) {
		if _, ok := validated[id]; !ok {
			continue
		}
		def := cmd.Resources[id]
		classes := make([]graph.ThingID, 0, len(def.Classes))
		for _, class := range def.Classes {
			realClass, err := lookup.Resolve(class)
			if err != nil {
				return err
			}
			classes = append(classes, realClass)
		}
		realID, err := c.store.CreateResource(ctx, graph.CreateResourceCommand{ContributorID: contributorID, Label: def.Label, Classes: classes, ExtractionMethod: method})
		if err != nil {
			return fmt.Errorf("create resource %s: %w", id, err)
		}
		lookup[id] = realID
	}
	for _, id := range sortedKeys(cmd.Literals) {
		if _, ok := validated[id]; !ok {
			continue
		}
		def := cmd.Literals[id]
		realID, err := c.store.CreateLiteral(ctx, graph.CreateLiteralCommand{ContributorID: contributorID, Label: def.Label, Datatype: canonicalDatatype(def.Datatype)})
		if err != nil {
			return fmt.Errorf("create literal %s: %w", id, err)
		}
		lookup[id] = realID
	}
	for _, id := range sortedKeys(cmd.Predicates) {
		if _, ok := validated[id]; !ok {
			continue
		}
		def := cmd.Predicates[id]
		realID, err := c.store.CreatePredicate(ctx, graph.CreatePredicateCommand{ContributorID: contributorID, Label: def.Label})
		if err != nil {
			return fmt.Errorf("create predicate %s: %w", id, err)
		}
		lookup[id] = realID
		if def.Description != nil {
			if err := c.describe(ctx, contributorID, realID, *def.Description); err != nil {
				return err
			}
		}
	}
	lists := make([]graph.ThingID, 0, len(cmd.Lists))
	for _, id := range sortedKeys(cmd.Lists) {
		if _, ok := validated[id]; !ok {
			continue
		}
		realID, err := c.store.CreateList(ctx, graph.CreateListCommand{ContributorID: contributorID, Label: cmd.Lists[id].Label})
		if err != nil {
			return fmt.Errorf("create list %s: %w", id, err)
		}
		lookup[id] = realID
		lists = append(lists, id)
	}
	for _, id := range lists {
		def := cmd.Lists[id]
		if len(def.Elements) == 0 {
			continue
		}
		elements := make([]graph.ThingID, 0, len(def.Elements))
		for _, e := range def.Elements {
			realElement, err := lookup.Resolve(e)
			if err != nil {
				return err
			}
			elements = append(elements, realElement)
		}
		if err := c.store.UpdateList(ctx, lookup[id], contributorID, elements); err != nil {
			return fmt.Errorf("update list %s: %w", id, err)
		}
	}
	return nil
}

// CreateStatements creates each statement of the set that does not exist yet,
// so applying the same set twice is harmless.
func (c *SubgraphCreator) CreateStatements(ctx context.Context, contributorID graph.ContributorID, statements StatementSet, lookup Lookup) error {
	for _, s := range statements.Sorted() {
		subject, err := lookup.Resolve(s.Subject)
		if err != nil {
			return err
		}
		predicate, err := lookup.Resolve(s.Predicate)
		if err != nil {
			return err
		}
		object, err := lookup.Resolve(s.Object)
		if err != nil {
			return err
		}
		existing, err := c.store.FindStatements(ctx, graph.StatementFilter{SubjectID: subject, PredicateID: predicate, ObjectID: object})
		if err != nil {
			return fmt.Errorf("find statements: %w", err)
		}
		if len(existing) > 0 {
			continue
		}
		if _, err := c.store.CreateStatement(ctx, contributorID, subject, predicate, object); err != nil {
			return fmt.Errorf("create statement: %w", err)
		}
	}
	return nil
}

func (c *SubgraphCreator) describe(ctx context.Context, contributorID graph.ContributorID, subjectID graph.ThingID, description string) error {
	literal, err := c.store.CreateLiteral(ctx, graph.CreateLiteralCommand{ContributorID: contributorID, Label: description, Datatype: graph.XSDString.Prefixed})
	if err != nil {
		return fmt.Errorf("create description literal: %w", err)
	}
	if _, err := c.store.CreateStatement(ctx, contributorID, subjectID, graph.PredDescription, literal); err != nil {
		return fmt.Errorf("create description statement: %w", err)
	}
	return nil
}

// canonicalDatatype stores datatypes in their prefixed form.
func canonicalDatatype(datatype string) string {
	if datatype == "" {
		return graph.XSDString.Prefixed
	}
	if dt, ok := graph.LookupDatatype(datatype); ok {
		return dt.Prefixed
	}
	return datatype
}
