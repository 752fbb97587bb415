package statements

import (
	"context"
	"fmt"

	"orkg/internal/graph"
)

// CollectionUpdater keeps a subject's 0..n valued properties in line with a
// new set of values. Order is not significant.
type CollectionUpdater struct {
	store graph.Store
}

func NewCollectionUpdater(store graph.Store) *CollectionUpdater {
	return &CollectionUpdater{store: store}
}

// UpdateResources removes statements to objects no longer wanted and adds
// statements to new objects.
func (u *CollectionUpdater) UpdateResources(ctx context.Context, statements []graph.Statement, contributorID graph.ContributorID, subjectID, predicateID graph.ThingID, objects []graph.ThingID) error {
	wanted := map[graph.ThingID]struct{}{}
	for _, o := range objects {
		wanted[o] = struct{}{}
	}
	present := map[graph.ThingID]struct{}{}
	var stale []graph.Statement
	for _, s := range graph.WithPredicate(statements, predicateID) {
		id := s.Object.ThingID()
		if _, ok := wanted[id]; !ok {
			stale = append(stale, s)
			continue
		}
		if _, dup := present[id]; dup {
			stale = append(stale, s)
			continue
		}
		present[id] = struct{}{}
	}
	if err := Delete(ctx, u.store, stale); err != nil {
		return err
	}
	for _, o := range objects {
		if _, ok := present[o]; ok {
			continue
		}
		if _, err := u.store.CreateStatement(ctx, contributorID, subjectID, predicateID, o); err != nil {
			return fmt.Errorf("create %s statement: %w", predicateID, err)
		}
		present[o] = struct{}{}
	}
	return nil
}

// UpdateLiterals does the same for literal values, matched by label.
func (u *CollectionUpdater) UpdateLiterals(ctx context.Context, statements []graph.Statement, contributorID graph.ContributorID, subjectID, predicateID graph.ThingID, labels []string, datatype string) error {
	wanted := map[string]struct{}{}
	for _, l := range labels {
		wanted[l] = struct{}{}
	}
	present := map[string]struct{}{}
	var stale []graph.Statement
	for _, s := range graph.WithPredicate(statements, predicateID) {
		l, isLiteral := s.Object.(graph.Literal)
		if !isLiteral {
			stale = append(stale, s)
			continue
		}
		if _, ok := wanted[l.Label]; !ok {
			stale = append(stale, s)
			continue
		}
		if _, dup := present[l.Label]; dup {
			stale = append(stale, s)
			continue
		}
		present[l.Label] = struct{}{}
	}
	if err := Delete(ctx, u.store, stale); err != nil {
		return err
	}
	for _, label := range labels {
		if _, ok := present[label]; ok {
			continue
		}
		literal, err := u.store.CreateLiteral(ctx, graph.CreateLiteralCommand{ContributorID: contributorID, Label: label, Datatype: datatype})
		if err != nil {
			return fmt.Errorf("create %s literal: %w", predicateID, err)
		}
		if _, err := u.store.CreateStatement(ctx, contributorID, subjectID, predicateID, literal); err != nil {
			return fmt.Errorf("create %s statement: %w", predicateID, err)
		}
		present[label] = struct{}{}
	}
	return nil
}
