package statements

import (
	"context"
	"fmt"

	"orkg/internal/graph"
)

// SingleUpdater keeps a subject's 0..1 valued properties in line with a new
// value. Every method compares against the statements passed in and touches
// the store only when they differ.
type SingleUpdater struct {
	store graph.Store
}

func NewSingleUpdater(store graph.Store) *SingleUpdater {
	return &SingleUpdater{store: store}
}

// UpdateRequiredResource replaces the objects of predicate with objectID.
func (u *SingleUpdater) UpdateRequiredResource(ctx context.Context, statements []graph.Statement, contributorID graph.ContributorID, subjectID, predicateID, objectID graph.ThingID) error {
	existing := graph.WithPredicate(statements, predicateID)
	if len(existing) == 1 && existing[0].Object.ThingID() == objectID {
		return nil
	}
	if err := u.delete(ctx, existing); err != nil {
		return err
	}
	if _, err := u.store.CreateStatement(ctx, contributorID, subjectID, predicateID, objectID); err != nil {
		return fmt.Errorf("create %s statement: %w", predicateID, err)
	}
	return nil
}

// UpdateRequiredLiteral replaces the objects of predicate with a new literal.
func (u *SingleUpdater) UpdateRequiredLiteral(ctx context.Context, statements []graph.Statement, contributorID graph.ContributorID, subjectID, predicateID graph.ThingID, label, datatype string) error {
	existing := graph.WithPredicate(statements, predicateID)
	if len(existing) == 1 && literalEquals(existing[0].Object, label, datatype) {
		return nil
	}
	if err := u.delete(ctx, existing); err != nil {
		return err
	}
	return u.createLiteralStatement(ctx, contributorID, subjectID, predicateID, label, datatype)
}

// UpdateOptionalResource sets, replaces or removes the object of predicate.
func (u *SingleUpdater) UpdateOptionalResource(ctx context.Context, statements []graph.Statement, contributorID graph.ContributorID, subjectID, predicateID graph.ThingID, objectID *graph.ThingID) error {
	existing := graph.WithPredicate(statements, predicateID)
	if objectID == nil {
		return u.delete(ctx, existing)
	}
	for i, s := range existing {
		if s.Object.ThingID() == *objectID {
			rest := append(append([]graph.Statement(nil), existing[:i]...), existing[i+1:]...)
			return u.delete(ctx, rest)
		}
	}
	if err := u.delete(ctx, existing); err != nil {
		return err
	}
	if _, err := u.store.CreateStatement(ctx, contributorID, subjectID, predicateID, *objectID); err != nil {
		return fmt.Errorf("create %s statement: %w", predicateID, err)
	}
	return nil
}

// UpdateOptionalLiteral sets, edits or removes the literal object of
// predicate. An existing literal is edited in place; surplus statements left
// by inconsistent writes are removed.
func (u *SingleUpdater) UpdateOptionalLiteral(ctx context.Context, statements []graph.Statement, contributorID graph.ContributorID, subjectID, predicateID graph.ThingID, label *string, datatype string) error {
	existing := graph.WithPredicate(statements, predicateID)
	if label == nil {
		return u.delete(ctx, existing)
	}
	if len(existing) == 0 {
		return u.createLiteralStatement(ctx, contributorID, subjectID, predicateID, *label, datatype)
	}
	keep := 0
	for i, s := range existing {
		if literalEquals(s.Object, *label, datatype) {
			keep = i
			break
		}
	}
	kept := existing[keep]
	if err := u.delete(ctx, append(append([]graph.Statement(nil), existing[:keep]...), existing[keep+1:]...)); err != nil {
		return err
	}
	if literalEquals(kept.Object, *label, datatype) {
		return nil
	}
	if _, isLiteral := kept.Object.(graph.Literal); !isLiteral {
		if err := u.delete(ctx, []graph.Statement{kept}); err != nil {
			return err
		}
		return u.createLiteralStatement(ctx, contributorID, subjectID, predicateID, *label, datatype)
	}
	if err := u.store.UpdateLiteral(ctx, graph.UpdateLiteralCommand{ID: kept.Object.ThingID(), ContributorID: contributorID, Label: *label, Datatype: datatype}); err != nil {
		return fmt.Errorf("update %s literal: %w", predicateID, err)
	}
	return nil
}

func (u *SingleUpdater) createLiteralStatement(ctx context.Context, contributorID graph.ContributorID, subjectID, predicateID graph.ThingID, label, datatype string) error {
	literal, err := u.store.CreateLiteral(ctx, graph.CreateLiteralCommand{ContributorID: contributorID, Label: label, Datatype: datatype})
	if err != nil {
		return fmt.Errorf("create %s literal: %w", predicateID, err)
	}
	if _, err := u.store.CreateStatement(ctx, contributorID, subjectID, predicateID, literal); err != nil {
		return fmt.Errorf("create %s statement: %w", predicateID, err)
	}
	return nil
}

func (u *SingleUpdater) delete(ctx context.Context, statements []graph.Statement) error {
	return Delete(ctx, u.store, statements)
}

// Delete removes statements in one store call. An empty list is a no-op.
func Delete(ctx context.Context, store graph.Store, statements []graph.Statement) error {
	if len(statements) == 0 {
		return nil
	}
	if err := store.DeleteStatements(ctx, graph.StatementIDs(statements)); err != nil {
		return fmt.Errorf("delete statements: %w", err)
	}
	return nil
}

func literalEquals(t graph.Thing, label, datatype string) bool {
	l, ok := t.(graph.Literal)
	if !ok || l.Label != label {
		return false
	}
	return datatype == "" || l.Datatype == datatype
}
