package template

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"orkg/internal/graph"
	"orkg/internal/statements"
)

// Deleter detaches a property shape from its template and removes it when
// nothing else refers to it.
type Deleter struct {
	store graph.Store
	log   *zap.SugaredLogger
}

func NewDeleter(store graph.Store, log *zap.SugaredLogger) *Deleter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Deleter{store: store, log: log}
}

// Delete only looks at direct references. If the property is used anywhere
// besides its template, only the template link is removed. Otherwise its own
// statements and the resource go too; losing the resource deletion to an
// ownership check still counts as success.
func (d *Deleter) Delete(ctx context.Context, contributorID graph.ContributorID, templateID, propertyID graph.ThingID) error {
	incoming, err := d.store.FindStatements(ctx, graph.StatementFilter{ObjectID: propertyID})
	if err != nil {
		return fmt.Errorf("find property references: %w", err)
	}
	var ownership, others []graph.Statement
	for _, s := range incoming {
		if s.Subject.ThingID() == templateID && s.Predicate.ID == graph.PredShProperty {
			ownership = append(ownership, s)
		} else {
			others = append(others, s)
		}
	}
	if len(ownership) == 0 {
		return graph.Errorf(graph.ErrThingNotFound, "property %q is not part of template %q", propertyID, templateID)
	}
	if len(others) > 0 {
		return statements.Delete(ctx, d.store, ownership)
	}
	outgoing, err := d.store.FindStatements(ctx, graph.StatementFilter{SubjectID: propertyID})
	if err != nil {
		return fmt.Errorf("find property statements: %w", err)
	}
	if err := statements.Delete(ctx, d.store, append(ownership, outgoing...)); err != nil {
		return err
	}
	err = d.store.DeleteResource(ctx, propertyID, contributorID)
	if errors.Is(err, graph.ErrNeitherOwnerNorCurator) {
		d.log.Debugw("property resource kept", "property", propertyID, "contributor", contributorID, "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete property resource: %w", err)
	}
	return nil
}
