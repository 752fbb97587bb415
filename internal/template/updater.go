package template

import (
	"context"
	"fmt"
	"strconv"

	"orkg/internal/graph"
	"orkg/internal/statements"
)

// Updater rewrites an existing property shape in place. Each field is
// compared with the statements currently attached to the property, so an
// unchanged definition costs no writes.
type Updater struct {
	store  graph.Store
	single *statements.SingleUpdater
}

func NewUpdater(store graph.Store) *Updater {
	return &Updater{store: store, single: statements.NewSingleUpdater(store)}
}

// Update makes the property old.ID persist def at position order. The
// statements map is keyed by subject and must hold old.ID's statements.
func (u *Updater) Update(ctx context.Context, stmts map[graph.ThingID][]graph.Statement, contributorID graph.ContributorID, order int, def PropertyDefinition, old Property) error {
	id := old.ID
	current := stmts[id]
	s := def.shape()

	if s.Label != old.Label() {
		label := s.Label
		if err := u.store.UpdateResource(ctx, graph.UpdateResourceCommand{ID: id, ContributorID: contributorID, Label: &label}); err != nil {
			return fmt.Errorf("update property label: %w", err)
		}
	}
	if err := u.single.UpdateOptionalLiteral(ctx, current, contributorID, id, graph.PredPlaceholder, s.Placeholder, graph.XSDString.Prefixed); err != nil {
		return err
	}
	if err := u.single.UpdateOptionalLiteral(ctx, current, contributorID, id, graph.PredDescription, s.Description, graph.XSDString.Prefixed); err != nil {
		return err
	}
	if err := u.single.UpdateRequiredLiteral(ctx, current, contributorID, id, graph.PredShMinCount, strconv.Itoa(s.MinCount), graph.XSDInteger.Prefixed); err != nil {
		return err
	}
	if err := u.single.UpdateOptionalLiteral(ctx, current, contributorID, id, graph.PredShMaxCount, itoaPtr(s.MaxCount), graph.XSDInteger.Prefixed); err != nil {
		return err
	}

	var (
		class, datatype *graph.ThingID
		pattern         *string
		minInc, maxInc  *string
		boundType       string
	)
	switch d := def.(type) {
	case UntypedPropertyDefinition:
	case StringLiteralPropertyDefinition:
		datatype, pattern = &d.Datatype, d.Pattern
	case NumberLiteralPropertyDefinition:
		datatype = &d.Datatype
		minInc, maxInc = numberPtr(d.MinInclusive), numberPtr(d.MaxInclusive)
		boundType = literalDatatype(d.Datatype)
	case OtherLiteralPropertyDefinition:
		datatype = &d.Datatype
	case ResourcePropertyDefinition:
		class = &d.Class
	default:
		return fmt.Errorf("unsupported property definition %T", def)
	}
	if err := u.single.UpdateOptionalResource(ctx, current, contributorID, id, graph.PredShClass, class); err != nil {
		return err
	}
	if err := u.single.UpdateOptionalResource(ctx, current, contributorID, id, graph.PredShDatatype, datatype); err != nil {
		return err
	}
	if err := u.single.UpdateOptionalLiteral(ctx, current, contributorID, id, graph.PredShPattern, pattern, graph.XSDString.Prefixed); err != nil {
		return err
	}
	if err := u.single.UpdateOptionalLiteral(ctx, current, contributorID, id, graph.PredShMinInclusive, minInc, boundType); err != nil {
		return err
	}
	if err := u.single.UpdateOptionalLiteral(ctx, current, contributorID, id, graph.PredShMaxInclusive, maxInc, boundType); err != nil {
		return err
	}

	if err := u.single.UpdateRequiredResource(ctx, current, contributorID, id, graph.PredShPath, s.Path); err != nil {
		return err
	}
	return u.single.UpdateRequiredLiteral(ctx, current, contributorID, id, graph.PredShOrder, strconv.Itoa(order), graph.XSDInteger.Prefixed)
}

func itoaPtr(n *int) *string {
	if n == nil {
		return nil
	}
	s := strconv.Itoa(*n)
	return &s
}

func numberPtr(n *RealNumber) *string {
	if n == nil {
		return nil
	}
	s := string(*n)
	return &s
}
