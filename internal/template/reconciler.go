package template

import (
	"context"
	"fmt"

	"orkg/internal/graph"
)

type EditOp string

const (
	EditCreate EditOp = "create"
	EditUpdate EditOp = "update"
	EditDelete EditOp = "delete"
	EditNoop   EditOp = "noop"
)

// Edit is one step of a template property edit script. PropertyID is the
// affected property; for creates it is filled in once the edit is applied.
type Edit struct {
	Op         EditOp             `json:"op"`
	Index      int                `json:"index"`
	PropertyID graph.ThingID      `json:"property_id,omitempty"`
	Definition PropertyDefinition `json:"-"`
}

// Plan compares old and new property lists position by position.
func Plan(newDefs []PropertyDefinition, old []Property) []Edit {
	n := len(newDefs)
	if len(old) > n {
		n = len(old)
	}
	edits := make([]Edit, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(old):
			edits = append(edits, Edit{Op: EditCreate, Index: i, Definition: newDefs[i]})
		case i >= len(newDefs):
			edits = append(edits, Edit{Op: EditDelete, Index: i, PropertyID: old[i].ID})
		case old[i].Matches(newDefs[i], i):
			edits = append(edits, Edit{Op: EditNoop, Index: i, PropertyID: old[i].ID, Definition: newDefs[i]})
		default:
			edits = append(edits, Edit{Op: EditUpdate, Index: i, PropertyID: old[i].ID, Definition: newDefs[i]})
		}
	}
	return edits
}

// Reconciler applies edit scripts to the properties of a template.
type Reconciler struct {
	creator *Creator
	updater *Updater
	deleter *Deleter
}

func NewReconciler(creator *Creator, updater *Updater, deleter *Deleter) *Reconciler {
	return &Reconciler{creator: creator, updater: updater, deleter: deleter}
}

// Reconcile makes the template's properties equal newDefs, in order. old must
// be sorted by order and statements must hold the statements of every old
// property, keyed by subject. The applied edits are returned.
func (r *Reconciler) Reconcile(ctx context.Context, statements map[graph.ThingID][]graph.Statement, contributorID graph.ContributorID, templateID graph.ThingID, newDefs []PropertyDefinition, old []Property) ([]Edit, error) {
	edits := Plan(newDefs, old)
	for i := range edits {
		e := &edits[i]
		switch e.Op {
		case EditCreate:
			id, err := r.creator.Create(ctx, contributorID, templateID, e.Index, e.Definition)
			if err != nil {
				return nil, fmt.Errorf("create property %d: %w", e.Index, err)
			}
			e.PropertyID = id
		case EditUpdate:
			if err := r.updater.Update(ctx, statements, contributorID, e.Index, e.Definition, old[e.Index]); err != nil {
				return nil, fmt.Errorf("update property %d: %w", e.Index, err)
			}
		case EditDelete:
			if err := r.deleter.Delete(ctx, contributorID, templateID, e.PropertyID); err != nil {
				return nil, fmt.Errorf("delete property %d: %w", e.Index, err)
			}
		}
	}
	return edits, nil
}
