package statements

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"orkg/internal/graph"
)

// AuthorUpdater maintains the ordered author list of a subject. The list is a
// List resource linked through hasAuthors.
type AuthorUpdater struct {
	store graph.Store
}

func NewAuthorUpdater(store graph.Store) *AuthorUpdater {
	return &AuthorUpdater{store: store}
}

func (u *AuthorUpdater) Update(ctx context.Context, contributorID graph.ContributorID, subjectID graph.ThingID, authorIDs []graph.ThingID) error {
	links, err := u.store.FindStatements(ctx, graph.StatementFilter{SubjectID: subjectID, PredicateID: graph.PredHasAuthors})
	if err != nil {
		return fmt.Errorf("find author list: %w", err)
	}
	if len(links) == 0 {
		if len(authorIDs) == 0 {
			return nil
		}
		listID, err := u.store.CreateList(ctx, graph.CreateListCommand{ContributorID: contributorID, Label: "authors list", Elements: authorIDs})
		if err != nil {
			return fmt.Errorf("create author list: %w", err)
		}
		if _, err := u.store.CreateStatement(ctx, contributorID, subjectID, graph.PredHasAuthors, listID); err != nil {
			return fmt.Errorf("link author list: %w", err)
		}
		return nil
	}
	listID := links[0].Object.ThingID()
	current, err := u.store.FindStatements(ctx, graph.StatementFilter{SubjectID: listID, PredicateID: graph.PredHasListElement})
	if err != nil {
		return fmt.Errorf("find authors: %w", err)
	}
	sort.SliceStable(current, func(i, j int) bool { return current[i].Index < current[j].Index })
	elements := make([]graph.ThingID, 0, len(current))
	for _, s := range current {
		elements = append(elements, s.Object.ThingID())
	}
	if slices.Equal(elements, authorIDs) {
		return nil
	}
	if err := u.store.UpdateList(ctx, listID, contributorID, authorIDs); err != nil {
		return fmt.Errorf("update author list: %w", err)
	}
	return nil
}

// SDGUpdater maintains the sustainable development goals of a subject.
type SDGUpdater struct {
	schema     graph.SchemaStore
	collection *CollectionUpdater
}

func NewSDGUpdater(schema graph.SchemaStore, collection *CollectionUpdater) *SDGUpdater {
	return &SDGUpdater{schema: schema, collection: collection}
}

func (u *SDGUpdater) Update(ctx context.Context, statements map[graph.ThingID][]graph.Statement, contributorID graph.ContributorID, subjectID graph.ThingID, sdgs []graph.ThingID) error {
	for _, id := range sdgs {
		if err := requireInstance(ctx, u.schema, id, graph.ClassSDG, graph.ErrSDGNotFound); err != nil {
			return err
		}
	}
	return u.collection.UpdateResources(ctx, statements[subjectID], contributorID, subjectID, graph.PredSDG, sdgs)
}

// ResearchFieldUpdater maintains the single research field of a subject.
type ResearchFieldUpdater struct {
	schema graph.SchemaStore
	single *SingleUpdater
}

func NewResearchFieldUpdater(schema graph.SchemaStore, single *SingleUpdater) *ResearchFieldUpdater {
	return &ResearchFieldUpdater{schema: schema, single: single}
}

func (u *ResearchFieldUpdater) Update(ctx context.Context, statements map[graph.ThingID][]graph.Statement, contributorID graph.ContributorID, subjectID, fieldID graph.ThingID) error {
	if err := requireInstance(ctx, u.schema, fieldID, graph.ClassResearchField, graph.ErrResearchFieldNotFound); err != nil {
		return err
	}
	return u.single.UpdateRequiredResource(ctx, statements[subjectID], contributorID, subjectID, graph.PredResearchField, fieldID)
}

func requireInstance(ctx context.Context, schema graph.SchemaStore, id, class graph.ThingID, kind error) error {
	thing, ok, err := schema.FindThingByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find %s: %w", id, err)
	}
	if r, isResource := thing.(graph.Resource); !ok || !isResource || !r.HasClass(class) {
		return graph.Errorf(kind, "%q is not a %s", id, class)
	}
	return nil
}
