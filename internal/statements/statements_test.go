package statements

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"orkg/internal/graph"
	"orkg/internal/storage"
)

const bob graph.ContributorID = "bob"

func subjectStatements(t *testing.T, store *storage.MemoryStore, subject graph.ThingID) []graph.Statement {
	t.Helper()
	out, err := store.FindStatements(context.Background(), graph.StatementFilter{SubjectID: subject})
	require.NoError(t, err)
	return out
}

func objects(statements []graph.Statement, predicate graph.ThingID) []string {
	out := make([]string, 0)
	for _, s := range graph.WithPredicate(statements, predicate) {
		out = append(out, s.Object.ThingLabel())
	}
	return out
}

func newStore() *storage.MemoryStore {
	store := storage.NewMemoryStore()
	store.Put(graph.Resource{ID: "R100", Label: "subject"})
	store.Put(graph.Resource{ID: "R101", Label: "first"})
	store.Put(graph.Resource{ID: "R102", Label: "second"})
	store.Put(graph.Predicate{ID: "P100", Label: "relates"})
	return store
}

func TestUpdateRequiredResource(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	u := NewSingleUpdater(store)

	require.NoError(t, u.UpdateRequiredResource(ctx, nil, bob, "R100", "P100", "R101"))
	require.Equal(t, []string{"first"}, objects(subjectStatements(t, store, "R100"), "P100"))

	store.ResetMutations()
	require.NoError(t, u.UpdateRequiredResource(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", "R101"))
	require.Empty(t, store.Mutations())

	require.NoError(t, u.UpdateRequiredResource(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", "R102"))
	require.Equal(t, []string{"second"}, objects(subjectStatements(t, store, "R100"), "P100"))
}

func TestUpdateOptionalLiteral(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	u := NewSingleUpdater(store)
	value := "hello"

	require.NoError(t, u.UpdateOptionalLiteral(ctx, nil, bob, "R100", "P100", &value, "xsd:string"))
	statements := subjectStatements(t, store, "R100")
	require.Equal(t, []string{"hello"}, objects(statements, "P100"))
	literalID := statements[0].Object.ThingID()

	store.ResetMutations()
	require.NoError(t, u.UpdateOptionalLiteral(ctx, statements, bob, "R100", "P100", &value, "xsd:string"))
	require.Empty(t, store.Mutations())

	changed := "world"
	require.NoError(t, u.UpdateOptionalLiteral(ctx, statements, bob, "R100", "P100", &changed, "xsd:string"))
	statements = subjectStatements(t, store, "R100")
	require.Equal(t, []string{"world"}, objects(statements, "P100"))
	require.Equal(t, literalID, statements[0].Object.ThingID(), "literal is edited in place")

	require.NoError(t, u.UpdateOptionalLiteral(ctx, statements, bob, "R100", "P100", nil, "xsd:string"))
	require.Empty(t, subjectStatements(t, store, "R100"))
}

func TestUpdateOptionalLiteralRemovesSurplus(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	for _, label := range []string{"a", "b", "c"} {
		l, err := store.CreateLiteral(ctx, graph.CreateLiteralCommand{ContributorID: bob, Label: label})
		require.NoError(t, err)
		_, err = store.CreateStatement(ctx, bob, "R100", "P100", l)
		require.NoError(t, err)
	}
	value := "b"
	u := NewSingleUpdater(store)
	require.NoError(t, u.UpdateOptionalLiteral(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", &value, "xsd:string"))
	require.Equal(t, []string{"b"}, objects(subjectStatements(t, store, "R100"), "P100"))
}

func TestUpdateOptionalResource(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	u := NewSingleUpdater(store)
	target := graph.ThingID("R101")

	require.NoError(t, u.UpdateOptionalResource(ctx, nil, bob, "R100", "P100", &target))
	store.ResetMutations()
	require.NoError(t, u.UpdateOptionalResource(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", &target))
	require.Empty(t, store.Mutations())

	require.NoError(t, u.UpdateOptionalResource(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", nil))
	require.Empty(t, subjectStatements(t, store, "R100"))
}

func TestCollectionUpdater(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	u := NewCollectionUpdater(store)

	require.NoError(t, u.UpdateResources(ctx, nil, bob, "R100", "P100", []graph.ThingID{"R101", "R102"}))
	require.ElementsMatch(t, []string{"first", "second"}, objects(subjectStatements(t, store, "R100"), "P100"))

	store.ResetMutations()
	require.NoError(t, u.UpdateResources(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", []graph.ThingID{"R102", "R101"}))
	require.Empty(t, store.Mutations())

	require.NoError(t, u.UpdateResources(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", []graph.ThingID{"R102"}))
	require.Equal(t, []string{"second"}, objects(subjectStatements(t, store, "R100"), "P100"))

	require.NoError(t, u.UpdateLiterals(ctx, subjectStatements(t, store, "R100"), bob, "R100", "P100", []string{"x", "y"}, "xsd:string"))
	require.ElementsMatch(t, []string{"x", "y"}, objects(subjectStatements(t, store, "R100"), "P100"))
}

func TestIdentifierUpdater(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	u := NewIdentifierUpdater(NewCollectionUpdater(store))
	ids := map[string][]string{"doi": {"10.1000/182"}, "url": {"https://example.org/paper"}}

	require.NoError(t, u.Update(ctx, nil, bob, "R100", ids, nil))
	statements := subjectStatements(t, store, "R100")
	require.Equal(t, []string{"10.1000/182"}, objects(statements, graph.PredDOI))
	require.Equal(t, []string{"https://example.org/paper"}, objects(statements, graph.PredURL))

	store.ResetMutations()
	require.NoError(t, u.Update(ctx, map[graph.ThingID][]graph.Statement{"R100": statements}, bob, "R100", ids, ids))
	require.Empty(t, store.Mutations())

	err := u.Update(ctx, nil, bob, "R100", map[string][]string{"doi": {"not a doi"}}, nil)
	require.True(t, errors.Is(err, graph.ErrInvalidIdentifier))
	err = u.Update(ctx, nil, bob, "R100", map[string][]string{"arxiv": {"2101.00001"}}, nil)
	require.True(t, errors.Is(err, graph.ErrInvalidIdentifier))
}

func TestAuthorUpdater(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	u := NewAuthorUpdater(store)

	require.NoError(t, u.Update(ctx, bob, "R100", []graph.ThingID{"R101", "R102"}))
	links := graph.WithPredicate(subjectStatements(t, store, "R100"), graph.PredHasAuthors)
	require.Len(t, links, 1)
	listID := links[0].Object.ThingID()
	require.Equal(t, []string{"first", "second"}, objects(subjectStatements(t, store, listID), graph.PredHasListElement))

	store.ResetMutations()
	require.NoError(t, u.Update(ctx, bob, "R100", []graph.ThingID{"R101", "R102"}))
	require.Empty(t, store.Mutations())

	require.NoError(t, u.Update(ctx, bob, "R100", []graph.ThingID{"R102", "R101"}))
	require.Equal(t, []string{"second", "first"}, objects(subjectStatements(t, store, listID), graph.PredHasListElement))
}

func TestSDGAndResearchField(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	store.Put(graph.Resource{ID: "SDG_1", Label: "No poverty", Classes: []graph.ThingID{graph.ClassSDG}})
	store.Put(graph.Resource{ID: "R11", Label: "Science", Classes: []graph.ThingID{graph.ClassResearchField}})
	collection := NewCollectionUpdater(store)

	sdg := NewSDGUpdater(store, collection)
	require.NoError(t, sdg.Update(ctx, nil, bob, "R100", []graph.ThingID{"SDG_1"}))
	require.Equal(t, []string{"No poverty"}, objects(subjectStatements(t, store, "R100"), graph.PredSDG))
	err := sdg.Update(ctx, nil, bob, "R100", []graph.ThingID{"R101"})
	require.True(t, errors.Is(err, graph.ErrSDGNotFound))

	field := NewResearchFieldUpdater(store, NewSingleUpdater(store))
	require.NoError(t, field.Update(ctx, nil, bob, "R100", "R11"))
	require.Equal(t, []string{"Science"}, objects(subjectStatements(t, store, "R100"), graph.PredResearchField))
	err = field.Update(ctx, nil, bob, "R100", "R404")
	require.True(t, errors.Is(err, graph.ErrResearchFieldNotFound))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	_, err := store.CreateStatement(ctx, bob, "R100", "P100", "R101")
	require.NoError(t, err)
	_, err = store.CreateStatement(ctx, bob, "R100", "P100", "R102")
	require.NoError(t, err)

	store.ResetMutations()
	require.NoError(t, Delete(ctx, store, nil))
	require.Empty(t, store.Mutations())

	require.NoError(t, Delete(ctx, store, subjectStatements(t, store, "R100")))
	require.Empty(t, subjectStatements(t, store, "R100"))
	require.Len(t, store.Mutations(), 1)
}
