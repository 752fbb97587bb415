package contenttypes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"orkg/internal/graph"
	"orkg/internal/storage"
	"orkg/internal/template"
	"orkg/internal/things"
)

const (
	alice   graph.ContributorID = "alice"
	bob     graph.ContributorID = "bob"
	curator graph.ContributorID = "curator"

	paperID graph.ThingID = "R900"
	fieldID graph.ThingID = "R910"
	author  graph.ThingID = "R920"
	dataset graph.ThingID = "R930"
)

func newService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(curator)
	store.Put(graph.Resource{ID: paperID, Label: "A paper", Classes: []graph.ThingID{graph.ClassPaper}, CreatedBy: alice})
	store.Put(graph.Resource{ID: fieldID, Label: "Computer Science", Classes: []graph.ThingID{graph.ClassResearchField}})
	store.Put(graph.Resource{ID: author, Label: "Ada Lovelace", Classes: []graph.ThingID{graph.ClassAuthor}})
	store.Put(graph.Resource{ID: dataset, Label: "ImageNet", Classes: []graph.ThingID{"C31"}})
	store.Put(graph.Predicate{ID: "P20", Label: "has name"})
	store.Put(graph.Predicate{ID: "P21", Label: "uses dataset"})
	store.Put(graph.Class{ID: "C30", Label: "Method"})
	store.Put(graph.Class{ID: "C31", Label: "Dataset"})
	return NewService(store, store, nil, curator), store
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
}

func ptr[T any](v T) *T { return &v }

func objectsOf(t *testing.T, store *storage.MemoryStore, subject, predicate graph.ThingID) []graph.Thing {
	t.Helper()
	stmts, err := store.FindStatements(context.Background(), graph.StatementFilter{SubjectID: subject, PredicateID: predicate})
	require.NoError(t, err)
	out := make([]graph.Thing, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.Object)
	}
	return out
}

func TestCreatePaperContents(t *testing.T) {
	svc, store := newService(t)
	ids, err := svc.CreatePaperContents(context.Background(), CreatePaperContentsCommand{
		ContributorID: alice,
		PaperID:       paperID,
		PaperContents: PaperContents{
			Things: things.CreateThingsCommand{
				Resources: map[graph.ThingID]things.ResourceDefinition{"#method": {Label: "Gradient descent", Classes: []graph.ThingID{"C30"}}},
				Literals:  map[graph.ThingID]things.LiteralDefinition{"#steps": {Label: "5", Datatype: "xsd:integer"}},
			},
			Contributions: []things.ContributionDefinition{{
				Label: "Contribution 1",
				Statements: map[graph.ThingID][]things.ObjectDefinition{
					"P20": {{ID: "#method", Statements: map[graph.ThingID][]things.ObjectDefinition{"P20": {{ID: "#steps"}}}}},
					"P21": {{ID: dataset}},
				},
			}},
		},
	})
	require.NoError(t, err)
	require.Len(t, ids, 1)

	contributions := objectsOf(t, store, paperID, graph.PredContribution)
	require.Len(t, contributions, 1)
	require.Equal(t, ids[0], contributions[0].ThingID())

	methods := objectsOf(t, store, ids[0], "P20")
	require.Len(t, methods, 1)
	method, ok := methods[0].(graph.Resource)
	require.True(t, ok)
	require.Equal(t, "Gradient descent", method.Label)
	require.Equal(t, []graph.ThingID{"C30"}, method.Classes)

	steps := objectsOf(t, store, method.ID, "P20")
	require.Len(t, steps, 1)
	require.Equal(t, "5", steps[0].ThingLabel())
	require.Equal(t, []graph.Thing{mustFind(t, store, dataset)}, objectsOf(t, store, ids[0], "P21"))
}

func mustFind(t *testing.T, store *storage.MemoryStore, id graph.ThingID) graph.Thing {
	t.Helper()
	thing, ok, err := store.FindThingByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return thing
}

func TestCreatePaperContentsRejects(t *testing.T) {
	svc, store := newService(t)
	_, err := svc.CreatePaperContents(context.Background(), CreatePaperContentsCommand{ContributorID: alice, PaperID: author})
	requireKind(t, err, graph.ErrPaperNotFound)

	store.ResetMutations()
	_, err = svc.CreatePaperContents(context.Background(), CreatePaperContentsCommand{
		ContributorID: alice,
		PaperID:       paperID,
		PaperContents: PaperContents{Contributions: []things.ContributionDefinition{{Label: "Empty"}}},
	})
	requireKind(t, err, graph.ErrEmptyContribution)
	require.Empty(t, store.Mutations())
}

func TestCreateAndUpdatePaper(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	id, err := svc.CreatePaper(ctx, CreatePaperCommand{
		ContributorID: alice,
		Title:         "Attention is all you need",
		ResearchField: fieldID,
		Identifiers:   map[string][]string{"doi": {"10.48550/arXiv.1706.03762"}},
		Authors:       []graph.ThingID{author},
	})
	require.NoError(t, err)
	require.Equal(t, []graph.Thing{mustFind(t, store, fieldID)}, objectsOf(t, store, id, graph.PredResearchField))
	dois := objectsOf(t, store, id, graph.PredDOI)
	require.Len(t, dois, 1)
	require.Equal(t, "10.48550/arXiv.1706.03762", dois[0].ThingLabel())
	require.Len(t, objectsOf(t, store, id, graph.PredHasAuthors), 1)

	err = svc.UpdatePaper(ctx, UpdatePaperCommand{ContributorID: bob, PaperID: id, Title: ptr("Mine now")})
	requireKind(t, err, graph.ErrNeitherOwnerNorCurator)

	err = svc.UpdatePaper(ctx, UpdatePaperCommand{ContributorID: alice, PaperID: id, Identifiers: map[string][]string{"doi": {"not a doi"}}})
	requireKind(t, err, graph.ErrInvalidIdentifier)

	require.NoError(t, svc.UpdatePaper(ctx, UpdatePaperCommand{ContributorID: curator, PaperID: id, Title: ptr("Attention")}))
	require.Equal(t, "Attention", mustFind(t, store, id).ThingLabel())

	_, err = svc.CreatePaper(ctx, CreatePaperCommand{ContributorID: alice, Title: "No field", ResearchField: author})
	requireKind(t, err, graph.ErrResearchFieldNotFound)
}

func nameProperty() template.PropertyDefinition {
	return template.StringLiteralPropertyDefinition{
		Shape:    template.Shape{Label: "name", MinCount: 1, MaxCount: ptr(1), Path: "P20"},
		Datatype: graph.ClassString,
	}
}

func datasetProperty() template.PropertyDefinition {
	return template.ResourcePropertyDefinition{
		Shape: template.Shape{Label: "dataset", Path: "P21"},
		Class: "C31",
	}
}

func TestCreateAndUpdateTemplate(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	id, err := svc.CreateTemplate(ctx, CreateTemplateCommand{
		ContributorID: alice,
		Label:         "Method template",
		Description:   ptr("Describes a method"),
		TargetClass:   "C30",
		Properties:    template.Definitions{nameProperty(), datasetProperty()},
	})
	require.NoError(t, err)
	require.Equal(t, []graph.Thing{mustFind(t, store, "C30")}, objectsOf(t, store, id, graph.PredShTargetClass))
	require.Len(t, objectsOf(t, store, id, graph.PredShProperty), 2)

	_, err = svc.CreateTemplate(ctx, CreateTemplateCommand{ContributorID: alice, Label: "Again", TargetClass: "C30"})
	requireKind(t, err, graph.ErrTemplateAlreadyExists)

	_, err = svc.CreateTemplate(ctx, CreateTemplateCommand{ContributorID: alice, Label: "Unknown", TargetClass: "C99"})
	requireKind(t, err, graph.ErrClassNotFound)

	_, err = svc.UpdateTemplate(ctx, UpdateTemplateCommand{ContributorID: bob, TemplateID: id, Label: ptr("Stolen")})
	requireKind(t, err, graph.ErrNeitherOwnerNorCurator)

	store.ResetMutations()
	edits, err := svc.UpdateTemplate(ctx, UpdateTemplateCommand{ContributorID: alice, TemplateID: id})
	require.NoError(t, err)
	require.Nil(t, edits)
	require.Empty(t, store.Mutations())

	edits, err = svc.UpdateTemplate(ctx, UpdateTemplateCommand{
		ContributorID: curator,
		TemplateID:    id,
		Label:         ptr("Method"),
		Description:   ptr(""),
		Properties:    template.Definitions{nameProperty()},
	})
	require.NoError(t, err)
	require.Len(t, edits, 2)
	require.Equal(t, template.EditNoop, edits[0].Op)
	require.Equal(t, template.EditDelete, edits[1].Op)
	require.Equal(t, "Method", mustFind(t, store, id).ThingLabel())
	require.Empty(t, objectsOf(t, store, id, graph.PredDescription))
	require.Len(t, objectsOf(t, store, id, graph.PredShProperty), 1)

	_, err = svc.UpdateTemplate(ctx, UpdateTemplateCommand{
		ContributorID: alice,
		TemplateID:    id,
		Properties: template.Definitions{template.UntypedPropertyDefinition{
			Shape: template.Shape{Label: "broken", MinCount: 2, MaxCount: ptr(1), Path: "P20"},
		}},
	})
	requireKind(t, err, graph.ErrInvalidCardinality)

	_, err = svc.UpdateTemplate(ctx, UpdateTemplateCommand{ContributorID: alice, TemplateID: paperID})
	requireKind(t, err, graph.ErrTemplateNotFound)
}

func TestValidateInstance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	id, err := svc.CreateTemplate(ctx, CreateTemplateCommand{
		ContributorID: alice,
		Label:         "Method template",
		TargetClass:   "C30",
		Properties:    template.Definitions{nameProperty(), datasetProperty()},
	})
	require.NoError(t, err)

	pending := things.CreateThingsCommand{
		Literals: map[graph.ThingID]things.LiteralDefinition{"#name": {Label: "Adam"}},
	}
	tests := []struct {
		name       string
		statements map[graph.ThingID][]graph.ThingID
		want       error
	}{
		{name: "valid", statements: map[graph.ThingID][]graph.ThingID{"P20": {"#name"}, "P21": {dataset}}},
		{name: "optional property may be absent", statements: map[graph.ThingID][]graph.ThingID{"P20": {"#name"}}},
		{name: "missing name", statements: map[graph.ThingID][]graph.ThingID{"P21": {dataset}}, want: graph.ErrMissingPropertyValues},
		{name: "two names", statements: map[graph.ThingID][]graph.ThingID{"P20": {"#name", "#name"}}, want: graph.ErrTooManyPropertyValues},
		{name: "resource as name", statements: map[graph.ThingID][]graph.ThingID{"P20": {dataset}}, want: graph.ErrObjectIsNotALiteral},
		{name: "wrong class", statements: map[graph.ThingID][]graph.ThingID{"P20": {"#name"}, "P21": {author}}, want: graph.ErrResourceIsNotAnInstanceOfTargetClass},
		{name: "unknown object", statements: map[graph.ThingID][]graph.ThingID{"P20": {"#name"}, "P21": {"R999"}}, want: graph.ErrThingNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateInstance(ctx, ValidateInstanceCommand{TemplateID: id, Statements: tt.statements, Things: pending})
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			requireKind(t, err, tt.want)
		})
	}
}
