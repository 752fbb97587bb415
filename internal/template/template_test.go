package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"orkg/internal/graph"
	"orkg/internal/storage"
	"orkg/internal/things"
)

const (
	owner    graph.ContributorID = "owner"
	stranger graph.ContributorID = "stranger"

	templateID graph.ThingID = "R500"
)

type harness struct {
	store      *storage.MemoryStore
	reader     *Reader
	reconciler *Reconciler
	creator    *Creator
	updater    *Updater
	deleter    *Deleter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := storage.NewMemoryStore()
	store.Put(graph.Resource{ID: templateID, Label: "Template", Classes: []graph.ThingID{graph.ClassNodeShape}, CreatedBy: owner})
	for i := 0; i < 8; i++ {
		store.Put(graph.Predicate{ID: graph.ThingID(fmt.Sprintf("P%d", 20+i)), Label: fmt.Sprintf("predicate %d", i)})
	}
	store.Put(graph.Class{ID: "C30", Label: "Method"})
	store.Put(graph.Class{ID: "C31", Label: "Dataset"})
	h := &harness{store: store, reader: NewReader(store, store), creator: NewCreator(store), updater: NewUpdater(store), deleter: NewDeleter(store, nil)}
	h.reconciler = NewReconciler(h.creator, h.updater, h.deleter)
	return h
}

func (h *harness) read(t *testing.T) *Template {
	t.Helper()
	tpl, err := h.reader.Read(context.Background(), templateID)
	require.NoError(t, err)
	return tpl
}

func (h *harness) reconcile(t *testing.T, defs ...PropertyDefinition) []Edit {
	t.Helper()
	tpl := h.read(t)
	edits, err := h.reconciler.Reconcile(context.Background(), tpl.Statements, owner, templateID, defs, tpl.Properties)
	require.NoError(t, err)
	return edits
}

func ptr[T any](v T) *T { return &v }

func shape(label string, path graph.ThingID) Shape {
	return Shape{Label: label, Path: path}
}

func allKinds() []PropertyDefinition {
	return []PropertyDefinition{
		UntypedPropertyDefinition{Shape: Shape{Label: "untyped", Placeholder: ptr("type here"), Description: ptr("anything"), MinCount: 1, MaxCount: ptr(3), Path: "P20"}},
		StringLiteralPropertyDefinition{Shape: shape("string", "P21"), Datatype: graph.ClassString, Pattern: ptr(`\w+`)},
		NumberLiteralPropertyDefinition{Shape: shape("number", "P22"), Datatype: graph.ClassInteger, MinInclusive: ptr(RealNumber("10")), MaxInclusive: ptr(RealNumber("20"))},
		OtherLiteralPropertyDefinition{Shape: shape("date", "P23"), Datatype: graph.ClassDate},
		ResourcePropertyDefinition{Shape: shape("method", "P24"), Class: "C30"},
	}
}

func ops(edits []Edit) []EditOp {
	out := make([]EditOp, 0, len(edits))
	for _, e := range edits {
		out = append(out, e.Op)
	}
	return out
}

func definitions(tpl *Template) []PropertyDefinition {
	out := make([]PropertyDefinition, 0, len(tpl.Properties))
	for _, p := range tpl.Properties {
		out = append(out, p.Definition)
	}
	return out
}

func requireOrders(t *testing.T, tpl *Template) {
	t.Helper()
	for i, p := range tpl.Properties {
		require.Equal(t, i, p.Order, "property %s", p.ID)
		orders := graph.WithPredicate(tpl.Statements[p.ID], graph.PredShOrder)
		require.Len(t, orders, 1)
		require.Equal(t, fmt.Sprint(i), orders[0].Object.ThingLabel())
	}
}

func TestCreateAndReadRoundTrip(t *testing.T) {
	h := newHarness(t)
	edits := h.reconcile(t, allKinds()...)
	require.Equal(t, []EditOp{EditCreate, EditCreate, EditCreate, EditCreate, EditCreate}, ops(edits))

	tpl := h.read(t)
	require.Len(t, tpl.Properties, 5)
	for i, want := range allKinds() {
		require.Truef(t, Equal(want, tpl.Properties[i].Definition), "property %d: %#v", i, tpl.Properties[i].Definition)
	}
	requireOrders(t, tpl)

	minCount := graph.WithPredicate(tpl.Statements[tpl.Properties[1].ID], graph.PredShMinCount)
	require.Len(t, minCount, 1, "min count is always written")
	require.Empty(t, graph.WithPredicate(tpl.Statements[tpl.Properties[1].ID], graph.PredShMaxCount))
	bound := graph.WithPredicate(tpl.Statements[tpl.Properties[2].ID], graph.PredShMinInclusive)
	require.Equal(t, "xsd:integer", bound[0].Object.(graph.Literal).Datatype)
}

func TestUpdateWithIdenticalDefinitionsMakesNoCalls(t *testing.T) {
	h := newHarness(t)
	h.reconcile(t, allKinds()...)
	h.store.ResetMutations()

	edits := h.reconcile(t, allKinds()...)
	require.Equal(t, []EditOp{EditNoop, EditNoop, EditNoop, EditNoop, EditNoop}, ops(edits))
	require.Empty(t, h.store.Mutations())

	tpl := h.read(t)
	for i, p := range tpl.Properties {
		require.NoError(t, h.updater.Update(context.Background(), tpl.Statements, owner, i, p.Definition, p))
	}
	require.Empty(t, h.store.Mutations())
}

func TestRemovingFirstPropertyReindexes(t *testing.T) {
	h := newHarness(t)
	defs := allKinds()
	h.reconcile(t, defs...)
	before := h.read(t)

	edits := h.reconcile(t, defs[1:]...)
	require.Equal(t, []EditOp{EditUpdate, EditUpdate, EditUpdate, EditUpdate, EditDelete}, ops(edits))
	require.Equal(t, before.Properties[4].ID, edits[4].PropertyID)

	after := h.read(t)
	require.Len(t, after.Properties, 4)
	require.Equal(t, defs[1:], definitions(after))
	requireOrders(t, after)
}

func TestRemovingLastOfSixIssuesOneDelete(t *testing.T) {
	h := newHarness(t)
	defs := append(allKinds(), UntypedPropertyDefinition{Shape: shape("sixth", "P25")})
	h.reconcile(t, defs...)
	before := h.read(t)
	h.store.ResetMutations()

	edits := h.reconcile(t, defs[:5]...)
	require.Equal(t, []EditOp{EditNoop, EditNoop, EditNoop, EditNoop, EditNoop, EditDelete}, ops(edits))
	sixth := before.Properties[5].ID

	mutations := h.store.Mutations()
	require.Len(t, mutations, 2)
	require.True(t, strings.HasPrefix(mutations[0], "DeleteStatements "))
	require.Equal(t, "DeleteResource "+string(sixth), mutations[1])
	for _, m := range mutations {
		require.NotContains(t, m, "Update")
	}
}

func TestSwapWithChange(t *testing.T) {
	h := newHarness(t)
	a := UntypedPropertyDefinition{Shape: shape("A", "P20")}
	b := StringLiteralPropertyDefinition{Shape: shape("B", "P21"), Datatype: graph.ClassString, Pattern: ptr(`\w+`)}
	h.reconcile(t, a, b)
	before := h.read(t)

	b2 := b
	b2.Pattern = ptr(`\d+`)
	edits := h.reconcile(t, b2, a)
	require.Equal(t, []EditOp{EditUpdate, EditUpdate}, ops(edits))
	require.Equal(t, before.Properties[0].ID, edits[0].PropertyID)

	after := h.read(t)
	require.Equal(t, []PropertyDefinition{b2, a}, definitions(after))
	require.Equal(t, before.Properties[0].ID, after.Properties[0].ID)
	requireOrders(t, after)
}

func TestKindChangesReplaceConstraints(t *testing.T) {
	h := newHarness(t)
	number := NumberLiteralPropertyDefinition{Shape: shape("n", "P22"), Datatype: graph.ClassDecimal, MinInclusive: ptr(RealNumber("1.5"))}
	h.reconcile(t, number)
	id := h.read(t).Properties[0].ID

	steps := []PropertyDefinition{
		ResourcePropertyDefinition{Shape: shape("n", "P22"), Class: "C31"},
		StringLiteralPropertyDefinition{Shape: shape("s", "P22"), Datatype: graph.ClassString},
		NumberLiteralPropertyDefinition{Shape: shape("n", "P26"), Datatype: graph.ClassFloat, MaxInclusive: ptr(RealNumber("2.5e3"))},
		UntypedPropertyDefinition{Shape: Shape{Label: "u", MinCount: 2, Path: "P22"}},
	}
	for _, def := range steps {
		h.reconcile(t, def)
		tpl := h.read(t)
		require.Len(t, tpl.Properties, 1)
		require.Equal(t, id, tpl.Properties[0].ID)
		require.Truef(t, Equal(def, tpl.Properties[0].Definition), "got %#v", tpl.Properties[0].Definition)
		stmts := tpl.Statements[id]
		for _, p := range []graph.ThingID{graph.PredShClass, graph.PredShDatatype, graph.PredShMinInclusive, graph.PredShMaxInclusive, graph.PredShPattern} {
			require.LessOrEqual(t, len(graph.WithPredicate(stmts, p)), 1)
		}
	}
	stmts := h.read(t).Statements[id]
	require.Empty(t, graph.WithPredicate(stmts, graph.PredShClass))
	require.Empty(t, graph.WithPredicate(stmts, graph.PredShDatatype))
	require.Empty(t, graph.WithPredicate(stmts, graph.PredShMaxInclusive))
}

func TestDeleterKeepsSharedProperty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.reconcile(t, UntypedPropertyDefinition{Shape: shape("shared", "P20")})
	id := h.read(t).Properties[0].ID
	_, err := h.store.CreateStatement(ctx, owner, "R500", "P21", id)
	require.NoError(t, err)

	require.NoError(t, h.deleter.Delete(ctx, owner, templateID, id))
	outgoing, err := h.store.FindStatements(ctx, graph.StatementFilter{SubjectID: id})
	require.NoError(t, err)
	require.NotEmpty(t, outgoing)
	_, found, _ := h.store.FindThingByID(ctx, id)
	require.True(t, found)
	require.Empty(t, h.read(t).Properties)
}

func TestDeleterSwallowsOwnershipError(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.reconcile(t, UntypedPropertyDefinition{Shape: shape("owned", "P20")})
	id := h.read(t).Properties[0].ID

	require.NoError(t, h.deleter.Delete(ctx, stranger, templateID, id))
	_, found, _ := h.store.FindThingByID(ctx, id)
	require.True(t, found, "resource survives")
	outgoing, err := h.store.FindStatements(ctx, graph.StatementFilter{SubjectID: id})
	require.NoError(t, err)
	require.Empty(t, outgoing)

	err = h.deleter.Delete(ctx, owner, templateID, "R404")
	require.True(t, errors.Is(err, graph.ErrThingNotFound))
}

func TestReadUnknownTemplate(t *testing.T) {
	h := newHarness(t)
	_, err := h.reader.Read(context.Background(), "P20")
	require.True(t, errors.Is(err, graph.ErrTemplateNotFound))
}

func TestDefinitionValidator(t *testing.T) {
	h := newHarness(t)
	v := NewDefinitionValidator(h.store)
	tests := []struct {
		name string
		def  PropertyDefinition
		kind error
	}{
		{"valid", allKinds()[2], nil},
		{"blank label", UntypedPropertyDefinition{Shape: shape(" ", "P20")}, graph.ErrInvalidLabel},
		{"blank placeholder", UntypedPropertyDefinition{Shape: Shape{Label: "x", Placeholder: ptr(""), Path: "P20"}}, graph.ErrInvalidPlaceholder},
		{"blank description", UntypedPropertyDefinition{Shape: Shape{Label: "x", Description: ptr(""), Path: "P20"}}, graph.ErrInvalidDescription},
		{"negative min", UntypedPropertyDefinition{Shape: Shape{Label: "x", MinCount: -1, Path: "P20"}}, graph.ErrInvalidMinCount},
		{"negative max", UntypedPropertyDefinition{Shape: Shape{Label: "x", MaxCount: ptr(-1), Path: "P20"}}, graph.ErrInvalidMaxCount},
		{"min above max", UntypedPropertyDefinition{Shape: Shape{Label: "x", MinCount: 3, MaxCount: ptr(2), Path: "P20"}}, graph.ErrInvalidCardinality},
		{"unknown path", UntypedPropertyDefinition{Shape: shape("x", "P404")}, graph.ErrPredicateNotFound},
		{"bad pattern", StringLiteralPropertyDefinition{Shape: shape("x", "P20"), Datatype: graph.ClassString, Pattern: ptr("(")}, graph.ErrInvalidRegexPattern},
		{"string with integer", StringLiteralPropertyDefinition{Shape: shape("x", "P20"), Datatype: graph.ClassInteger}, graph.ErrInvalidDatatype},
		{"unknown class", ResourcePropertyDefinition{Shape: shape("x", "P20"), Class: "C404"}, graph.ErrClassNotFound},
		{"number with string", NumberLiteralPropertyDefinition{Shape: shape("x", "P20"), Datatype: graph.ClassString}, graph.ErrInvalidDatatype},
		{"decimal bound on integer", NumberLiteralPropertyDefinition{Shape: shape("x", "P20"), Datatype: graph.ClassInteger, MinInclusive: ptr(RealNumber("1.5"))}, graph.ErrInvalidBounds},
		{"min above max bound", NumberLiteralPropertyDefinition{Shape: shape("x", "P20"), Datatype: graph.ClassDecimal, MinInclusive: ptr(RealNumber("2")), MaxInclusive: ptr(RealNumber("1.99"))}, graph.ErrInvalidBounds},
		{"other with string", OtherLiteralPropertyDefinition{Shape: shape("x", "P20"), Datatype: graph.ClassString}, graph.ErrInvalidDatatype},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.def)
			if tt.kind == nil {
				require.NoError(t, err)
				return
			}
			require.Truef(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)
		})
	}
}

func TestValidateCardinalityBoundaries(t *testing.T) {
	v := NewValueValidator()
	p := Property{ID: "R1", Definition: UntypedPropertyDefinition{Shape: Shape{Label: "x", MinCount: 1, MaxCount: ptr(2), Path: "P20"}}}
	values := []graph.ThingID{"R2", "R3", "R4"}

	err := v.ValidateCardinality(p, nil)
	require.True(t, errors.Is(err, graph.ErrMissingPropertyValues))
	require.Contains(t, err.Error(), "min 1, found 0")
	require.NoError(t, v.ValidateCardinality(p, values[:1]))
	require.NoError(t, v.ValidateCardinality(p, values[:2]))
	require.True(t, errors.Is(v.ValidateCardinality(p, values), graph.ErrTooManyPropertyValues))

	unbounded := Property{ID: "R1", Definition: UntypedPropertyDefinition{Shape: shape("x", "P20")}}
	require.NoError(t, v.ValidateCardinality(unbounded, make([]graph.ThingID, 1000)))
}

func TestValidateObject(t *testing.T) {
	v := NewValueValidator()
	prop := func(d PropertyDefinition) Property { return Property{ID: "R1", Definition: d} }
	literal := func(label, datatype string) things.Resolution {
		return things.Persisted(graph.Literal{ID: "L1", Label: label, Datatype: datatype})
	}
	method := things.Persisted(graph.Resource{ID: "R2", Label: "m", Classes: []graph.ThingID{"C30"}})

	intProp := prop(NumberLiteralPropertyDefinition{Shape: shape("n", "P20"), Datatype: graph.ClassInteger, MinInclusive: ptr(RealNumber("10")), MaxInclusive: ptr(RealNumber("20"))})
	err := v.ValidateObject(intProp, "L1", literal("5", "xsd:integer"))
	require.True(t, errors.Is(err, graph.ErrNumberTooLow))
	require.Contains(t, err.Error(), "5")
	require.Contains(t, err.Error(), "10")
	require.True(t, errors.Is(v.ValidateObject(intProp, "L1", literal("21", "xsd:integer")), graph.ErrNumberTooHigh))
	require.NoError(t, v.ValidateObject(intProp, "L1", literal("10", "xsd:integer")))
	require.NoError(t, v.ValidateObject(intProp, "L1", literal("20", "xsd:integer")))
	require.True(t, errors.Is(v.ValidateObject(intProp, "L1", literal("ten", "xsd:integer")), graph.ErrInvalidLiteral))

	decProp := prop(NumberLiteralPropertyDefinition{Shape: shape("n", "P20"), Datatype: graph.ClassDecimal, MaxInclusive: ptr(RealNumber("0.3"))})
	require.NoError(t, v.ValidateObject(decProp, "L1", literal("0.3", "xsd:decimal")))
	require.True(t, errors.Is(v.ValidateObject(decProp, "L1", literal("0.30000000000000000001", "xsd:decimal")), graph.ErrNumberTooHigh))

	floatProp := prop(NumberLiteralPropertyDefinition{Shape: shape("n", "P20"), Datatype: graph.ClassFloat, MinInclusive: ptr(RealNumber("-1e3"))})
	require.NoError(t, v.ValidateObject(floatProp, "L1", literal("-999.5", "xsd:float")))
	require.True(t, errors.Is(v.ValidateObject(floatProp, "L1", literal("-INF", "xsd:float")), graph.ErrNumberTooLow))

	strProp := prop(StringLiteralPropertyDefinition{Shape: shape("s", "P20"), Datatype: graph.ClassString, Pattern: ptr(`^\d{4}$`)})
	require.NoError(t, v.ValidateObject(strProp, "L1", literal("2024", "xsd:string")))
	require.True(t, errors.Is(v.ValidateObject(strProp, "L1", literal("24", "xsd:string")), graph.ErrLabelDoesNotMatchPattern))
	require.True(t, errors.Is(v.ValidateObject(strProp, "R2", method), graph.ErrObjectIsNotALiteral))
	require.NoError(t, v.ValidateObject(strProp, "#l1", things.Pending(things.LiteralDefinition{Label: "1999"})))

	otherProp := prop(OtherLiteralPropertyDefinition{Shape: shape("d", "P20"), Datatype: graph.ClassDate})
	require.NoError(t, v.ValidateObject(otherProp, "L1", literal("2024-02-29", "xsd:date")))
	require.True(t, errors.Is(v.ValidateObject(otherProp, "L1", literal("yesterday", "xsd:date")), graph.ErrInvalidLiteral))

	resProp := prop(ResourcePropertyDefinition{Shape: shape("r", "P20"), Class: "C30"})
	require.NoError(t, v.ValidateObject(resProp, "R2", method))
	require.NoError(t, v.ValidateObject(resProp, "#r1", things.Pending(things.ResourceDefinition{Label: "new", Classes: []graph.ThingID{"C30"}})))
	require.True(t, errors.Is(v.ValidateObject(resProp, "L1", literal("x", "xsd:string")), graph.ErrObjectMustNotBeALiteral))
	require.True(t, errors.Is(v.ValidateObject(resProp, "#r1", things.Pending(things.ResourceDefinition{Label: "new"})), graph.ErrResourceIsNotAnInstanceOfTargetClass))

	classProp := prop(ResourcePropertyDefinition{Shape: shape("c", "P20"), Class: graph.ClassClass})
	require.NoError(t, v.ValidateObject(classProp, "C30", things.Persisted(graph.Class{ID: "C30"})))
	require.NoError(t, v.ValidateObject(classProp, "#c1", things.Pending(things.ClassDefinition{Label: "c"})))
	require.True(t, errors.Is(v.ValidateObject(classProp, "R2", method), graph.ErrObjectIsNotAClass))

	predicateProp := prop(ResourcePropertyDefinition{Shape: shape("p", "P20"), Class: graph.ClassPredicate})
	require.NoError(t, v.ValidateObject(predicateProp, "P20", things.Persisted(graph.Predicate{ID: "P20"})))
	require.True(t, errors.Is(v.ValidateObject(predicateProp, "R2", method), graph.ErrObjectIsNotAPredicate))

	listProp := prop(ResourcePropertyDefinition{Shape: shape("l", "P20"), Class: graph.ClassList})
	require.NoError(t, v.ValidateObject(listProp, "R3", things.Persisted(graph.Resource{ID: "R3", Classes: []graph.ThingID{graph.ClassList}})))
	require.NoError(t, v.ValidateObject(listProp, "#list", things.Pending(things.ListDefinition{Label: "l"})))
	require.True(t, errors.Is(v.ValidateObject(listProp, "R2", method), graph.ErrObjectIsNotAList))

	require.NoError(t, v.ValidateObject(prop(UntypedPropertyDefinition{Shape: shape("u", "P20")}), "L1", literal("x", "xsd:string")))
}

func TestDefinitionsJSON(t *testing.T) {
	in := Definitions(allKinds())
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"number_literal"`)

	var out Definitions
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, len(in))
	for i := range in {
		require.True(t, Equal(in[i], out[i]), "definition %d", i)
	}
	require.Error(t, json.Unmarshal([]byte(`[{"kind":"mystery","label":"x"}]`), &out))
}

func TestRealNumberFits(t *testing.T) {
	cases := []struct {
		n        RealNumber
		datatype graph.ThingID
		want     bool
	}{
		{"10", graph.ClassInteger, true},
		{"1.5", graph.ClassInteger, false},
		{"1.5", graph.ClassDecimal, true},
		{"1e3", graph.ClassDecimal, false},
		{"1e3", graph.ClassFloat, true},
		{"-INF", graph.ClassFloat, true},
		{"infinity", graph.ClassFloat, false},
		{"Inf", graph.ClassFloat, false},
		{"0x1p-2", graph.ClassFloat, false},
		{"10", graph.ClassString, false},
	}
	for _, tt := range cases {
		require.Equalf(t, tt.want, tt.n.Fits(tt.datatype), "%q as %s", tt.n, tt.datatype)
	}
}
