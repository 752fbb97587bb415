package things

import (
	"sort"

	"orkg/internal/graph"
)

// ThingDefinition is a thing described by a command but not yet persisted.
type ThingDefinition interface {
	DefinitionLabel() string
	isThingDefinition()
}

type ResourceDefinition struct {
	Label   string          `json:"label"`
	Classes []graph.ThingID `json:"classes,omitempty"`
}

type LiteralDefinition struct {
	Label    string `json:"label"`
	Datatype string `json:"data_type,omitempty"`
}

type PredicateDefinition struct {
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
}

type ClassDefinition struct {
	Label string `json:"label"`
	URI   string `json:"uri,omitempty"`
}

type ListDefinition struct {
	Label    string          `json:"label"`
	Elements []graph.ThingID `json:"elements,omitempty"`
}

func (d ResourceDefinition) DefinitionLabel() string  { return d.Label }
func (d LiteralDefinition) DefinitionLabel() string   { return d.Label }
func (d PredicateDefinition) DefinitionLabel() string { return d.Label }
func (d ClassDefinition) DefinitionLabel() string     { return d.Label }
func (d ListDefinition) DefinitionLabel() string      { return d.Label }

func (ResourceDefinition) isThingDefinition()  {}
func (LiteralDefinition) isThingDefinition()   {}
func (PredicateDefinition) isThingDefinition() {}
func (ClassDefinition) isThingDefinition()     {}
func (ListDefinition) isThingDefinition()      {}

// CreateThingsCommand holds the pending things of one command, keyed by temp id.
type CreateThingsCommand struct {
	Resources  map[graph.ThingID]ResourceDefinition  `json:"resources,omitempty"`
	Literals   map[graph.ThingID]LiteralDefinition   `json:"literals,omitempty"`
	Predicates map[graph.ThingID]PredicateDefinition `json:"predicates,omitempty"`
	Classes    map[graph.ThingID]ClassDefinition     `json:"classes,omitempty"`
	Lists      map[graph.ThingID]ListDefinition      `json:"lists,omitempty"`
}

// Lookup returns the definition registered under a temp id.
func (c *CreateThingsCommand) Lookup(id graph.ThingID) (ThingDefinition, bool) {
	if c == nil {
		return nil, false
	}
	if d, ok := c.Resources[id]; ok {
		return d, true
	}
	if d, ok := c.Literals[id]; ok {
		return d, true
	}
	if d, ok := c.Predicates[id]; ok {
		return d, true
	}
	if d, ok := c.Classes[id]; ok {
		return d, true
	}
	if d, ok := c.Lists[id]; ok {
		return d, true
	}
	return nil, false
}

// TempIDs returns every defined temp id, in sorted order. Ids defined in more
// than one map appear once per definition.
func (c *CreateThingsCommand) TempIDs() []graph.ThingID {
	if c == nil {
		return nil
	}
	out := make([]graph.ThingID, 0)
	out = append(out, sortedKeys(c.Resources)...)
	out = append(out, sortedKeys(c.Literals)...)
	out = append(out, sortedKeys(c.Predicates)...)
	out = append(out, sortedKeys(c.Classes)...)
	out = append(out, sortedKeys(c.Lists)...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys[V any](m map[graph.ThingID]V) []graph.ThingID {
	keys := make([]graph.ThingID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
