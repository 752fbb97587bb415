package things

import (
	"context"
	"fmt"

	"orkg/internal/graph"
)

// Resolution is the outcome of resolving an id: either a pending definition
// from the current command or a persisted thing, never both.
type Resolution struct {
	pending   ThingDefinition
	persisted graph.Thing
}

func Pending(d ThingDefinition) Resolution { return Resolution{pending: d} }

func Persisted(t graph.Thing) Resolution { return Resolution{persisted: t} }

func (r Resolution) Pending() (ThingDefinition, bool) { return r.pending, r.pending != nil }

func (r Resolution) Persisted() (graph.Thing, bool) { return r.persisted, r.persisted != nil }

// IsLiteral reports whether the resolved thing is, or will become, a literal.
func (r Resolution) IsLiteral() bool {
	if _, ok := r.pending.(LiteralDefinition); ok {
		return true
	}
	_, ok := r.persisted.(graph.Literal)
	return ok
}

// ResolutionCache memoizes resolutions for the duration of one command. It
// is owned by the request and must not be shared between requests.
type ResolutionCache struct {
	entries map[graph.ThingID]Resolution
}

func NewResolutionCache() *ResolutionCache {
	return &ResolutionCache{entries: map[graph.ThingID]Resolution{}}
}

func (c *ResolutionCache) Get(id graph.ThingID) (Resolution, bool) {
	r, ok := c.entries[id]
	return r, ok
}

func (c *ResolutionCache) Len() int { return len(c.entries) }

// PendingIDs returns the temp ids that resolved to a pending definition.
func (c *ResolutionCache) PendingIDs() map[graph.ThingID]struct{} {
	out := map[graph.ThingID]struct{}{}
	for id, r := range c.entries {
		if _, ok := r.Pending(); ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func (c *ResolutionCache) put(id graph.ThingID, r Resolution) {
	if _, ok := c.entries[id]; !ok {
		c.entries[id] = r
	}
}

// Resolver maps textual ids to pending or persisted things.
type Resolver struct {
	schema graph.SchemaStore
}

func NewResolver(schema graph.SchemaStore) *Resolver {
	return &Resolver{schema: schema}
}

func (r *Resolver) Resolve(ctx context.Context, id graph.ThingID, pending *CreateThingsCommand, cache *ResolutionCache) (Resolution, error) {
	if res, ok := cache.Get(id); ok {
		return res, nil
	}
	if graph.IsTempID(string(id)) {
		def, ok := pending.Lookup(id)
		if !ok {
			return Resolution{}, graph.Errorf(graph.ErrThingNotDefined, "thing %q not defined", id)
		}
		res := Pending(def)
		cache.put(id, res)
		return res, nil
	}
	thing, ok, err := r.schema.FindThingByID(ctx, id)
	if err != nil {
		return Resolution{}, fmt.Errorf("find thing %s: %w", id, err)
	}
	if !ok {
		return Resolution{}, graph.Errorf(graph.ErrThingNotFound, "thing %q not found", id)
	}
	res := Persisted(thing)
	cache.put(id, res)
	return res, nil
}
