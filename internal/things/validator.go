package things

import (
	"context"
	"fmt"
	"strings"

	"orkg/internal/graph"
)

// CommandValidator checks the pending things of a command and resolves every
// id they reference into the cache.
type CommandValidator struct {
	resolver *Resolver
	schema   graph.SchemaStore
}

func NewCommandValidator(resolver *Resolver, schema graph.SchemaStore) *CommandValidator {
	return &CommandValidator{resolver: resolver, schema: schema}
}

// Validate runs in a fixed order: temp ids, resources, literals, predicates,
// classes, lists. Within each group definitions are visited by sorted temp
// id, so the first reported error is stable for identical input.
func (v *CommandValidator) Validate(ctx context.Context, cmd *CreateThingsCommand, cache *ResolutionCache) error {
	if cmd == nil {
		return nil
	}
	if err := validateTempIDs(cmd); err != nil {
		return err
	}
	for _, id := range sortedKeys(cmd.Resources) {
		if err := v.validateResource(ctx, id, cmd.Resources[id], cmd, cache); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(cmd.Literals) {
		if err := validateLiteral(id, cmd.Literals[id]); err != nil {
			return err
		}
		cache.put(id, Pending(cmd.Literals[id]))
	}
	for _, id := range sortedKeys(cmd.Predicates) {
		def := cmd.Predicates[id]
		if !graph.ValidLabel(def.Label) {
			return graph.Errorf(graph.ErrInvalidLabel, "invalid label for predicate %q", id)
		}
		if !graph.ValidDescription(def.Description) {
			return graph.Errorf(graph.ErrInvalidDescription, "invalid description for predicate %q", id)
		}
		cache.put(id, Pending(def))
	}
	if err := v.validateClasses(ctx, cmd, cache); err != nil {
		return err
	}
	for _, id := range sortedKeys(cmd.Lists) {
		def := cmd.Lists[id]
		if !graph.ValidLabel(def.Label) {
			return graph.Errorf(graph.ErrInvalidLabel, "invalid label for list %q", id)
		}
		cache.put(id, Pending(def))
		for _, element := range def.Elements {
			if _, err := v.resolver.Resolve(ctx, element, cmd, cache); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateTempIDs(cmd *CreateThingsCommand) error {
	ids := cmd.TempIDs()
	var duplicates []string
	for i, id := range ids {
		if !graph.ValidTempID(string(id)) {
			return graph.Errorf(graph.ErrInvalidTempID, "invalid temp id %q", id)
		}
		if i > 0 && ids[i-1] == id && (len(duplicates) == 0 || duplicates[len(duplicates)-1] != string(id)) {
			duplicates = append(duplicates, string(id))
		}
	}
	if len(duplicates) > 0 {
		return graph.Errorf(graph.ErrDuplicateTempIDs, "duplicate temp ids: %s", strings.Join(duplicates, ", "))
	}
	return nil
}

func (v *CommandValidator) validateResource(ctx context.Context, id graph.ThingID, def ResourceDefinition, cmd *CreateThingsCommand, cache *ResolutionCache) error {
	if !graph.ValidLabel(def.Label) {
		return graph.Errorf(graph.ErrInvalidLabel, "invalid label for resource %q", id)
	}
	for _, class := range def.Classes {
		if err := v.validateClassReference(ctx, class, cmd, cache); err != nil {
			return err
		}
	}
	cache.put(id, Pending(def))
	return nil
}

// validateClassReference checks that id names an assignable class, either
// pending or persisted.
func (v *CommandValidator) validateClassReference(ctx context.Context, id graph.ThingID, cmd *CreateThingsCommand, cache *ResolutionCache) error {
	if graph.IsReservedClass(id) {
		return graph.Errorf(graph.ErrReservedClass, "class %q is reserved", id)
	}
	res, err := v.resolver.Resolve(ctx, id, cmd, cache)
	if err != nil {
		return err
	}
	if def, ok := res.Pending(); ok {
		if _, isClass := def.(ClassDefinition); !isClass {
			return graph.Errorf(graph.ErrThingIsNotAClass, "thing %q is not a class", id)
		}
		return nil
	}
	thing, _ := res.Persisted()
	if _, isClass := thing.(graph.Class); !isClass {
		return graph.Errorf(graph.ErrThingIsNotAClass, "thing %q is not a class", id)
	}
	return nil
}

func validateLiteral(id graph.ThingID, def LiteralDefinition) error {
	if !graph.ValidLiteralLabel(def.Label) {
		return graph.Errorf(graph.ErrInvalidLiteralLabel, "invalid label for literal %q", id)
	}
	datatype := def.Datatype
	if datatype == "" {
		datatype = graph.XSDString.Prefixed
	}
	dt, ok := graph.LookupDatatype(datatype)
	if !ok {
		return graph.Errorf(graph.ErrInvalidLiteralDatatype, "invalid datatype %q for literal %q", def.Datatype, id)
	}
	if !dt.Accepts(def.Label) {
		return graph.Errorf(graph.ErrInvalidLiteralLabel, "label %q of literal %q is not a valid %s", def.Label, id, dt.Prefixed)
	}
	return nil
}

func (v *CommandValidator) validateClasses(ctx context.Context, cmd *CreateThingsCommand, cache *ResolutionCache) error {
	seen := map[string]graph.ThingID{}
	for _, id := range sortedKeys(cmd.Classes) {
		def := cmd.Classes[id]
		if !graph.ValidLabel(def.Label) {
			return graph.Errorf(graph.ErrInvalidLabel, "invalid label for class %q", id)
		}
		if def.URI != "" {
			if !graph.IsAbsoluteURI(def.URI) {
				return graph.Errorf(graph.ErrURINotAbsolute, "uri %q of class %q is not absolute", def.URI, id)
			}
			if other, ok := seen[def.URI]; ok {
				return graph.Errorf(graph.ErrURIAlreadyInUse, "uri %q of class %q is already used by %q", def.URI, id, other)
			}
			existing, found, err := v.schema.FindClassByURI(ctx, def.URI)
			if err != nil {
				return fmt.Errorf("find class by uri: %w", err)
			}
			if found {
				return graph.Errorf(graph.ErrURIAlreadyInUse, "uri %q of class %q is already used by %q", def.URI, id, existing.ID)
			}
			seen[def.URI] = id
		}
		cache.put(id, Pending(def))
	}
	return nil
}
