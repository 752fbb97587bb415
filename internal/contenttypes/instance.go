package contenttypes

import (
	"context"

	"orkg/internal/things"
)

// ValidateInstance checks candidate statements of an instance against every
// property of a template. Objects may be persisted things or temp ids
// defined by cmd.Things. The first violation is returned.
func (s *Service) ValidateInstance(ctx context.Context, cmd ValidateInstanceCommand) error {
	tpl, err := s.reader.Read(ctx, cmd.TemplateID)
	if err != nil {
		return err
	}
	cache := things.NewResolutionCache()
	if err := s.commands.Validate(ctx, &cmd.Things, cache); err != nil {
		return err
	}
	for _, p := range tpl.Properties {
		values := cmd.Statements[p.Path()]
		if err := s.values.ValidateCardinality(p, values); err != nil {
			return err
		}
		for _, id := range values {
			object, err := s.resolver.Resolve(ctx, id, &cmd.Things, cache)
			if err != nil {
				return err
			}
			if err := s.values.ValidateObject(p, id, object); err != nil {
				return err
			}
		}
	}
	s.log.Debugw("instance valid", "template", tpl.ID, "properties", len(tpl.Properties))
	return nil
}
