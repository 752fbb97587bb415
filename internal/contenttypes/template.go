package contenttypes

import (
	"context"
	"fmt"

	"orkg/internal/graph"
	"orkg/internal/template"
)

// CreateTemplate creates a NodeShape for the target class together with its
// properties, in list order.
func (s *Service) CreateTemplate(ctx context.Context, cmd CreateTemplateCommand) (graph.ThingID, error) {
	if !graph.ValidLabel(cmd.Label) {
		return "", graph.Errorf(graph.ErrInvalidLabel, "invalid template label")
	}
	if err := validateDescription(cmd.Description); err != nil {
		return "", err
	}
	if _, ok, err := s.schema.FindClassByID(ctx, cmd.TargetClass); err != nil {
		return "", fmt.Errorf("find target class: %w", err)
	} else if !ok {
		return "", graph.Errorf(graph.ErrClassNotFound, "class %q not found", cmd.TargetClass)
	}
	existing, err := s.store.FindStatements(ctx, graph.StatementFilter{PredicateID: graph.PredShTargetClass, ObjectID: cmd.TargetClass})
	if err != nil {
		return "", fmt.Errorf("find templates of class: %w", err)
	}
	if len(existing) > 0 {
		return "", graph.Errorf(graph.ErrTemplateAlreadyExists, "class %q already has template %q", cmd.TargetClass, existing[0].Subject.ThingID())
	}
	if err := s.validateDefinitions(ctx, cmd.Properties); err != nil {
		return "", err
	}

	templateID, err := s.store.CreateResource(ctx, graph.CreateResourceCommand{
		ContributorID:    cmd.ContributorID,
		Label:            cmd.Label,
		Classes:          []graph.ThingID{graph.ClassNodeShape},
		ExtractionMethod: graph.ExtractionUnknown,
	})
	if err != nil {
		return "", fmt.Errorf("create template: %w", err)
	}
	if _, err := s.store.CreateStatement(ctx, cmd.ContributorID, templateID, graph.PredShTargetClass, cmd.TargetClass); err != nil {
		return "", fmt.Errorf("link target class: %w", err)
	}
	if cmd.Description != nil {
		if err := s.single.UpdateOptionalLiteral(ctx, nil, cmd.ContributorID, templateID, graph.PredDescription, cmd.Description, graph.XSDString.Prefixed); err != nil {
			return "", err
		}
	}
	for i, def := range cmd.Properties {
		if _, err := s.creator.Create(ctx, cmd.ContributorID, templateID, i, def); err != nil {
			return "", fmt.Errorf("create property %d: %w", i, err)
		}
	}
	s.log.Infow("template created", "template", templateID, "class", cmd.TargetClass, "properties", len(cmd.Properties))
	return templateID, nil
}

// UpdateTemplate applies label and description changes and reconciles the
// property list. The applied property edits are returned.
func (s *Service) UpdateTemplate(ctx context.Context, cmd UpdateTemplateCommand) ([]template.Edit, error) {
	tpl, err := s.reader.Read(ctx, cmd.TemplateID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(tpl.CreatedBy, cmd.ContributorID, tpl.ID); err != nil {
		return nil, err
	}
	if cmd.Label != nil && *cmd.Label != tpl.Label {
		if !graph.ValidLabel(*cmd.Label) {
			return nil, graph.Errorf(graph.ErrInvalidLabel, "invalid template label")
		}
		if err := s.store.UpdateResource(ctx, graph.UpdateResourceCommand{ID: tpl.ID, ContributorID: cmd.ContributorID, Label: cmd.Label}); err != nil {
			return nil, fmt.Errorf("update template label: %w", err)
		}
	}
	if cmd.Description != nil {
		description := cmd.Description
		if *description == "" {
			description = nil
		}
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		if err := s.single.UpdateOptionalLiteral(ctx, graph.WithPredicate(tpl.Statements[tpl.ID], graph.PredDescription), cmd.ContributorID, tpl.ID, graph.PredDescription, description, graph.XSDString.Prefixed); err != nil {
			return nil, err
		}
	}
	if cmd.Properties == nil {
		return nil, nil
	}
	if err := s.validateDefinitions(ctx, cmd.Properties); err != nil {
		return nil, err
	}
	edits, err := s.reconciler.Reconcile(ctx, tpl.Statements, cmd.ContributorID, tpl.ID, cmd.Properties, tpl.Properties)
	if err != nil {
		return nil, err
	}
	s.log.Infow("template updated", "template", tpl.ID, "edits", len(edits))
	return edits, nil
}

func (s *Service) validateDefinitions(ctx context.Context, defs []template.PropertyDefinition) error {
	for i, def := range defs {
		if err := s.definitions.Validate(ctx, def); err != nil {
			return fmt.Errorf("property %d: %w", i, err)
		}
	}
	return nil
}
