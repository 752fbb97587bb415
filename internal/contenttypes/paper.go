package contenttypes

import (
	"context"
	"fmt"

	"orkg/internal/graph"
	"orkg/internal/things"
)

// CreatePaperContents adds contributions, and the things they use, to an
// existing paper. The ids of the new contributions are returned in input
// order.
func (s *Service) CreatePaperContents(ctx context.Context, cmd CreatePaperContentsCommand) ([]graph.ThingID, error) {
	if _, ok, err := s.findResource(ctx, cmd.PaperID, graph.ClassPaper); err != nil {
		return nil, err
	} else if !ok {
		return nil, graph.Errorf(graph.ErrPaperNotFound, "paper %q not found", cmd.PaperID)
	}
	ids, err := s.createContents(ctx, cmd.ContributorID, method(cmd.ExtractionMethod), cmd.PaperID, cmd.PaperContents)
	if err != nil {
		return nil, err
	}
	s.log.Infow("paper contents created", "paper", cmd.PaperID, "contributions", len(ids), "contributor", cmd.ContributorID)
	return ids, nil
}

func (s *Service) createContents(ctx context.Context, contributorID graph.ContributorID, m graph.ExtractionMethod, paperID graph.ThingID, contents PaperContents) ([]graph.ThingID, error) {
	cache := things.NewResolutionCache()
	if err := s.commands.Validate(ctx, &contents.Things, cache); err != nil {
		return nil, err
	}
	baked, err := s.contributions.Validate(ctx, contents.Contributions, &contents.Things, cache)
	if err != nil {
		return nil, err
	}
	return s.contributor.Create(ctx, contributorID, m, paperID, &contents.Things, cache, baked)
}

// CreatePaper creates a paper resource with its metadata and, optionally, its
// contents. Metadata is checked before anything is written.
func (s *Service) CreatePaper(ctx context.Context, cmd CreatePaperCommand) (graph.ThingID, error) {
	if !graph.ValidLabel(cmd.Title) {
		return "", graph.Errorf(graph.ErrInvalidLabel, "invalid paper title")
	}
	if _, ok, err := s.findResource(ctx, cmd.ResearchField, graph.ClassResearchField); err != nil {
		return "", err
	} else if !ok {
		return "", graph.Errorf(graph.ErrResearchFieldNotFound, "research field %q not found", cmd.ResearchField)
	}
	for _, id := range cmd.Authors {
		if _, ok, err := s.schema.FindThingByID(ctx, id); err != nil {
			return "", fmt.Errorf("find author %s: %w", id, err)
		} else if !ok {
			return "", graph.Errorf(graph.ErrThingNotFound, "author %q not found", id)
		}
	}
	paperID, err := s.store.CreateResource(ctx, graph.CreateResourceCommand{
		ContributorID:    cmd.ContributorID,
		Label:            cmd.Title,
		Classes:          []graph.ThingID{graph.ClassPaper},
		ExtractionMethod: method(cmd.ExtractionMethod),
	})
	if err != nil {
		return "", fmt.Errorf("create paper: %w", err)
	}
	if err := s.updateMetadata(ctx, cmd.ContributorID, paperID, &cmd.ResearchField, cmd.Identifiers, cmd.Authors, cmd.SDGs); err != nil {
		return "", err
	}
	if cmd.Contents != nil {
		if _, err := s.createContents(ctx, cmd.ContributorID, method(cmd.ExtractionMethod), paperID, *cmd.Contents); err != nil {
			return "", err
		}
	}
	s.log.Infow("paper created", "paper", paperID, "contributor", cmd.ContributorID)
	return paperID, nil
}

func (s *Service) UpdatePaper(ctx context.Context, cmd UpdatePaperCommand) error {
	paper, ok, err := s.findResource(ctx, cmd.PaperID, graph.ClassPaper)
	if err != nil {
		return err
	}
	if !ok {
		return graph.Errorf(graph.ErrPaperNotFound, "paper %q not found", cmd.PaperID)
	}
	if err := s.authorize(paper.CreatedBy, cmd.ContributorID, paper.ID); err != nil {
		return err
	}
	if cmd.Title != nil && *cmd.Title != paper.Label {
		if !graph.ValidLabel(*cmd.Title) {
			return graph.Errorf(graph.ErrInvalidLabel, "invalid paper title")
		}
		if err := s.store.UpdateResource(ctx, graph.UpdateResourceCommand{ID: paper.ID, ContributorID: cmd.ContributorID, Label: cmd.Title}); err != nil {
			return fmt.Errorf("update paper title: %w", err)
		}
	}
	if err := s.updateMetadata(ctx, cmd.ContributorID, paper.ID, cmd.ResearchField, cmd.Identifiers, cmd.Authors, cmd.SDGs); err != nil {
		return err
	}
	s.log.Infow("paper updated", "paper", paper.ID, "contributor", cmd.ContributorID)
	return nil
}

// updateMetadata skips nil arguments.
func (s *Service) updateMetadata(ctx context.Context, contributorID graph.ContributorID, paperID graph.ThingID, field *graph.ThingID, identifiers map[string][]string, authors, sdgs []graph.ThingID) error {
	own, err := s.store.FindStatements(ctx, graph.StatementFilter{SubjectID: paperID})
	if err != nil {
		return fmt.Errorf("find paper statements: %w", err)
	}
	stmts := map[graph.ThingID][]graph.Statement{paperID: own}
	if field != nil {
		if err := s.fields.Update(ctx, stmts, contributorID, paperID, *field); err != nil {
			return err
		}
	}
	if identifiers != nil {
		if err := s.identifiers.Update(ctx, stmts, contributorID, paperID, identifiers, currentIdentifiers(own)); err != nil {
			return err
		}
	}
	if authors != nil {
		if err := s.authors.Update(ctx, contributorID, paperID, authors); err != nil {
			return err
		}
	}
	if sdgs != nil {
		if err := s.sdgs.Update(ctx, stmts, contributorID, paperID, sdgs); err != nil {
			return err
		}
	}
	return nil
}

func currentIdentifiers(stmts []graph.Statement) map[string][]string {
	out := map[string][]string{}
	for key, predicate := range graph.IdentifierPredicates {
		for _, s := range graph.WithPredicate(stmts, predicate) {
			if l, ok := s.Object.(graph.Literal); ok {
				out[key] = append(out[key], l.Label)
			}
		}
	}
	return out
}

func method(m graph.ExtractionMethod) graph.ExtractionMethod {
	if m == "" {
		return graph.ExtractionUnknown
	}
	return m
}
