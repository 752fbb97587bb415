package main

import (
	"context"
	"encoding/json"
	"fmt"

	"orkg/internal/activities"
	"orkg/internal/commandschema"
	"orkg/internal/contenttypes"
	"orkg/internal/workflows"
)

// request is a decoded command document, ready to run as a workflow or
// directly against a set of activities.
type request struct {
	workflow any
	input    any
	run      func(ctx context.Context, a *activities.Activities) (any, error)
}

func decodeRequest(kind string, doc []byte, retry workflows.RetryOptions) (request, error) {
	if err := commandschema.Validate(kind, doc); err != nil {
		return request{}, err
	}
	switch kind {
	case commandschema.KindCreatePaper:
		var cmd contenttypes.CreatePaperCommand
		if err := json.Unmarshal(doc, &cmd); err != nil {
			return request{}, err
		}
		return request{
			workflow: workflows.CreatePaperWorkflow,
			input:    workflows.CreatePaperInput{Command: cmd, Retry: retry},
			run: func(ctx context.Context, a *activities.Activities) (any, error) {
				return a.CreatePaperActivity(ctx, cmd)
			},
		}, nil
	case commandschema.KindUpdatePaper:
		var cmd contenttypes.UpdatePaperCommand
		if err := json.Unmarshal(doc, &cmd); err != nil {
			return request{}, err
		}
		return request{
			workflow: workflows.UpdatePaperWorkflow,
			input:    workflows.UpdatePaperInput{Command: cmd, Retry: retry},
			run: func(ctx context.Context, a *activities.Activities) (any, error) {
				return workflows.StatusCompleted, a.UpdatePaperActivity(ctx, cmd)
			},
		}, nil
	case commandschema.KindPaperContents:
		var cmd contenttypes.CreatePaperContentsCommand
		if err := json.Unmarshal(doc, &cmd); err != nil {
			return request{}, err
		}
		return request{
			workflow: workflows.PaperContentsWorkflow,
			input:    workflows.PaperContentsInput{Command: cmd, Retry: retry},
			run: func(ctx context.Context, a *activities.Activities) (any, error) {
				return a.CreatePaperContentsActivity(ctx, cmd)
			},
		}, nil
	case commandschema.KindImportPaper:
		var in workflows.ImportPaperInput
		if err := json.Unmarshal(doc, &in); err != nil {
			return request{}, err
		}
		in.Retry = retry
		return request{
			workflow: workflows.ImportPaperWorkflow,
			input:    in,
			run: func(ctx context.Context, a *activities.Activities) (any, error) {
				return importPaper(ctx, a, in)
			},
		}, nil
	case commandschema.KindCreateTemplate:
		var cmd contenttypes.CreateTemplateCommand
		if err := json.Unmarshal(doc, &cmd); err != nil {
			return request{}, err
		}
		return request{
			workflow: workflows.CreateTemplateWorkflow,
			input:    workflows.CreateTemplateInput{Command: cmd, Retry: retry},
			run: func(ctx context.Context, a *activities.Activities) (any, error) {
				return a.CreateTemplateActivity(ctx, cmd)
			},
		}, nil
	case commandschema.KindUpdateTemplate:
		var cmd contenttypes.UpdateTemplateCommand
		if err := json.Unmarshal(doc, &cmd); err != nil {
			return request{}, err
		}
		return request{
			workflow: workflows.UpdateTemplateWorkflow,
			input:    workflows.UpdateTemplateInput{Command: cmd, Retry: retry},
			run: func(ctx context.Context, a *activities.Activities) (any, error) {
				return a.UpdateTemplateActivity(ctx, cmd)
			},
		}, nil
	case commandschema.KindValidateInstance:
		var cmd contenttypes.ValidateInstanceCommand
		if err := json.Unmarshal(doc, &cmd); err != nil {
			return request{}, err
		}
		return request{
			workflow: workflows.ValidateInstanceWorkflow,
			input:    workflows.ValidateInstanceInput{Command: cmd, Retry: retry},
			run: func(ctx context.Context, a *activities.Activities) (any, error) {
				return a.ValidateInstanceActivity(ctx, cmd)
			},
		}, nil
	}
	return request{}, fmt.Errorf("unknown command kind %q", kind)
}

// importPaper mirrors ImportPaperWorkflow for dry runs.
func importPaper(ctx context.Context, a *activities.Activities, in workflows.ImportPaperInput) (workflows.ImportPaperProgress, error) {
	progress := workflows.ImportPaperProgress{Total: len(in.Batches), Status: workflows.StatusRunning}
	paper := in.Paper
	paper.Contents = nil
	created, err := a.CreatePaperActivity(ctx, paper)
	if err != nil {
		progress.Status, progress.Error = workflows.StatusFailed, err.Error()
		return progress, err
	}
	progress.PaperID = created.PaperID
	for _, batch := range in.Batches {
		out, err := a.CreatePaperContentsActivity(ctx, contenttypes.CreatePaperContentsCommand{
			ContributorID:    in.Paper.ContributorID,
			PaperID:          created.PaperID,
			ExtractionMethod: in.Paper.ExtractionMethod,
			PaperContents:    batch,
		})
		if err != nil {
			progress.Status, progress.Error = workflows.StatusFailed, err.Error()
			return progress, err
		}
		progress.Done++
		progress.ContributionIDs = append(progress.ContributionIDs, out.ContributionIDs...)
	}
	progress.Status = workflows.StatusCompleted
	return progress, nil
}
