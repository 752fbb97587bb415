package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"orkg/internal/activities"
	"orkg/internal/contenttypes"
	"orkg/internal/graph"
	"orkg/internal/template"
)

const (
	QueryGetStatus         = "GetStatus"
	QueryGetImportProgress = "GetImportProgress"
)

func activityOptions(r RetryOptions) workflow.ActivityOptions {
	timeout := r.ActivityTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    attempts,
		},
	}
}

// execute runs a single command activity and exposes its status.
func execute(ctx workflow.Context, command, activity string, retry RetryOptions, in, out any) error {
	status := CommandStatus{Command: command, Status: StatusRunning}
	if err := workflow.SetQueryHandler(ctx, QueryGetStatus, func() (CommandStatus, error) {
		return status, nil
	}); err != nil {
		return err
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions(retry))
	if err := workflow.ExecuteActivity(ctx, activity, in).Get(ctx, out); err != nil {
		status.Status, status.Error = StatusFailed, err.Error()
		return err
	}
	status.Status = StatusCompleted
	return nil
}

func CreatePaperWorkflow(ctx workflow.Context, input CreatePaperInput) (graph.ThingID, error) {
	var out activities.CreatePaperOutput
	if err := execute(ctx, "create_paper", "CreatePaperActivity", input.Retry, input.Command, &out); err != nil {
		return "", err
	}
	return out.PaperID, nil
}

func UpdatePaperWorkflow(ctx workflow.Context, input UpdatePaperInput) (string, error) {
	if err := execute(ctx, "update_paper", "UpdatePaperActivity", input.Retry, input.Command, nil); err != nil {
		return "", err
	}
	return StatusCompleted, nil
}

func PaperContentsWorkflow(ctx workflow.Context, input PaperContentsInput) ([]graph.ThingID, error) {
	var out activities.CreatePaperContentsOutput
	if err := execute(ctx, "create_paper_contents", "CreatePaperContentsActivity", input.Retry, input.Command, &out); err != nil {
		return nil, err
	}
	return out.ContributionIDs, nil
}

func CreateTemplateWorkflow(ctx workflow.Context, input CreateTemplateInput) (graph.ThingID, error) {
	var out activities.CreateTemplateOutput
	if err := execute(ctx, "create_template", "CreateTemplateActivity", input.Retry, input.Command, &out); err != nil {
		return "", err
	}
	return out.TemplateID, nil
}

func UpdateTemplateWorkflow(ctx workflow.Context, input UpdateTemplateInput) ([]template.Edit, error) {
	var out activities.UpdateTemplateOutput
	if err := execute(ctx, "update_template", "UpdateTemplateActivity", input.Retry, input.Command, &out); err != nil {
		return nil, err
	}
	return out.Edits, nil
}

func ValidateInstanceWorkflow(ctx workflow.Context, input ValidateInstanceInput) (activities.ValidateInstanceOutput, error) {
	var out activities.ValidateInstanceOutput
	if err := execute(ctx, "validate_instance", "ValidateInstanceActivity", input.Retry, input.Command, &out); err != nil {
		return activities.ValidateInstanceOutput{}, err
	}
	return out, nil
}

// ImportPaperWorkflow stops at the first failing batch. Batches already
// applied stay, and the progress query tells which ones those are.
func ImportPaperWorkflow(ctx workflow.Context, input ImportPaperInput) (ImportPaperProgress, error) {
	progress := ImportPaperProgress{Total: len(input.Batches), Status: StatusRunning, ContributionIDs: []graph.ThingID{}}
	if err := workflow.SetQueryHandler(ctx, QueryGetImportProgress, func() (ImportPaperProgress, error) {
		return progress, nil
	}); err != nil {
		return progress, err
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions(input.Retry))

	paper := input.Paper
	paper.Contents = nil
	var created activities.CreatePaperOutput
	if err := workflow.ExecuteActivity(ctx, "CreatePaperActivity", paper).Get(ctx, &created); err != nil {
		progress.Status, progress.Error = StatusFailed, err.Error()
		return progress, err
	}
	progress.PaperID = created.PaperID

	for _, batch := range input.Batches {
		var out activities.CreatePaperContentsOutput
		err := workflow.ExecuteActivity(ctx, "CreatePaperContentsActivity", contenttypes.CreatePaperContentsCommand{
			ContributorID:    input.Paper.ContributorID,
			PaperID:          created.PaperID,
			ExtractionMethod: input.Paper.ExtractionMethod,
			PaperContents:    batch,
		}).Get(ctx, &out)
		if err != nil {
			progress.Status, progress.Error = StatusFailed, err.Error()
			return progress, err
		}
		progress.Done++
		progress.ContributionIDs = append(progress.ContributionIDs, out.ContributionIDs...)
	}
	progress.Status = StatusCompleted
	return progress, nil
}
