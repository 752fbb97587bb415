package workflows

import (
	"time"

	"orkg/internal/contenttypes"
	"orkg/internal/graph"
)

// RetryOptions tune the activity options of a workflow. Zero values fall
// back to the defaults.
type RetryOptions struct {
	ActivityTimeout time.Duration `json:"activity_timeout,omitempty"`
	MaxAttempts     int32         `json:"max_attempts,omitempty"`
}

type CreatePaperInput struct {
	Command contenttypes.CreatePaperCommand `json:"command"`
	Retry   RetryOptions                    `json:"retry"`
}

type UpdatePaperInput struct {
	Command contenttypes.UpdatePaperCommand `json:"command"`
	Retry   RetryOptions                    `json:"retry"`
}

type PaperContentsInput struct {
	Command contenttypes.CreatePaperContentsCommand `json:"command"`
	Retry   RetryOptions                            `json:"retry"`
}

// ImportPaperInput creates a paper and then adds each batch of contents in
// its own transaction.
type ImportPaperInput struct {
	Paper   contenttypes.CreatePaperCommand `json:"paper"`
	Batches []contenttypes.PaperContents    `json:"batches,omitempty"`
	Retry   RetryOptions                    `json:"retry"`
}

type CreateTemplateInput struct {
	Command contenttypes.CreateTemplateCommand `json:"command"`
	Retry   RetryOptions                       `json:"retry"`
}

type UpdateTemplateInput struct {
	Command contenttypes.UpdateTemplateCommand `json:"command"`
	Retry   RetryOptions                       `json:"retry"`
}

type ValidateInstanceInput struct {
	Command contenttypes.ValidateInstanceCommand `json:"command"`
	Retry   RetryOptions                         `json:"retry"`
}

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type CommandStatus struct {
	Command string `json:"command"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

type ImportPaperProgress struct {
	PaperID         graph.ThingID   `json:"paper_id,omitempty"`
	Total           int             `json:"total"`
	Done            int             `json:"done"`
	ContributionIDs []graph.ThingID `json:"contribution_ids"`
	Status          string          `json:"status"`
	Error           string          `json:"error,omitempty"`
}
