package workflows

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker) {
	w.RegisterWorkflow(CreatePaperWorkflow)
	w.RegisterWorkflow(UpdatePaperWorkflow)
	w.RegisterWorkflow(PaperContentsWorkflow)
	w.RegisterWorkflow(ImportPaperWorkflow)
	w.RegisterWorkflow(CreateTemplateWorkflow)
	w.RegisterWorkflow(UpdateTemplateWorkflow)
	w.RegisterWorkflow(ValidateInstanceWorkflow)
}
