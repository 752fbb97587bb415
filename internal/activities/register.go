package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.CreatePaperActivity)
	w.RegisterActivity(a.UpdatePaperActivity)
	w.RegisterActivity(a.CreatePaperContentsActivity)
	w.RegisterActivity(a.CreateTemplateActivity)
	w.RegisterActivity(a.UpdateTemplateActivity)
	w.RegisterActivity(a.ValidateInstanceActivity)
}
