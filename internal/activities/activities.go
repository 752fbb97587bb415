package activities

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"orkg/internal/config"
	"orkg/internal/contenttypes"
	"orkg/internal/graph"
	"orkg/internal/metrics"
	"orkg/internal/storage"
)

// Activities run content-type commands, one transaction per call.
type Activities struct {
	tx       storage.Runner
	metrics  *metrics.Metrics
	log      *zap.SugaredLogger
	curators []graph.ContributorID
}

func New(cfg config.Config, tx storage.Runner, m *metrics.Metrics, log *zap.SugaredLogger) *Activities {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	curators := make([]graph.ContributorID, 0, len(cfg.Curators))
	for _, c := range cfg.Curators {
		curators = append(curators, graph.ContributorID(c))
	}
	return &Activities{tx: tx, metrics: m, log: log, curators: curators}
}

// run executes fn inside a transaction. Content-type errors are final, so
// they come back as non-retryable application errors typed by kind.
func (a *Activities) run(ctx context.Context, command string, fn func(*contenttypes.Service) error) (err error) {
	start := time.Now()
	defer func() {
		a.metrics.ObserveCommand(command, start, err)
		if err != nil {
			a.log.Warnw("command failed", "command", command, "kind", graph.KindName(err), "error", err)
		}
	}()
	err = a.tx.InTx(ctx, func(store storage.GraphStore) error {
		return fn(contenttypes.NewService(metrics.InstrumentStore(store, a.metrics), store, a.log, a.curators...))
	})
	if err != nil && graph.IsInvalid(err) {
		return temporal.NewNonRetryableApplicationError(err.Error(), graph.KindName(err), err)
	}
	return err
}

func (a *Activities) CreatePaperActivity(ctx context.Context, in contenttypes.CreatePaperCommand) (CreatePaperOutput, error) {
	var out CreatePaperOutput
	err := a.run(ctx, "create_paper", func(s *contenttypes.Service) error {
		id, err := s.CreatePaper(ctx, in)
		out.PaperID = id
		return err
	})
	return out, err
}

func (a *Activities) UpdatePaperActivity(ctx context.Context, in contenttypes.UpdatePaperCommand) error {
	return a.run(ctx, "update_paper", func(s *contenttypes.Service) error {
		return s.UpdatePaper(ctx, in)
	})
}

func (a *Activities) CreatePaperContentsActivity(ctx context.Context, in contenttypes.CreatePaperContentsCommand) (CreatePaperContentsOutput, error) {
	var out CreatePaperContentsOutput
	err := a.run(ctx, "create_paper_contents", func(s *contenttypes.Service) error {
		ids, err := s.CreatePaperContents(ctx, in)
		out.ContributionIDs = ids
		return err
	})
	return out, err
}

func (a *Activities) CreateTemplateActivity(ctx context.Context, in contenttypes.CreateTemplateCommand) (CreateTemplateOutput, error) {
	var out CreateTemplateOutput
	err := a.run(ctx, "create_template", func(s *contenttypes.Service) error {
		id, err := s.CreateTemplate(ctx, in)
		out.TemplateID = id
		return err
	})
	return out, err
}

func (a *Activities) UpdateTemplateActivity(ctx context.Context, in contenttypes.UpdateTemplateCommand) (UpdateTemplateOutput, error) {
	var out UpdateTemplateOutput
	err := a.run(ctx, "update_template", func(s *contenttypes.Service) error {
		edits, err := s.UpdateTemplate(ctx, in)
		out.Edits = edits
		return err
	})
	if err == nil {
		a.metrics.ObserveEdits(out.Edits)
	}
	return out, err
}

// ValidateInstanceActivity reports violations in its output. Only store and
// transport failures fail the activity.
func (a *Activities) ValidateInstanceActivity(ctx context.Context, in contenttypes.ValidateInstanceCommand) (ValidateInstanceOutput, error) {
	var violation error
	err := a.run(ctx, "validate_instance", func(s *contenttypes.Service) error {
		violation = s.ValidateInstance(ctx, in)
		if violation != nil && !graph.IsInvalid(violation) {
			return violation
		}
		return nil
	})
	if err != nil {
		return ValidateInstanceOutput{}, err
	}
	if violation != nil {
		return ValidateInstanceOutput{Valid: false, Kind: graph.KindName(violation), Message: violation.Error()}, nil
	}
	return ValidateInstanceOutput{Valid: true}, nil
}
