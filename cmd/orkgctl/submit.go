package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	"orkg/internal/activities"
	"orkg/internal/config"
	"orkg/internal/graph"
	"orkg/internal/logging"
	"orkg/internal/metrics"
	"orkg/internal/storage"
	"orkg/internal/workflows"
)

type submitOptions struct {
	wait     bool
	dryRun   bool
	seedPath string
	timeout  time.Duration
}

func submitCmd() *cobra.Command {
	var opts submitOptions
	cmd := &cobra.Command{
		Use:   "submit <kind> <file|->",
		Short: "Start the workflow for a command document",
		Long: `Submit validates a command document and starts the matching workflow.

With --dry-run the command runs in process against an in-memory graph,
optionally seeded from a YAML file, and the resulting mutations are printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[1])
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			retry := workflows.RetryOptions{ActivityTimeout: cfg.ActivityTimeout, MaxAttempts: int32(cfg.MaxAttempts)}
			req, err := decodeRequest(args[0], doc, retry)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			if opts.dryRun {
				return dryRun(ctx, cmd.OutOrStdout(), cfg, req, opts.seedPath)
			}
			return submit(ctx, cmd.OutOrStdout(), cfg, args[0], req, opts.wait)
		},
	}
	cmd.Flags().BoolVar(&opts.wait, "wait", false, "Wait for the workflow result")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Run in process against an in-memory graph")
	cmd.Flags().StringVar(&opts.seedPath, "seed", "", "YAML file with things to load before a dry run")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall deadline")
	return cmd
}

func submit(ctx context.Context, out io.Writer, cfg config.Config, kind string, req request, wait bool) error {
	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress, Namespace: cfg.TemporalNamespace})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer c.Close()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    strings.ReplaceAll(kind, "_", "-") + "-" + uuid.NewString(),
		TaskQueue:             cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}, req.workflow, req.input)
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	fmt.Fprintf(out, "workflow_id=%s run_id=%s\n", run.GetID(), run.GetRunID())
	if !wait {
		return nil
	}
	var result any
	if err := run.Get(ctx, &result); err != nil {
		return fmt.Errorf("workflow %s: %w", run.GetID(), err)
	}
	return printJSON(out, result)
}

func dryRun(ctx context.Context, out io.Writer, cfg config.Config, req request, seedPath string) error {
	log, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	curators := make([]graph.ContributorID, 0, len(cfg.Curators))
	for _, id := range cfg.Curators {
		curators = append(curators, graph.ContributorID(id))
	}
	store := storage.NewMemoryStore(curators...)
	if seedPath != "" {
		if err := seedStore(store, seedPath); err != nil {
			return err
		}
	}
	store.ResetMutations()

	result, runErr := req.run(ctx, activities.New(cfg, store, metrics.New(), log))
	for _, m := range store.Mutations() {
		fmt.Fprintln(out, m)
	}
	if runErr != nil {
		return runErr
	}
	return printJSON(out, result)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// seed is the YAML layout of a dry-run seed file.
type seed struct {
	Resources []struct {
		ID      graph.ThingID   `yaml:"id"`
		Label   string          `yaml:"label"`
		Classes []graph.ThingID `yaml:"classes"`
		Owner   string          `yaml:"owner"`
	} `yaml:"resources"`
	Literals []struct {
		ID       graph.ThingID `yaml:"id"`
		Label    string        `yaml:"label"`
		Datatype string        `yaml:"datatype"`
	} `yaml:"literals"`
	Predicates []struct {
		ID    graph.ThingID `yaml:"id"`
		Label string        `yaml:"label"`
	} `yaml:"predicates"`
	Classes []struct {
		ID    graph.ThingID `yaml:"id"`
		Label string        `yaml:"label"`
		URI   string        `yaml:"uri"`
	} `yaml:"classes"`
}

func seedStore(store *storage.MemoryStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var s seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, r := range s.Resources {
		store.Put(graph.Resource{ID: r.ID, Label: r.Label, Classes: r.Classes, CreatedBy: graph.ContributorID(r.Owner), ExtractionMethod: graph.ExtractionUnknown})
	}
	for _, l := range s.Literals {
		datatype := l.Datatype
		if datatype == "" {
			datatype = graph.XSDString.Prefixed
		}
		store.Put(graph.Literal{ID: l.ID, Label: l.Label, Datatype: datatype})
	}
	for _, p := range s.Predicates {
		store.Put(graph.Predicate{ID: p.ID, Label: p.Label})
	}
	for _, c := range s.Classes {
		store.Put(graph.Class{ID: c.ID, Label: c.Label, URI: c.URI})
	}
	return nil
}
