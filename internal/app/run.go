package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/buildopts"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/ctxlog"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/graph"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/pipeline"
)

// Run executes one generation pass: load specs, build the job graph,
// assemble the manifest, merge external defaults, and write the pipeline
// file. Zero resulting jobs is not an error; no file is written and the run
// finishes with a warning.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	set, err := a.loader.Load(ctx, a.config.SpecPath)
	if err != nil {
		return fmt.Errorf("failed to load build specs: %w", err)
	}
	a.logger.Info("Build specs loaded.", "count", len(set.Packages))

	jobs := graph.Build(ctx, set)
	if len(jobs) == 0 {
		a.logger.Warn("No jobs to generate a pipeline for, nothing written.")
		return nil
	}
	a.logger.Info("Job graph built.", "jobs", len(jobs))

	// Input order is supposed to be dependency order; say so loudly when
	// it was not, since the affected edges were dropped.
	for id, deps := range graph.ForwardRefs(jobs) {
		a.logger.Warn("Dependency appears later in the input, edge dropped.",
			"job", id, "dependencies", deps)
	}

	opts := buildopts.New(a.getenv, a.config.EBArgs)
	asm := &pipeline.Assembler{
		Opts:   opts,
		Policy: a.config.StagePolicy,
		RunID:  uuid.NewString(),
	}
	manifest := asm.Assemble(ctx, jobs)

	ext, err := pipeline.LoadDefaults(ctx, a.config.GitlabConfigPath)
	if err != nil {
		a.logger.Warn("Could not load external defaults, continuing without them.",
			"path", a.config.GitlabConfigPath, "error", err)
		ext = pipeline.EmptyDefaults()
	}
	manifest.ApplyDefaults(ctx, ext)

	data, err := manifest.Render()
	if err != nil {
		return fmt.Errorf("failed to render pipeline: %w", err)
	}

	outDir := a.config.OutputDir
	if outDir == "" {
		outDir = opts.OutputDir
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	pipelineFile := filepath.Join(outDir, PipelineFileName)
	if err := os.WriteFile(pipelineFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pipeline file: %w", err)
	}

	a.logger.Info("Generated GitLab CI pipeline.", "file", pipelineFile,
		"jobs", len(jobs), "run_id", asm.RunID)
	a.printSummary(pipelineFile, jobs, manifest)

	a.logger.Debug("App.Run method finished.")
	return nil
}
