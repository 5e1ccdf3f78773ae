package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/graph"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/pipeline"
)

// printSummary writes the human-facing report after a successful run: where
// the pipeline landed, how deep the graph is, and the trigger snippet for
// the outer .gitlab-ci.yml.
func (a *App) printSummary(pipelineFile string, jobs []*graph.Job, m *pipeline.Manifest) {
	depths := graph.Depths(jobs)
	edges := 0
	for _, job := range jobs {
		edges += len(job.PipelineDeps)
	}

	rule := strings.Repeat("=", 80)
	fmt.Fprintln(a.outW)
	fmt.Fprintln(a.outW, rule)
	fmt.Fprintln(a.outW, "GitLab CI pipeline generated successfully!")
	fmt.Fprintln(a.outW, rule)
	fmt.Fprintf(a.outW, "Pipeline file: %s\n", pipelineFile)
	fmt.Fprintf(a.outW, "Total jobs: %d\n", len(jobs))
	fmt.Fprintf(a.outW, "Total stages: %d\n", len(m.Stages))
	fmt.Fprintf(a.outW, "Dependency edges: %d (max depth %d)\n", edges, graph.MaxDepth(depths))
	fmt.Fprintln(a.outW)
	fmt.Fprintln(a.outW, "To trigger this pipeline, add to your .gitlab-ci.yml:")
	fmt.Fprintln(a.outW)
	fmt.Fprintln(a.outW, "execute_builds:")
	fmt.Fprintln(a.outW, "  stage: build")
	fmt.Fprintln(a.outW, "  trigger:")
	fmt.Fprintln(a.outW, "    include:")
	fmt.Fprintf(a.outW, "      - artifact: %s\n", filepath.Base(pipelineFile))
	fmt.Fprintln(a.outW, "        job: generate_pipeline")
	fmt.Fprintln(a.outW, "    strategy: depend")
	fmt.Fprintln(a.outW)
	if len(jobs) > 0 {
		fmt.Fprintln(a.outW, "Example job command:")
		fmt.Fprintf(a.outW, "  eb --robot %s\n", filepath.Base(jobs[0].SourcePath))
	}
	fmt.Fprintln(a.outW, rule)
}
