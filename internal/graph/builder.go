package graph

import (
	"context"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/config"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/ctxlog"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/naming"
)

// Builder accumulates jobs for one generation run. It is explicit run-scoped
// state: create one with NewBuilder per run and discard it afterwards. It is
// not safe for concurrent use, and does not need to be: graph construction
// is a single synchronous pass.
type Builder struct {
	jobs  map[string]*Job
	order []string
	names *naming.Table
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		jobs:  make(map[string]*Job),
		names: naming.NewTable(),
	}
}

// Build runs a complete graph construction pass over the build set and
// returns the resulting jobs in input order.
func Build(ctx context.Context, set *config.BuildSet) []*Job {
	b := NewBuilder()
	for _, spec := range set.Packages {
		b.Add(ctx, spec)
	}
	return b.Jobs()
}

// Add processes one package spec. A spec whose own identity cannot be
// resolved is skipped entirely; a dependency whose identity cannot be
// resolved drops only that dependency. Edges are formed exclusively to jobs
// added earlier: a forward reference or cycle in the input order is dropped,
// not treated as an error. The input is expected to already be in dependency
// order; ForwardRefs reports where that expectation was violated.
func (b *Builder) Add(ctx context.Context, spec *config.PackageSpec) {
	logger := ctxlog.FromContext(ctx)

	id := spec.Identity()
	if id == "" {
		logger.Warn("Skipping package spec with unresolvable identity.",
			"name", spec.Name, "source", spec.SourcePath)
		return
	}
	if _, exists := b.jobs[id]; exists {
		logger.Warn("Duplicate package spec, keeping the first occurrence.", "id", id)
		return
	}

	job := &Job{
		ID:         id,
		SourcePath: spec.SourcePath,
		Variables:  spec.Variables,
	}

	for _, dep := range spec.Dependencies {
		if dep.External {
			logger.Debug("Skipping external dependency.", "job", id, "dependency", dep.Name)
			continue
		}
		depID := dep.Identity()
		if depID == "" {
			logger.Warn("Skipping dependency with unresolvable identity.",
				"job", id, "dependency", dep.Name)
			continue
		}
		job.AllDeps = append(job.AllDeps, depID)
		if _, inRun := b.jobs[depID]; inRun {
			job.PipelineDeps = append(job.PipelineDeps, depID)
		} else {
			logger.Debug("Dependency not built earlier in this run, no edge.",
				"job", id, "dependency", depID)
		}
	}

	// The job becomes referenceable only after its own edges are resolved,
	// so it can never depend on itself.
	job.SanitizedName = b.names.Claim(id)
	b.jobs[id] = job
	b.order = append(b.order, id)

	logger.Debug("Added job.", "id", id, "name", job.SanitizedName,
		"total_deps", len(job.AllDeps), "pipeline_deps", len(job.PipelineDeps))
}

// Jobs returns all jobs in the order their specs were processed.
func (b *Builder) Jobs() []*Job {
	jobs := make([]*Job, 0, len(b.order))
	for _, id := range b.order {
		jobs = append(jobs, b.jobs[id])
	}
	return jobs
}

// Lookup returns the job with the given identity, if present.
func (b *Builder) Lookup(id string) (*Job, bool) {
	job, ok := b.jobs[id]
	return job, ok
}

// Len returns the number of jobs added so far.
func (b *Builder) Len() int {
	return len(b.order)
}
