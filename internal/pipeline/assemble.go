package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/buildopts"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/ctxlog"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/graph"
)

// Assembler turns the job graph into a complete manifest by filling in
// stages, commands, variables, resources and artifact declarations.
type Assembler struct {
	Opts   *buildopts.Options
	Policy StagePolicy
	// RunID tags the generated pipeline so downstream logs can be tied
	// back to one generation run.
	RunID string
}

// Assemble builds the manifest for the given jobs, which must be in spec
// processing order.
func (a *Assembler) Assemble(ctx context.Context, jobs []*graph.Job) *Manifest {
	logger := ctxlog.FromContext(ctx)

	m := NewManifest()
	stages, stageByJob := assignStages(jobs, a.Policy)
	m.Stages = stages

	m.Variables.Set("EASYBUILD_MODULES_TOOL", "Lmod")
	m.Variables.Set("SCHEDULER_PARAMETERS", a.Opts.Passthrough("SCHEDULER_PARAMETERS"))
	m.Variables.Set("patheb", a.Opts.Passthrough("patheb"))
	m.Variables.Set("CUDA_COMPUTE_CAPABILITIES", a.Opts.PassthroughDefault("CUDA_COMPUTE_CAPABILITIES", "8.0"))
	m.Variables.Set("DRYRUN", a.Opts.Passthrough("DRYRUN"))
	if a.RunID != "" {
		m.Variables.Set("EB_PIPELINE_RUN_ID", a.RunID)
	}

	baseArgs, tmpLogDir, buildPath := filterEBArgs(a.Opts.EBArgs)

	for _, job := range jobs {
		entry := &JobEntry{
			Name:      job.SanitizedName,
			Stage:     stageByJob[job.ID],
			Script:    []string{a.ebCommand(baseArgs, job)},
			Variables: a.jobVariables(job),
			Timeout:   fmt.Sprintf("%dh", a.Opts.WalltimeHours),
			Artifacts: buildArtifacts(tmpLogDir, buildPath),
			Needs:     a.needs(jobs, job),
		}
		m.AddJob(entry)
		logger.Debug("Assembled job entry.", "name", entry.Name, "stage", entry.Stage,
			"needs", len(entry.Needs))
	}

	return m
}

// ebCommand reconstructs the eb invocation for one job: the filtered base
// argument list with this job's spec file appended.
func (a *Assembler) ebCommand(baseArgs []string, job *graph.Job) string {
	parts := append([]string{"eb"}, baseArgs...)
	if a.Opts.AcceptEULAFor != "" && !hasOption(baseArgs, "--accept-eula-for") {
		parts = append(parts, "--accept-eula-for="+a.Opts.AcceptEULAFor)
	}
	if a.Opts.DryRun {
		parts = append(parts, "--dry-run")
	}
	parts = append(parts, filepath.Base(job.SourcePath))
	return strings.Join(parts, " ")
}

// hasOption reports whether args already contain the named option, in
// either the bare or the = form.
func hasOption(args []string, name string) bool {
	for _, arg := range args {
		if arg == name || strings.HasPrefix(arg, name+"=") {
			return true
		}
	}
	return false
}

// jobVariables builds the per-job variables block: module identity,
// scheduler passthroughs, resource overrides, then spec-level overrides.
func (a *Assembler) jobVariables(job *graph.Job) *Vars {
	vars := NewVars()
	vars.Set("EB_MODULE_NAME", job.ID)
	vars.Set("SCHEDULER_PARAMETERS", a.Opts.Passthrough("SCHEDULER_PARAMETERS"))
	vars.Set("SLURM_CPUS_PER_TASK", strconv.Itoa(a.Opts.Cores))

	// Scheduler overrides are only worth emitting past the trivial defaults.
	if a.Opts.Cores > 1 {
		vars.Set("SBATCH_CPUS_PER_TASK", strconv.Itoa(a.Opts.Cores))
	}
	if a.Opts.WalltimeHours > 1 {
		vars.Set("SBATCH_TIME", fmt.Sprintf("%d:00:00", a.Opts.WalltimeHours))
	}

	keys := make([]string, 0, len(job.Variables))
	for k := range job.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vars.Set(k, job.Variables[k])
	}
	return vars
}

// needs maps a job's pipeline dependencies to their sanitized job names.
func (a *Assembler) needs(jobs []*graph.Job, job *graph.Job) []string {
	if len(job.PipelineDeps) == 0 {
		return nil
	}
	nameByID := make(map[string]string, len(jobs))
	for _, j := range jobs {
		nameByID[j.ID] = j.SanitizedName
	}
	var out []string
	for _, dep := range job.PipelineDeps {
		if name, ok := nameByID[dep]; ok {
			out = append(out, name)
		}
	}
	return out
}

// buildArtifacts declares the log uploads for a job. Specific log and build
// directory globs go ahead of the generic patterns when those directories
// are known from the eb arguments.
func buildArtifacts(tmpLogDir, buildPath string) *Artifacts {
	paths := []string{"*.log", "*.out", "*.err"}
	if buildPath != "" {
		paths = append([]string{buildPath + "/**/*.log"}, paths...)
	}
	if tmpLogDir != "" {
		paths = append([]string{tmpLogDir + "/*.log"}, paths...)
	}
	return &Artifacts{
		When:     "always",
		Paths:    paths,
		ExpireIn: "1 week",
	}
}

// filterEBArgs strips options that must not reach child jobs (--hooks,
// --job, and any *.eb spec arguments, each replaced per job later) and
// captures the --tmp-logdir and --buildpath values for artifact globs.
// All other arguments pass through verbatim.
func filterEBArgs(args []string) (kept []string, tmpLogDir, buildPath string) {
	skipPrefixes := []string{"--hooks", "--job"}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case strings.HasPrefix(arg, "--tmp-logdir="):
			tmpLogDir = strings.SplitN(arg, "=", 2)[1]
		case arg == "--tmp-logdir" && i+1 < len(args):
			tmpLogDir = args[i+1]
		case strings.HasPrefix(arg, "--buildpath="):
			buildPath = strings.SplitN(arg, "=", 2)[1]
		case arg == "--buildpath" && i+1 < len(args):
			buildPath = args[i+1]
		}

		skipped := false
		for _, prefix := range skipPrefixes {
			if !strings.HasPrefix(arg, prefix) {
				continue
			}
			skipped = true
			// A detached value belongs to the skipped option too.
			if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			break
		}
		if skipped || strings.HasSuffix(arg, ".eb") {
			continue
		}
		kept = append(kept, arg)
	}
	return kept, tmpLogDir, buildPath
}
