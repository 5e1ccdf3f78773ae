package pipeline

import (
	"fmt"
	"sort"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/graph"
)

// StagePolicy selects how jobs are distributed across pipeline stages.
type StagePolicy string

const (
	// StageFlat puts every job into a single "build" stage; ordering is
	// expressed purely through `needs` edges, which gives the scheduler
	// maximum parallelism. This is the default.
	StageFlat StagePolicy = "flat"
	// StageLeveled gives every job its own stage, named after the job.
	// The stage list is ordered by dependency depth so schedulers that
	// gate on stage ordinals still run dependencies first.
	StageLeveled StagePolicy = "leveled"
)

// flatStageName is the single stage used under the flat policy.
const flatStageName = "build"

// ParseStagePolicy validates a policy name from the CLI.
func ParseStagePolicy(s string) (StagePolicy, error) {
	switch StagePolicy(s) {
	case StageFlat, StageLeveled:
		return StagePolicy(s), nil
	}
	return "", fmt.Errorf("invalid stage policy %q: must be %q or %q", s, StageFlat, StageLeveled)
}

// assignStages computes the manifest's stage list and the per-job stage
// name, keyed by job ID.
func assignStages(jobs []*graph.Job, policy StagePolicy) (stages []string, byJob map[string]string) {
	byJob = make(map[string]string, len(jobs))

	if policy == StageFlat {
		for _, job := range jobs {
			byJob[job.ID] = flatStageName
		}
		if len(jobs) > 0 {
			stages = []string{flatStageName}
		}
		return stages, byJob
	}

	// Leveled: one stage per job, listed in dependency-depth order. The
	// sort is stable over insertion order, so jobs at the same depth keep
	// their input order.
	depths := graph.Depths(jobs)
	ordered := make([]*graph.Job, len(jobs))
	copy(ordered, jobs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return depths[ordered[i].ID] < depths[ordered[j].ID]
	})
	for _, job := range ordered {
		byJob[job.ID] = job.SanitizedName
		stages = append(stages, job.SanitizedName)
	}
	return stages, byJob
}
