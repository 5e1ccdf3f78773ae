package graph

// Depths computes the dependency depth of every job: 0 for jobs with no
// pipeline dependencies, otherwise max over dependency depths plus one.
// Pipeline edges only ever point at earlier jobs, so the walk cannot cycle.
// The result is a reporting metric and, under the leveled stage policy, the
// stage ordering key; it does not feed back into edge construction.
func Depths(jobs []*Job) map[string]int {
	depths := make(map[string]int, len(jobs))
	byID := make(map[string]*Job, len(jobs))
	for _, job := range jobs {
		byID[job.ID] = job
	}

	var depthOf func(id string) int
	depthOf = func(id string) int {
		if d, ok := depths[id]; ok {
			return d
		}
		job := byID[id]
		max := -1
		for _, dep := range job.PipelineDeps {
			if _, inRun := byID[dep]; !inRun {
				continue
			}
			if d := depthOf(dep); d > max {
				max = d
			}
		}
		depths[id] = max + 1
		return max + 1
	}

	for _, job := range jobs {
		depthOf(job.ID)
	}
	return depths
}

// MaxDepth returns the largest value in a Depths result, or 0 when there
// are no jobs.
func MaxDepth(depths map[string]int) int {
	max := 0
	for _, d := range depths {
		if d > max {
			max = d
		}
	}
	return max
}

// ForwardRefs reports, per job, the dependencies that name another job in
// the run but did not become edges because that job appeared later in the
// input. A non-empty result means the input order violated dependency order
// and the generated graph is missing ordering constraints.
func ForwardRefs(jobs []*Job) map[string][]string {
	inRun := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		inRun[job.ID] = struct{}{}
	}

	refs := make(map[string][]string)
	for _, job := range jobs {
		linked := make(map[string]struct{}, len(job.PipelineDeps))
		for _, dep := range job.PipelineDeps {
			linked[dep] = struct{}{}
		}
		for _, dep := range job.AllDeps {
			if _, ok := linked[dep]; ok {
				continue
			}
			if _, present := inRun[dep]; present {
				refs[job.ID] = append(refs[job.ID], dep)
			}
		}
	}
	return refs
}
