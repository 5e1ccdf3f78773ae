package graph

// Job is one CI-executable unit derived from a package spec. It is created
// by the Builder and later filled in (script, resources, artifacts) by the
// pipeline assembler.
type Job struct {
	// ID is the canonical module identity of the package.
	ID string
	// SanitizedName is the collision-free GitLab CI job name, unique
	// within one run.
	SanitizedName string
	// SourcePath locates the package's build-spec file.
	SourcePath string
	// AllDeps lists the identities of every resolved non-external
	// dependency. Informational only; it is not the edge set.
	AllDeps []string
	// PipelineDeps is the subset of AllDeps that is being built earlier in
	// this run. These are the only dependencies that become `needs` edges.
	PipelineDeps []string
	// Variables are per-package variable overrides from the spec.
	Variables map[string]string
}
