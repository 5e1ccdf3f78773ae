// Package buildopts collects the externally supplied build options the job
// assembler consumes: environment-derived settings plus the pass-through
// argument list for the generated eb commands.
package buildopts

import (
	"strconv"
	"strings"
)

// Defaults applied when the environment does not say otherwise.
const (
	DefaultCores         = 1
	DefaultWalltimeHours = 24
)

// GetenvFunc abstracts os.Getenv so option discovery is testable.
type GetenvFunc func(string) string

// Options is the read-only external context the job assembler queries.
type Options struct {
	// OutputDir is where the generated pipeline file is written.
	OutputDir string
	// Cores per job, translated into scheduler CPU variables.
	Cores int
	// WalltimeHours per job, translated into the job timeout.
	WalltimeHours int
	// DryRun appends --dry-run to every generated eb command.
	DryRun bool
	// AcceptEULAFor is passed through as --accept-eula-for.
	AcceptEULAFor string
	// EBArgs is the base eb argument list jobs are reconstructed from.
	EBArgs []string

	getenv GetenvFunc
}

// New derives Options from the environment and the given base eb arguments.
func New(getenv GetenvFunc, ebArgs []string) *Options {
	return &Options{
		OutputDir:     getenv("EASYBUILD_JOB_OUTPUT_DIR"),
		Cores:         intEnv(getenv, "EASYBUILD_JOB_CORES", DefaultCores),
		WalltimeHours: intEnv(getenv, "EASYBUILD_JOB_MAX_WALLTIME", DefaultWalltimeHours),
		DryRun:        IsTruthy(getenv("DRYRUN")),
		AcceptEULAFor: getenv("EASYBUILD_ACCEPT_EULA_FOR"),
		EBArgs:        ebArgs,
		getenv:        getenv,
	}
}

// Passthrough returns the environment value for name, or the literal
// "$name" reference so the downstream CI scheduler resolves it instead.
func (o *Options) Passthrough(name string) string {
	if v := o.getenv(name); v != "" {
		return v
	}
	return "$" + name
}

// PassthroughDefault is Passthrough with a fixed fallback value rather than
// a variable reference.
func (o *Options) PassthroughDefault(name, fallback string) string {
	if v := o.getenv(name); v != "" {
		return v
	}
	return fallback
}

// IsTruthy interprets the common affirmative spellings of an environment
// toggle.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func intEnv(getenv GetenvFunc, name string, fallback int) int {
	v := getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
