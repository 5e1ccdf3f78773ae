package app

import (
	"errors"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/pipeline"
)

// PipelineFileName is the manifest file written into the output directory.
const PipelineFileName = "easybuild-child-pipeline.yml"

// Config holds all the configuration an App instance needs for one
// generation run.
type Config struct {
	// SpecPath is a buildset file or a directory of buildset files.
	SpecPath string
	// GitlabConfigPath is the outer .gitlab-ci.yml whose defaults are
	// merged into the generated pipeline.
	GitlabConfigPath string
	// OutputDir overrides where the pipeline file is written. Empty means
	// the EASYBUILD_JOB_OUTPUT_DIR environment setting, then the current
	// directory.
	OutputDir string
	// StagePolicy selects flat or leveled stage assignment.
	StagePolicy pipeline.StagePolicy

	LogFormat string
	LogLevel  string

	// EBArgs is the base eb argument list passed through to job commands.
	EBArgs []string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SpecPath == "" {
		return nil, errors.New("SpecPath is a required configuration field and cannot be empty")
	}
	if cfg.StagePolicy == "" {
		cfg.StagePolicy = pipeline.StageFlat
	}
	return &cfg, nil
}
