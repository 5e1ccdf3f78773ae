package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/app"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/pipeline"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ebgitlab", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ebgitlab - Generates a GitLab CI child pipeline from package build specs.

Usage:
  ebgitlab [options] SPEC_PATH [-- EB_ARGS...]

Arguments:
  SPEC_PATH
    Path to a single .hcl buildset file or a directory containing them.
  EB_ARGS
    Arguments passed through to the eb command of every generated job.

Options:
`)
		flagSet.PrintDefaults()
	}

	specsFlag := flagSet.String("specs", "", "Path to the buildset file or directory.")
	sFlag := flagSet.String("s", "", "Path to the buildset file or directory (shorthand).")
	outputDirFlag := flagSet.String("output-dir", "", "Directory for the generated pipeline file. Defaults to EASYBUILD_JOB_OUTPUT_DIR, then the current directory.")
	gitlabConfigFlag := flagSet.String("gitlab-config", ".gitlab-ci.yml", "Path to the outer GitLab CI config whose defaults are merged in.")
	stagePolicyFlag := flagSet.String("stage-policy", string(pipeline.StageFlat), "Stage assignment policy. Options: 'flat' or 'leveled'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	rest := flagSet.Args()
	path := ""
	if *specsFlag != "" {
		path = *specsFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if len(rest) > 0 {
		path = rest[0]
		rest = rest[1:]
	}
	slog.Debug("Spec path determined.", "path", path)

	if path == "" {
		slog.Debug("No spec path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	policy, err := pipeline.ParseStagePolicy(strings.ToLower(*stagePolicyFlag))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SpecPath:         path,
		GitlabConfigPath: *gitlabConfigFlag,
		OutputDir:        *outputDirFlag,
		StagePolicy:      policy,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
		EBArgs:           rest,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
