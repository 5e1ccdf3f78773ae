package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/app"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/cli"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/hcl"
)

// main is the entrypoint for the ebgitlab pipeline generator.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. On success the process falls straight through to a zero exit:
// generation never proceeds into an actual build.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	generator := app.NewApp(outW, appConfig, loader)

	return generator.Run(context.Background())
}
