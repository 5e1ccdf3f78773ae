package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_InvalidBuildSet(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A buildset document with a syntax error must fail the run with a
	// load error, not a panic.
	invalidHCL := `
		package "zlib" "1.2.13" {
			toolchain {
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "set.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0o600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"--log-level=error", filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should surface the loader failure")
	require.Contains(t, runErr.Error(), "failed to load build specs")
}

func TestRun_GeneratesPipelineFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// No source attribute: the job script must still name the conventional
	// spec file rather than degenerate to `eb .`.
	buildSet := `
package "zlib" "1.2.13" {
}
`
	tempDir := t.TempDir()
	specPath := filepath.Join(tempDir, "set.hcl")
	require.NoError(t, os.WriteFile(specPath, []byte(buildSet), 0o600))
	outDir := filepath.Join(tempDir, "out")

	args := []string{
		"--log-level=error",
		"--output-dir=" + outDir,
		"--gitlab-config=" + filepath.Join(tempDir, "absent.yml"),
		specPath,
	}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outDir, "easybuild-child-pipeline.yml"))
	require.NoError(t, err, "pipeline file should have been written")
	require.Contains(t, string(data), "zlib-1.2.13:")
	require.Contains(t, string(data), "eb zlib-1.2.13.eb")
	require.Contains(t, out.String(), "GitLab CI pipeline generated successfully!")
}
