package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func writeDefaults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".gitlab-ci.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write defaults fixture: %v", err)
	}
	return path
}

func TestLoadDefaults_FullDocument(t *testing.T) {
	t.Parallel()

	path := writeDefaults(t, `
default:
  before_script:
    - ml python
    - source /opt/eb/activate
  tags:
    - batch
  retry:
    max: 1
    when:
      - runner_system_failure
  timeout: 8h
  image: registry.example.org/eb:latest

execute_builds:
  stage: build
  variables:
    EB_PATH: $EB_PATH
    ROBOT_PATHS: /specs
`)

	ext, err := LoadDefaults(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadDefaults returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"ml python", "source /opt/eb/activate"}, ext.Default.BeforeScript); diff != "" {
		t.Errorf("before_script mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"batch"}, ext.Default.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if ext.Default.Retry == nil || ext.Default.Retry.Max != 1 {
		t.Errorf("retry not loaded: %+v", ext.Default.Retry)
	}
	if ext.Default.Timeout != "8h" {
		t.Errorf("timeout = %q, want 8h", ext.Default.Timeout)
	}
	if got := ext.ChildVariables.Keys(); len(got) != 2 {
		t.Errorf("expected 2 child variables, got %v", got)
	}
}

func TestLoadDefaults_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadDefaults(context.Background(), filepath.Join(t.TempDir(), "absent.yml"))
	if err == nil {
		t.Fatal("expected an error for a missing defaults file")
	}
}

func TestApplyDefaults_RetryFallback(t *testing.T) {
	t.Parallel()

	// Arrange: the external document has a default section without retry.
	path := writeDefaults(t, `
default:
  tags:
    - batch
`)
	ext, err := LoadDefaults(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadDefaults returned error: %v", err)
	}
	m := NewManifest()

	// Act
	m.ApplyDefaults(context.Background(), ext)

	// Assert
	want := &Retry{
		Max: 2,
		When: []string{
			"runner_system_failure",
			"stuck_or_timeout_failure",
			"job_execution_timeout",
		},
	}
	if diff := cmp.Diff(want, m.Default.Retry); diff != "" {
		t.Errorf("retry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"batch"}, m.Default.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	// Keys absent from the external document stay absent.
	if m.Default.BeforeScript != nil || m.Default.Timeout != "" || m.Default.Image != nil {
		t.Errorf("unexpected forced defaults: %+v", m.Default)
	}
}

func TestApplyDefaults_SelfReferencingVariablesSkipped(t *testing.T) {
	t.Parallel()

	path := writeDefaults(t, `
execute_builds:
  variables:
    EB_PATH: $EB_PATH
    EB_PREFIX: ${EB_PREFIX}
    ROBOT_PATHS: /specs
`)
	ext, err := LoadDefaults(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadDefaults returned error: %v", err)
	}
	m := NewManifest()

	m.ApplyDefaults(context.Background(), ext)

	if _, ok := m.Variables.Get("EB_PATH"); ok {
		t.Error("self-referencing $EB_PATH should have been skipped")
	}
	if _, ok := m.Variables.Get("EB_PREFIX"); ok {
		t.Error("self-referencing ${EB_PREFIX} should have been skipped")
	}
	if v, _ := m.Variables.Get("ROBOT_PATHS"); v != "/specs" {
		t.Errorf("ROBOT_PATHS = %v, want /specs", v)
	}
}

func TestApplyDefaults_GeneratedValuesWin(t *testing.T) {
	t.Parallel()

	path := writeDefaults(t, `
execute_builds:
  variables:
    EASYBUILD_MODULES_TOOL: EnvironmentModules
    EXTRA: external
`)
	ext, err := LoadDefaults(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadDefaults returned error: %v", err)
	}
	m := NewManifest()
	m.Variables.Set("EASYBUILD_MODULES_TOOL", "Lmod")

	m.ApplyDefaults(context.Background(), ext)

	if v, _ := m.Variables.Get("EASYBUILD_MODULES_TOOL"); v != "Lmod" {
		t.Errorf("generated value was overwritten: %v", v)
	}
	if v, _ := m.Variables.Get("EXTRA"); v != "external" {
		t.Errorf("absent key should have been filled: %v", v)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	t.Parallel()

	path := writeDefaults(t, `
default:
  tags:
    - batch
  timeout: 4h
execute_builds:
  variables:
    EXTRA: external
`)
	ext, err := LoadDefaults(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadDefaults returned error: %v", err)
	}
	m := NewManifest()
	m.Variables.Set("EASYBUILD_MODULES_TOOL", "Lmod")
	m.AddJob(&JobEntry{Name: "zlib-1.2.13", Stage: "build", Script: []string{"eb zlib.eb"}})

	m.ApplyDefaults(context.Background(), ext)
	once, err := m.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	m.ApplyDefaults(context.Background(), ext)
	twice, err := m.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if diff := cmp.Diff(string(once), string(twice)); diff != "" {
		t.Errorf("merge is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestApplyDefaults_EmptyDefaults(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	m.ApplyDefaults(context.Background(), EmptyDefaults())

	if m.Default == nil || m.Default.Retry == nil {
		t.Fatal("empty defaults must still apply the retry fallback")
	}
}

func TestRender_CanonicalSectionOrder(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	m.Stages = []string{"build"}
	m.Variables.Set("EASYBUILD_MODULES_TOOL", "Lmod")
	m.AddJob(&JobEntry{Name: "zlib-1.2.13", Stage: "build", Script: []string{"eb zlib.eb"}})
	m.AddJob(&JobEntry{Name: "libpng-1.6.39", Stage: "build", Script: []string{"eb libpng.eb"},
		Needs: []string{"zlib-1.2.13"}})
	m.ApplyDefaults(context.Background(), EmptyDefaults())

	data, err := m.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	out := string(data)

	order := []string{"stages:", "variables:", "default:", "zlib-1.2.13:", "libpng-1.6.39:"}
	last := -1
	for _, section := range order {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("section %q missing from output:\n%s", section, out)
		}
		if idx < last {
			t.Errorf("section %q out of order in output:\n%s", section, out)
		}
		last = idx
	}

	// The document must still parse as regular YAML.
	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("rendered document is not valid YAML: %v", err)
	}
	if _, ok := parsed["libpng-1.6.39"]; !ok {
		t.Error("job entry missing from parsed document")
	}
}
