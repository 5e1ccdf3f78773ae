package pipeline

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Retry is a GitLab CI retry policy.
type Retry struct {
	Max  int      `yaml:"max"`
	When []string `yaml:"when,omitempty"`
}

// FallbackRetry is the retry policy applied when the external defaults
// document does not specify one.
func FallbackRetry() *Retry {
	return &Retry{
		Max: 2,
		When: []string{
			"runner_system_failure",
			"stuck_or_timeout_failure",
			"job_execution_timeout",
		},
	}
}

// DefaultBlock is the manifest's `default` section. Keys absent from the
// external defaults document stay absent here, except retry.
type DefaultBlock struct {
	BeforeScript []string   `yaml:"before_script,omitempty"`
	AfterScript  []string   `yaml:"after_script,omitempty"`
	Tags         []string   `yaml:"tags,omitempty"`
	IDTokens     *yaml.Node `yaml:"id_tokens,omitempty"`
	Retry        *Retry     `yaml:"retry,omitempty"`
	Timeout      string     `yaml:"timeout,omitempty"`
	Image        *yaml.Node `yaml:"image,omitempty"`
}

// Artifacts declares what a job uploads after it finishes.
type Artifacts struct {
	When     string   `yaml:"when"`
	Paths    []string `yaml:"paths"`
	ExpireIn string   `yaml:"expire_in"`
}

// JobEntry is one job definition in the manifest. Field order here is the
// key order in the emitted YAML.
type JobEntry struct {
	Name string `yaml:"-"`

	Stage     string     `yaml:"stage"`
	Tags      []string   `yaml:"tags,omitempty"`
	Script    []string   `yaml:"script"`
	Variables *Vars      `yaml:"variables,omitempty"`
	Timeout   string     `yaml:"timeout,omitempty"`
	Artifacts *Artifacts `yaml:"artifacts,omitempty"`
	Needs     []string   `yaml:"needs,omitempty"`
}

// Manifest is the emitted child-pipeline document. Jobs keep insertion
// order, which matches the spec processing order.
type Manifest struct {
	Stages    []string
	Variables *Vars
	Default   *DefaultBlock
	Jobs      []*JobEntry

	jobNames map[string]*JobEntry
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Variables: NewVars(),
		jobNames:  make(map[string]*JobEntry),
	}
}

// AddJob appends a job entry. The entry's Name becomes its manifest key.
func (m *Manifest) AddJob(entry *JobEntry) {
	m.Jobs = append(m.Jobs, entry)
	m.jobNames[entry.Name] = entry
}

// Job returns the entry with the given sanitized name, if present.
func (m *Manifest) Job(name string) (*JobEntry, bool) {
	entry, ok := m.jobNames[name]
	return entry, ok
}

// MarshalYAML renders the canonical section order: stages, variables,
// default, then every job in insertion order. GitLab itself treats the
// document as an unordered mapping, but humans reviewing generated
// pipelines do not.
func (m *Manifest) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	appendEntry := func(key string, value any) error {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(value); err != nil {
			return err
		}
		root.Content = append(root.Content, keyNode, valNode)
		return nil
	}

	if len(m.Stages) > 0 {
		if err := appendEntry("stages", m.Stages); err != nil {
			return nil, err
		}
	}
	if m.Variables != nil && m.Variables.Len() > 0 {
		if err := appendEntry("variables", m.Variables); err != nil {
			return nil, err
		}
	}
	if m.Default != nil {
		if err := appendEntry("default", m.Default); err != nil {
			return nil, err
		}
	}
	for _, job := range m.Jobs {
		if err := appendEntry(job.Name, job); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Render serializes the manifest to YAML. Rendering happens fully in
// memory so a failed run never leaves a partial file behind.
func (m *Manifest) Render() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
