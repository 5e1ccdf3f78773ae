// Package pipeline assembles the GitLab CI child-pipeline manifest: it
// assigns stages, synthesizes per-job commands, variables, resources and
// artifacts, layers external defaults onto the result, and renders the
// manifest as deterministically ordered YAML.
package pipeline
