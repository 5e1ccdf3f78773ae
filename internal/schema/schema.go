// Package schema defines the HCL block structures for buildset documents,
// the on-disk format in which the upstream resolver hands over package
// build specifications.
package schema

import "github.com/hashicorp/hcl/v2"

// ToolchainBlock represents the `toolchain` block of a package or dependency.
type ToolchainBlock struct {
	Name    string `hcl:"name"`
	Version string `hcl:"version,optional"`
}

// DependencyBlock represents a `dependency` block within a package. An
// external dependency is pre-satisfied outside the pipeline and is never
// turned into a job edge.
type DependencyBlock struct {
	Name      string          `hcl:"name,label"`
	Version   string          `hcl:"version,label"`
	Toolchain *ToolchainBlock `hcl:"toolchain,block"`
	External  bool            `hcl:"external,optional"`
}

// PackageBlock represents a `package` block from a buildset file: one build
// unit with its toolchain, source spec file, and dependency list.
type PackageBlock struct {
	Name         string             `hcl:"name,label"`
	Version      string             `hcl:"version,label"`
	Toolchain    *ToolchainBlock    `hcl:"toolchain,block"`
	Source       string             `hcl:"source,optional"`
	Dependencies []*DependencyBlock `hcl:"dependency,block"`
	// Variables is an optional map expression of per-package variable
	// overrides, evaluated at load time.
	Variables hcl.Expression `hcl:"variables,optional"`
}

// BuildSetFile represents the top-level structure of a single buildset file.
type BuildSetFile struct {
	Packages []*PackageBlock `hcl:"package,block"`
	Remain   hcl.Body        `hcl:",remain"`
}
