package config

// BuildSet is the unified, format-agnostic representation of one generation
// run's input: an ordered list of package build specifications. Order is
// significant: the upstream resolver emits packages in dependency order.
type BuildSet struct {
	Packages []*PackageSpec
}

// Toolchain is a compiler toolchain name/version pair.
type Toolchain struct {
	Name    string
	Version string
}

// IsSystem reports whether the toolchain is the bare system toolchain,
// which does not contribute a suffix to module identities.
func (t Toolchain) IsSystem() bool {
	return t.Name == "" || t.Name == "system" || t.Name == "dummy"
}

// Dependency is one entry of a package's dependency list. External
// dependencies are pre-satisfied outside the current run and never become
// graph edges.
type Dependency struct {
	Name      string
	Version   string
	Toolchain Toolchain
	External  bool
}

// Identity returns the canonical module identity of the dependency, or an
// empty string when the dependency is too incomplete to resolve.
func (d Dependency) Identity() string {
	return moduleIdentity(d.Name, d.Version, d.Toolchain)
}

// PackageSpec describes one build unit. It is immutable once produced by a
// Loader and lives for the duration of a single generation run.
type PackageSpec struct {
	Name       string
	Version    string
	Toolchain  Toolchain
	SourcePath string
	// Dependencies holds build and runtime dependencies in declaration order.
	Dependencies []Dependency
	// Variables are per-package variable overrides carried into the job.
	Variables map[string]string
}

// Identity returns the canonical module identity of the package, or an empty
// string when name or version is missing.
func (s *PackageSpec) Identity() string {
	return moduleIdentity(s.Name, s.Version, s.Toolchain)
}

// moduleIdentity builds the canonical `name/version[-tcname-tcversion]`
// module key, mirroring how full module names fold the toolchain into the
// version suffix. Missing name or version resolves to "".
func moduleIdentity(name, version string, tc Toolchain) string {
	if name == "" || version == "" {
		return ""
	}
	id := name + "/" + version
	if !tc.IsSystem() {
		id += "-" + tc.Name
		if tc.Version != "" {
			id += "-" + tc.Version
		}
	}
	return id
}
