// Package config defines the format-agnostic model for package build
// specifications, along with the Loader interface for reading them from a
// concrete source format.
//
// A `config.BuildSet` is the single source of truth for the `graph` and
// `pipeline` packages. Concrete Loader implementations, such as for HCL,
// are provided in separate packages.
package config
