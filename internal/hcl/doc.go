// Package hcl implements the config.Loader interface for HCL buildset
// documents. It discovers .hcl files, decodes their package blocks, and
// translates them into the format-agnostic config model.
package hcl
