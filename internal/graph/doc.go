// Package graph builds the CI job graph from an ordered list of package
// build specifications. It decides which dependency edges survive into the
// generated pipeline: external dependencies are dropped, and edges are
// formed only to jobs that appear earlier in the input order.
package graph
