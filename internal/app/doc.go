// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the generation lifecycle (load specs,
// build the job graph, assemble and merge the manifest, write it out),
// decoupled from any specific entrypoint like a CLI.
package app
