// Package cli wires together the Cobra command tree for the cloak binary.
//
// It defines the root command and all subcommands (run, config, version),
// binds flags, reads configuration, invokes the review pipeline, and returns
// deterministic exit codes so a workflow can branch on the outcome.
package cli
