// Package config loads and merges the action configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. INPUT_* environment variables set by the GitHub Actions runner
//  3. Config file (cloak.yaml in the working directory, or --config)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [Config.Validate] to check that
// every required input is present before the pipeline starts. Secrets
// (repo-token, cloak-action-token) are only ever read from the environment.
package config
