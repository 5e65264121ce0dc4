// Package app contains the core application logic. It loads the input
// files, merges the command line parameters over them, builds every block
// into a configured action and audits what the build consumed, decoupled
// from any specific entrypoint like a CLI.
package app
