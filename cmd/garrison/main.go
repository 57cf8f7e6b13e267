// Package main provides the entry point for the garrison CLI tool.
package main

import "github.com/garrisonhq/garrison/cmd/garrison/cmd"

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
