// Package main is the entry point for the ckmetrics CLI tool, which computes
// corner-kick and field-tilt season metrics from per-fixture team exports.
package main

import "github.com/pable/go-ck-metrics/cmd"

func main() {
	cmd.Execute()
}
