// Package main is the entry point for the lolmetrics CLI tool, which rebuilds
// LoL match timelines from live-data captures and computes team metrics.
package main

import "github.com/pable/go-lol-metrics/cmd"

func main() {
	cmd.Execute()
}
