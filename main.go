// Package main is the entry point for the lolmetrics CLI tool, which fetches
// League of Legends match timelines and computes lane performance analytics.
package main

import "github.com/laneiq/lolmetrics/cmd"

func main() {
	cmd.Execute()
}
