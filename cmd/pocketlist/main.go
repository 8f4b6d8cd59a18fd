// Package main is the entry point for the pocketlist CLI.
package main

import "github.com/pocketlist/pocketlist/internal/cli"

func main() {
	cli.Execute()
}
