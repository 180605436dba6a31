// Package main is the entry point for the hotsplit CLI.
package main

import "hotsplit.dev/pkg/hotsplit/cmd"

func main() {
	cmd.Execute()
}
