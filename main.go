// Package main is the entry point for the objdiff CLI.
package main

import "objdiff.dev/pkg/objdiff/cmd"

func main() {
	cmd.Execute()
}
