// Package main provides the entry point for the chainlint CLI tool.
package main

import (
	"context"
	"os"

	"github.com/Sumatoshi-tech/chainlint/cmd/chainlint/commands"
	"github.com/Sumatoshi-tech/chainlint/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	os.Exit(commands.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
