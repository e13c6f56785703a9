// Package main provides the EmberSQL command-line interface.
package main

import (
	"os"

	"github.com/embersql/embersql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
