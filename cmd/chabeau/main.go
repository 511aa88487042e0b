// Package main is Chabeau's entrypoint: parse CLI flags, wire up the
// external collaborators (config, provider registry, streaming client,
// logging), and hand off to the bubbletea event loop.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
