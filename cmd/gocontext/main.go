// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

// Command gocontext is a one-shot CLI driver for the ConText engine: it
// loads a rule file, builds a toy whitespace-tokenized document, runs the
// pipeline, and prints the resulting context graph. It is a demonstration
// and smoke-test harness, not a server (spec.md §6, "No CLI; no
// environment variables; no persistent state" describes the library core;
// this driver is the out-of-scope CLI surface SPEC_FULL.md adds a home
// for).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gocontext",
	Short: "Run and validate ConText modifier/graph rule sets",
}

func main() {
	rootCmd.AddCommand(runCmd, validateRulesCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
