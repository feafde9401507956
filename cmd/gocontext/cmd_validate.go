// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateRulesPath string

var validateRulesCmd = &cobra.Command{
	Use:   "validate-rules",
	Short: "Load a rule file and report whether it parses and validates",
	RunE:  runValidateRules,
}

func init() {
	validateRulesCmd.Flags().StringVar(&validateRulesPath, "rules", "default", "rule file path (.json/.yaml), or \"default\" for the bundled rule set")
}

func runValidateRules(cmd *cobra.Command, args []string) error {
	rules, err := loadRules(validateRulesPath)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "invalid: %v\n", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rule(s) loaded from %s\n", len(rules), validateRulesPath)
	for _, r := range rules {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %q direction=%s\n", r.Category, r.Literal, r.Direction)
	}
	return nil
}
