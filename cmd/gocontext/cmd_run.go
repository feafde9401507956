// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gocontext/engine"
)

var (
	runRulesPath     string
	runText          string
	runTargets       []string
	runCaseSensitive bool
	runPrune         bool
	runMaxScope      int
	runMaxTargets    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a toy whitespace-tokenized document through the ConText engine",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runRulesPath, "rules", "default", "rule file path (.json/.yaml), or \"default\" for the bundled rule set")
	runCmd.Flags().StringVar(&runText, "text", "", "document text, whitespace-tokenized with '.' ending a sentence")
	runCmd.Flags().StringArrayVar(&runTargets, "target", nil, "target span as LABEL:start:end (token indices), repeatable")
	runCmd.Flags().BoolVar(&runCaseSensitive, "case-sensitive", false, "match modifiers against raw token text instead of lower-case form")
	runCmd.Flags().BoolVar(&runPrune, "prune", true, "enable overlapping-modifier pruning")
	runCmd.Flags().IntVar(&runMaxScope, "max-scope", 0, "engine-wide default max_scope (0 = unset)")
	runCmd.Flags().IntVar(&runMaxTargets, "max-targets", 0, "engine-wide default max_targets (0 = unset)")
}

func runRun(cmd *cobra.Command, args []string) error {
	rules, err := loadRules(runRulesPath)
	if err != nil {
		return err
	}

	var opts []engine.Option
	if runCaseSensitive {
		opts = append(opts, engine.WithPhraseMatcherAttr(engine.TextAttr))
	}
	if runMaxScope > 0 {
		opts = append(opts, engine.WithMaxScope(runMaxScope))
	}
	if runMaxTargets > 0 {
		opts = append(opts, engine.WithMaxTargets(runMaxTargets))
	}
	opts = append(opts, engine.WithPrune(runPrune))

	eng, err := engine.New(opts...)
	if err != nil {
		return fmt.Errorf("construct engine: %w", err)
	}
	if err := eng.AddRules(rules); err != nil {
		return fmt.Errorf("add rules: %w", err)
	}

	targets, err := parseTargets(runTargets)
	if err != nil {
		return err
	}

	doc := tokenizeDoc(runText)
	doc.SetEnts(targets)

	result, err := eng.Apply(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}

	printResult(cmd, result)
	return nil
}

func printResult(cmd *cobra.Command, result *engine.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d target(s), %d modifier(s), %d edge(s)\n\n",
		len(result.Graph.Targets()), len(result.Graph.Modifiers()), len(result.Graph.Edges()))

	for _, a := range result.Assertions {
		fmt.Fprintf(out, "%s [%d,%d)\n", a.Target.Label, a.Target.Start, a.Target.End)
		for _, m := range a.Modifiers {
			fmt.Fprintf(out, "  modifier: %q category=%s scope=[%d,%d)\n",
				m.Rule.Literal, m.Rule.Category, m.Scope().Start, m.Scope().End)
		}
		if a.IsNegated || a.IsUncertain || a.IsHistorical || a.IsHypothetical || a.IsFamily {
			fmt.Fprintf(out, "  negated=%v uncertain=%v historical=%v hypothetical=%v family=%v\n",
				a.IsNegated, a.IsUncertain, a.IsHistorical, a.IsHypothetical, a.IsFamily)
		}
	}
}
