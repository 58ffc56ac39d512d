// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litsearch/internal/search"
)

var showCmd = &cobra.Command{
	Use:   "show <results.yaml>",
	Short: "Print results saved by search --save",
	Long: `Show renders a result file written by "search --save" in any output
format without querying the sources again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rf, err := search.ReadResultFile(args[0])
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		asCSL, _ := cmd.Flags().GetBool("csl")

		if !asJSON && !asCSL {
			fmt.Fprintf(cmd.OutOrStdout(), "Query: %s\n\n", rf.Query)
		}
		return writeResults(cmd.OutOrStdout(), rf.Results, asJSON, asCSL)
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "output results as JSON")
	showCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	showCmd.MarkFlagsMutuallyExclusive("json", "csl")

	rootCmd.AddCommand(showCmd)
}
