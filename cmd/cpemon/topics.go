// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cpemon/internal/transcript"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print the canonical topic dictionary",
	Long: `Topics prints the canonical subject-area names used to split activity
row text, in match-priority order: when a row could match more than one
topic, the one listed first wins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics := transcript.Topics()

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(topics)
		}

		for i, topic := range topics {
			fmt.Printf("%2d  %s\n", i+1, topic)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(topicsCmd)
}
