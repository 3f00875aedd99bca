package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	summaryFlags ruleFlags
	summaryLimit int
)

var summaryCmd = &cobra.Command{
	Use:   "summary <association-id>",
	Short: "Print the strongest rules per metric",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assoc, err := loadAssociation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		limit := summaryLimit
		if !cmd.Flags().Changed("limit") && cfg != nil && cfg.SummaryLimit > 0 {
			limit = cfg.SummaryLimit
		}
		return assoc.Summarize(os.Stdout, limit, summaryFlags.filter(cmd))
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addRuleFlags(summaryCmd, &summaryFlags)
	summaryCmd.Flags().IntVar(&summaryLimit, "limit", 10, "rules printed per metric")
}
