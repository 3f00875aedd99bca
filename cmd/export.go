package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportFlags  ruleFlags
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <association-id>",
	Short: "Export the rules of an association model as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assoc, err := loadAssociation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := assoc.ExportCSV(exportOutput, exportFlags.filter(cmd)); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addRuleFlags(exportCmd, &exportFlags)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "destination CSV file")
}
