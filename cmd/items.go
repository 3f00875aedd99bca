package cmd

import (
	"fmt"

	"github.com/rulelens/rulelens-cli/internal/association"
	"github.com/spf13/cobra"
)

var (
	itemsField string
	itemsNames []string
)

var itemsCmd = &cobra.Command{
	Use:   "items <association-id>",
	Short: "List the items of an association model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assoc, err := loadAssociation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		filter := association.ItemFilter{Field: itemsField}
		if len(itemsNames) > 0 {
			filter.Names = itemsNames
		}
		items, err := assoc.Items(filter)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("(no items)")
			return nil
		}
		for _, item := range items {
			fmt.Printf("- %d: %s (count %d)\n", item.Index, item.Describe(assoc.Fields()), item.Count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.Flags().StringVar(&itemsField, "field", "", "restrict items to a field name or ID")
	itemsCmd.Flags().StringArrayVar(&itemsNames, "name", nil, "item name to include (repeatable)")
}
