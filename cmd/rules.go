package cmd

import (
	"fmt"

	"github.com/rulelens/rulelens-cli/internal/association"
	"github.com/spf13/cobra"
)

// ruleFlags are the filter flags shared by the rules, export and summary
// commands. Each command registers its own copy so flag state never leaks
// between commands.
type ruleFlags struct {
	minLeverage float64
	minStrength float64
	minSupport  float64
	minPValue   float64
	items       []string
}

func addRuleFlags(cmd *cobra.Command, rf *ruleFlags) {
	cmd.Flags().Float64Var(&rf.minLeverage, "min-leverage", 0, "minimum leverage")
	cmd.Flags().Float64Var(&rf.minStrength, "min-strength", 0, "minimum strength (confidence)")
	cmd.Flags().Float64Var(&rf.minSupport, "min-support", 0, "minimum support")
	cmd.Flags().Float64Var(&rf.minPValue, "min-p-value", 0, "minimum p-value")
	cmd.Flags().StringArrayVar(&rf.items, "item", nil, "item name the rule must involve (repeatable)")
}

// filter builds a RuleFilter from the flags that were actually set.
func (rf *ruleFlags) filter(cmd *cobra.Command) association.RuleFilter {
	var f association.RuleFilter
	flags := cmd.Flags()
	if flags.Changed("min-leverage") {
		v := rf.minLeverage
		f.MinLeverage = &v
	}
	if flags.Changed("min-strength") {
		v := rf.minStrength
		f.MinStrength = &v
	}
	if flags.Changed("min-support") {
		v := rf.minSupport
		f.MinSupport = &v
	}
	if flags.Changed("min-p-value") {
		v := rf.minPValue
		f.MinPValue = &v
	}
	for _, name := range rf.items {
		f.Items = append(f.Items, association.ByName(name))
	}
	return f
}

var rulesFlags ruleFlags

var rulesCmd = &cobra.Command{
	Use:   "rules <association-id>",
	Short: "List the rules of an association model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assoc, err := loadAssociation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rules, err := assoc.Rules(rulesFlags.filter(cmd))
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			fmt.Println("(no rules)")
			return nil
		}
		for _, rule := range rules {
			lhs, rhs := assoc.Describe(rule)
			fmt.Printf("%s: %s -> %s [%s]\n", rule.ID, lhs, rhs, association.MetricString(rule))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	addRuleFlags(rulesCmd, &rulesFlags)
}
