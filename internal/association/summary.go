package association

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const summaryIndent = "        "

// Summarize writes a ranked report of the strongest rules. For each metric
// the filtered rules are sorted descending and the top lines are printed;
// a rule and its exact mirror (antecedent and consequent swapped, identical
// metrics) collapse into one bidirectional line.
func (a *Association) Summarize(w io.Writer, limit int, f RuleFilter) error {
	rules, err := a.Rules(f)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total number of rules: %d\n", len(rules)); err != nil {
		return err
	}
	for _, metric := range ruleMetrics {
		if _, err := fmt.Fprintf(w, "\n\nTop %d by %s:\n\n", limit, metricLabels[metric]); err != nil {
			return err
		}
		// Over-fetch so that collapsed pairs still leave enough lines.
		top := topByMetric(rules, metric, limit*2)
		var lines []string
		emitted := make(map[string]bool)
		for _, rule := range top {
			lhsText, rhsText := a.Describe(rule)
			ms := metricString(rule, false)
			operator := "->"
			idLabel := fmt.Sprintf("Rule %s: ", rule.ID)
			for _, other := range top {
				if sameIndices(rule.RHS, other.LHS) && sameIndices(rule.LHS, other.RHS) &&
					ms == metricString(other, true) {
					idLabel = fmt.Sprintf("Rules %s, %s: ", rule.ID, other.ID)
					operator = "<->"
				}
			}
			line := fmt.Sprintf("%s %s %s [%s]", lhsText, operator, rhsText, ms)
			reversed := fmt.Sprintf("%s %s %s [%s]", rhsText, operator, lhsText, ms)
			// The mirror of an already-emitted bidirectional line is skipped
			// so each pair prints once.
			if operator == "->" || !emitted[reversed] {
				emitted[line] = true
				lines = append(lines, summaryIndent+idLabel+line)
				if len(lines) >= limit {
					break
				}
			}
		}
		if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// topByMetric returns up to n rules sorted descending by a metric, keeping
// the original relative order between equal values.
func topByMetric(rules []Rule, metric string, n int) []Rule {
	top := make([]Rule, len(rules))
	copy(top, rules)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].metric(metric).Value() > top[j].metric(metric).Value()
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}
