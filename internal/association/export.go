package association

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ruleHeaders is the fixed CSV header for rule exports.
var ruleHeaders = []string{
	"Rule ID", "Antecedent", "Consequent", "Antecedent Coverage %",
	"Antecedent Coverage", "Support %", "Support", "Confidence",
	"Leverage", "Lift", "p-value", "Consequent Coverage %",
	"Consequent Coverage",
}

// ExportCSV writes the filtered rules as CSV to the given path.
func (a *Association) ExportCSV(path string, f RuleFilter) error {
	if path == "" {
		return &MissingDestinationError{}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := a.WriteCSV(file, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// WriteCSV writes the filtered rules as CSV rows with the fixed header.
// Antecedent and consequent columns carry the human-readable item
// descriptions; percentage columns are the fraction scaled by 100.
func (a *Association) WriteCSV(w io.Writer, f RuleFilter) error {
	rules, err := a.Rules(f)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ruleHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rule := range rules {
		if err := cw.Write(a.csvRecord(rule)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (a *Association) csvRecord(r Rule) []string {
	lhs, rhs := a.Describe(r)
	return []string{
		r.ID,
		lhs,
		rhs,
		formatFloat(percent(r.LHSCover.Fraction)),
		strconv.Itoa(r.LHSCover.Count),
		formatFloat(percent(r.Support.Fraction)),
		strconv.Itoa(r.Support.Count),
		formatFloat(r.Confidence.Fraction),
		formatFloat(r.Leverage.Fraction),
		formatFloat(r.Lift.Fraction),
		formatFloat(r.PValue.Fraction),
		formatFloat(percent(r.RHSCover.Fraction)),
		strconv.Itoa(r.RHSCover.Count),
	}
}
