package association

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ruleMetrics is the fixed order in which rule metrics are reported.
var ruleMetrics = []string{"lhs_cover", "support", "confidence", "leverage", "lift", "p_value"}

var metricLabels = map[string]string{
	"lhs_cover":  "Coverage",
	"support":    "Support",
	"confidence": "Confidence",
	"leverage":   "Leverage",
	"lift":       "Lift",
	"p_value":    "p-value",
}

// MetricValue is a rule metric that arrives either as a bare scalar or as a
// [fraction, count] pair.
type MetricValue struct {
	Fraction float64
	Count    int
	Paired   bool
}

func (m *MetricValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("decode metric pair: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("metric pair has %d elements, want 2", len(pair))
		}
		m.Fraction = pair[0]
		m.Count = int(pair[1])
		m.Paired = true
		return nil
	}
	m.Paired = false
	m.Count = 0
	if err := json.Unmarshal(data, &m.Fraction); err != nil {
		return fmt.Errorf("decode metric value: %w", err)
	}
	return nil
}

func (m MetricValue) MarshalJSON() ([]byte, error) {
	if m.Paired {
		return json.Marshal([2]float64{m.Fraction, float64(m.Count)})
	}
	return json.Marshal(m.Fraction)
}

// Value returns the scalar used for sorting and threshold checks.
func (m MetricValue) Value() float64 { return m.Fraction }

// MetricString describes the values of all metrics for a rule, e.g.
// "Coverage=40.00% (20); Support=30.00% (15); Confidence=80.00%; ...".
func MetricString(r Rule) string {
	return metricString(r, false)
}

// metricString builds the metric report for a rule. With reverse set, the
// Coverage fragment reads the rule's consequent coverage instead of its
// antecedent coverage while keeping the Coverage label. That string is only
// meaningful for equality comparison against a forward string when probing
// for the mirror rule of a bidirectional pair; it is never displayed.
func metricString(r Rule, reverse bool) string {
	parts := make([]string, 0, len(ruleMetrics))
	for _, metric := range ruleMetrics {
		key := metric
		if reverse && metric == "lhs_cover" {
			key = "rhs_cover"
		}
		value := r.metric(key)
		label := metricLabels[metric]
		switch {
		case value.Paired:
			parts = append(parts, fmt.Sprintf("%s=%.2f%% (%d)", label, percent(value.Fraction), value.Count))
		case metric == "confidence":
			parts = append(parts, fmt.Sprintf("%s=%.2f%%", label, percent(value.Fraction)))
		default:
			parts = append(parts, fmt.Sprintf("%s=%s", label, formatFloat(value.Fraction)))
		}
	}
	return strings.Join(parts, "; ")
}

// percent rounds a fraction to 4 decimals and scales it to a percentage.
func percent(fraction float64) float64 {
	return math.Round(fraction*10000) / 100
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
