package association

// Rule is a single association rule: if the antecedent items appear, the
// consequent items tend to appear as well. LHS and RHS hold indices into the
// global item list and never overlap. Rules are built once at load time and
// never mutated.
type Rule struct {
	ID         string      `json:"id"`
	LHS        []int       `json:"lhs"`
	RHS        []int       `json:"rhs"`
	LHSCover   MetricValue `json:"lhs_cover"`
	RHSCover   MetricValue `json:"rhs_cover"`
	Support    MetricValue `json:"support"`
	Confidence MetricValue `json:"confidence"`
	Leverage   MetricValue `json:"leverage"`
	Lift       MetricValue `json:"lift"`
	PValue     MetricValue `json:"p_value"`
}

func (r Rule) metric(key string) MetricValue {
	switch key {
	case "lhs_cover":
		return r.LHSCover
	case "rhs_cover":
		return r.RHSCover
	case "support":
		return r.Support
	case "confidence":
		return r.Confidence
	case "leverage":
		return r.Leverage
	case "lift":
		return r.Lift
	case "p_value":
		return r.PValue
	}
	return MetricValue{}
}

func sameIndices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
