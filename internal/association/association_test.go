package association

import (
	"errors"
	"reflect"
	"testing"
)

// basketResource is a single-field market-basket model. Rules 000000 and
// 000001 are exact mirrors of each other with identical metrics.
const basketResource = `{
 "resource": "association/5026966515526876630001b2",
 "object": {
  "status": {"code": 5},
  "associations": {
   "complement": false,
   "fields": {
    "000000": {"name": "products", "optype": "items"}
   },
   "items": [
    {"complement": false, "count": 30, "field_id": "000000", "name": "milk"},
    {"complement": false, "count": 28, "field_id": "000000", "name": "bread"},
    {"complement": false, "count": 12, "field_id": "000000", "name": "butter"},
    {"complement": false, "count": 14, "field_id": "000000", "name": "eggs"}
   ],
   "k": 100,
   "max_lhs": 4,
   "min_coverage": 0,
   "min_leverage": -1,
   "min_strength": 0,
   "min_support": 0,
   "rules": [
    {"id": "000000", "lhs": [0], "rhs": [1], "lhs_cover": [0.4, 20], "rhs_cover": [0.4, 20], "support": [0.3, 15], "confidence": 0.8, "leverage": 0.1, "lift": 2, "p_value": 0.001},
    {"id": "000001", "lhs": [1], "rhs": [0], "lhs_cover": [0.4, 20], "rhs_cover": [0.4, 20], "support": [0.3, 15], "confidence": 0.8, "leverage": 0.1, "lift": 2, "p_value": 0.001},
    {"id": "000002", "lhs": [2], "rhs": [3], "lhs_cover": [0.2, 10], "rhs_cover": [0.25, 12], "support": [0.1, 5], "confidence": 0.5, "leverage": 0.05, "lift": 1.5, "p_value": 0.02}
   ],
   "significance_level": 0.05
  }
 }
}`

// surveyResource is a two-field model with a numeric and a categorical field
// and no optional configuration scalars.
const surveyResource = `{
 "resource": "association/5026966515526876630001b3",
 "object": {
  "status": {"code": 5},
  "associations": {
   "fields": {
    "000000": {"name": "age", "optype": "numeric"},
    "000001": {"name": "class", "optype": "categorical"}
   },
   "items": [
    {"complement": false, "count": 10, "field_id": "000000", "name": "30-40", "bin_start": 30, "bin_end": 40},
    {"complement": false, "count": 16, "field_id": "000001", "name": "TRUE"},
    {"complement": true, "count": 9, "field_id": "000001", "name": "TRUE"}
   ],
   "rules": [
    {"id": "000000", "lhs": [0], "rhs": [1], "lhs_cover": [0.5, 10], "rhs_cover": [0.8, 16], "support": [0.45, 9], "confidence": 0.9, "leverage": 0.05, "lift": 1.2, "p_value": 0.0001}
   ]
  }
 }
}`

func mustLoad(t *testing.T, payload string) *Association {
	t.Helper()
	a, err := New([]byte(payload))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return a
}

func ruleIDs(rules []Rule) []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	return ids
}

func TestNewLoadsResource(t *testing.T) {
	a := mustLoad(t, basketResource)
	if a.ResourceID != "association/5026966515526876630001b2" {
		t.Errorf("unexpected resource ID: %s", a.ResourceID)
	}
	if got := len(a.items); got != 4 {
		t.Errorf("got %d items, want 4", got)
	}
	if got := len(a.rules); got != 3 {
		t.Errorf("got %d rules, want 3", got)
	}
	if a.K != 100 || a.MaxLHS != 4 || a.SignificanceLevel != 0.05 {
		t.Errorf("unexpected configuration: k=%d max_lhs=%d significance=%v", a.K, a.MaxLHS, a.SignificanceLevel)
	}
	if !a.rules[0].Support.Paired || a.rules[0].Support.Count != 15 {
		t.Errorf("support pair not decoded: %+v", a.rules[0].Support)
	}
	if a.rules[0].Confidence.Paired || a.rules[0].Confidence.Value() != 0.8 {
		t.Errorf("confidence scalar not decoded: %+v", a.rules[0].Confidence)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	a := mustLoad(t, surveyResource)
	if a.K != 100 {
		t.Errorf("default k = %d, want 100", a.K)
	}
	if a.MaxLHS != 4 {
		t.Errorf("default max_lhs = %d, want 4", a.MaxLHS)
	}
	if a.MinLeverage != -1 {
		t.Errorf("default min_leverage = %v, want -1", a.MinLeverage)
	}
	if a.SignificanceLevel != 0.05 {
		t.Errorf("default significance_level = %v, want 0.05", a.SignificanceLevel)
	}
}

func TestNewRejectsUnfinished(t *testing.T) {
	payload := `{"resource": "association/5026966515526876630001b2", "object": {"status": {"code": 3}, "associations": {"fields": {}, "items": [], "rules": []}}}`
	_, err := New([]byte(payload))
	var nf *NotFinishedError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFinishedError", err)
	}
	if nf.StatusCode != 3 {
		t.Errorf("status code = %d, want 3", nf.StatusCode)
	}
}

func TestNewRejectsMissingAssociations(t *testing.T) {
	payload := `{"resource": "association/5026966515526876630001b2", "object": {"status": {"code": 5}}}`
	_, err := New([]byte(payload))
	var ma *MissingAssociationsError
	if !errors.As(err, &ma) {
		t.Fatalf("got %v, want MissingAssociationsError", err)
	}
}

func TestItemsByField(t *testing.T) {
	a := mustLoad(t, surveyResource)

	byName, err := a.Items(ItemFilter{Field: "class"})
	if err != nil {
		t.Fatalf("Items by field name: %v", err)
	}
	if len(byName) != 2 || byName[0].Index != 1 || byName[1].Index != 2 {
		t.Errorf("unexpected items for field class: %+v", byName)
	}

	byID, err := a.Items(ItemFilter{Field: "000000"})
	if err != nil {
		t.Fatalf("Items by field ID: %v", err)
	}
	if len(byID) != 1 || byID[0].Name != "30-40" {
		t.Errorf("unexpected items for field 000000: %+v", byID)
	}
}

func TestItemsUnknownField(t *testing.T) {
	a := mustLoad(t, surveyResource)
	_, err := a.Items(ItemFilter{Field: "weight"})
	var uf *UnknownFieldError
	if !errors.As(err, &uf) {
		t.Fatalf("got %v, want UnknownFieldError", err)
	}
}

func TestItemsByNameAndPredicate(t *testing.T) {
	a := mustLoad(t, basketResource)

	items, err := a.Items(ItemFilter{Names: []string{"milk", "eggs"}})
	if err != nil {
		t.Fatalf("Items by names: %v", err)
	}
	if len(items) != 2 || items[0].Name != "milk" || items[1].Name != "eggs" {
		t.Errorf("unexpected items: %+v", items)
	}

	items, err = a.Items(ItemFilter{Match: func(it Item) bool { return it.Count > 20 }})
	if err != nil {
		t.Fatalf("Items by predicate: %v", err)
	}
	if len(items) != 2 || items[0].Name != "milk" || items[1].Name != "bread" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestItemsIdempotent(t *testing.T) {
	a := mustLoad(t, basketResource)
	filter := ItemFilter{Names: []string{"milk", "butter"}}
	first, err := a.Items(filter)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := a.Items(filter)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between identical calls: %+v vs %+v", first, second)
	}
}

func TestRulesNoFilterKeepsOrder(t *testing.T) {
	a := mustLoad(t, basketResource)
	rules, err := a.Rules(RuleFilter{})
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	want := []string{"000000", "000001", "000002"}
	if !reflect.DeepEqual(ruleIDs(rules), want) {
		t.Errorf("got order %v, want %v", ruleIDs(rules), want)
	}
}

func TestRulesThresholds(t *testing.T) {
	a := mustLoad(t, basketResource)

	minStrength := 0.6
	rules, err := a.Rules(RuleFilter{MinStrength: &minStrength})
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if !reflect.DeepEqual(ruleIDs(rules), []string{"000000", "000001"}) {
		t.Errorf("min strength filter: got %v", ruleIDs(rules))
	}

	minLeverage := 0.08
	minSupport := 0.2
	rules, err = a.Rules(RuleFilter{MinLeverage: &minLeverage, MinSupport: &minSupport})
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if !reflect.DeepEqual(ruleIDs(rules), []string{"000000", "000001"}) {
		t.Errorf("combined filter: got %v", ruleIDs(rules))
	}

	minPValue := 0.01
	rules, err = a.Rules(RuleFilter{MinPValue: &minPValue})
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if !reflect.DeepEqual(ruleIDs(rules), []string{"000002"}) {
		t.Errorf("min p-value filter: got %v", ruleIDs(rules))
	}
}

func TestRulesThresholdMonotonicity(t *testing.T) {
	a := mustLoad(t, basketResource)
	prev := len(a.rules) + 1
	for _, min := range []float64{0, 0.1, 0.3, 0.5} {
		m := min
		rules, err := a.Rules(RuleFilter{MinSupport: &m})
		if err != nil {
			t.Fatalf("Rules(min_support=%v): %v", min, err)
		}
		if len(rules) > prev {
			t.Errorf("raising min_support to %v grew the result set: %d > %d", min, len(rules), prev)
		}
		prev = len(rules)
	}
}

func TestRulesByItem(t *testing.T) {
	a := mustLoad(t, basketResource)

	rules, err := a.Rules(RuleFilter{Items: []ItemRef{ByName("butter")}})
	if err != nil {
		t.Fatalf("Rules by item name: %v", err)
	}
	if !reflect.DeepEqual(ruleIDs(rules), []string{"000002"}) {
		t.Errorf("got %v, want [000002]", ruleIDs(rules))
	}

	// A consequent-side match admits the rule as well.
	rules, err = a.Rules(RuleFilter{Items: []ItemRef{ByName("eggs")}})
	if err != nil {
		t.Fatalf("Rules by consequent item: %v", err)
	}
	if !reflect.DeepEqual(ruleIDs(rules), []string{"000002"}) {
		t.Errorf("got %v, want [000002]", ruleIDs(rules))
	}

	items, err := a.Items(ItemFilter{Names: []string{"milk"}})
	if err != nil || len(items) != 1 {
		t.Fatalf("lookup milk item: %v %v", items, err)
	}
	rules, err = a.Rules(RuleFilter{Items: []ItemRef{ByItem(items[0])}})
	if err != nil {
		t.Fatalf("Rules by item record: %v", err)
	}
	if !reflect.DeepEqual(ruleIDs(rules), []string{"000000", "000001"}) {
		t.Errorf("got %v, want [000000 000001]", ruleIDs(rules))
	}
}

func TestRulesUnresolvableItemName(t *testing.T) {
	a := mustLoad(t, basketResource)
	_, err := a.Rules(RuleFilter{Items: []ItemRef{ByName("caviar")}})
	var ia *InvalidArgumentError
	if !errors.As(err, &ia) {
		t.Fatalf("got %v, want InvalidArgumentError", err)
	}
}

func TestRulesPredicate(t *testing.T) {
	a := mustLoad(t, basketResource)
	rules, err := a.Rules(RuleFilter{Match: func(r Rule) bool { return r.Lift.Value() > 1.8 }})
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if !reflect.DeepEqual(ruleIDs(rules), []string{"000000", "000001"}) {
		t.Errorf("got %v, want [000000 000001]", ruleIDs(rules))
	}
}

func TestDescribeSingleFieldBareNames(t *testing.T) {
	a := mustLoad(t, basketResource)
	lhs, rhs := a.Describe(a.rules[0])
	if lhs != "milk" || rhs != "bread" {
		t.Errorf("got (%q, %q), want (milk, bread)", lhs, rhs)
	}
	// Pure function of static data: repeated calls agree.
	lhs2, rhs2 := a.Describe(a.rules[0])
	if lhs != lhs2 || rhs != rhs2 {
		t.Errorf("Describe is not stable: (%q, %q) vs (%q, %q)", lhs, rhs, lhs2, rhs2)
	}
}

func TestDescribeMultiFieldFullDescriptions(t *testing.T) {
	a := mustLoad(t, surveyResource)
	lhs, rhs := a.Describe(a.rules[0])
	if lhs != "30 < age <= 40" {
		t.Errorf("lhs = %q", lhs)
	}
	if rhs != "class = TRUE" {
		t.Errorf("rhs = %q", rhs)
	}
}

func TestDescribeJoinsWithAmpersand(t *testing.T) {
	a := mustLoad(t, basketResource)
	rule := Rule{ID: "x", LHS: []int{0, 2}, RHS: []int{1}}
	lhs, _ := a.Describe(rule)
	if lhs != "milk & butter" {
		t.Errorf("lhs = %q, want \"milk & butter\"", lhs)
	}
}

func TestMetricString(t *testing.T) {
	a := mustLoad(t, basketResource)
	got := MetricString(a.rules[0])
	want := "Coverage=40.00% (20); Support=30.00% (15); Confidence=80.00%; Leverage=0.1; Lift=2; p-value=0.001"
	if got != want {
		t.Errorf("MetricString:\n got %q\nwant %q", got, want)
	}
}

func TestMetricStringPercentRounding(t *testing.T) {
	r := Rule{
		LHSCover:   MetricValue{Fraction: 0.12345, Count: 50, Paired: true},
		Support:    MetricValue{Fraction: 0.1, Count: 5, Paired: true},
		Confidence: MetricValue{Fraction: 0.5},
	}
	got := MetricString(r)
	wantPrefix := "Coverage=12.35% (50); "
	if got[:len(wantPrefix)] != wantPrefix {
		t.Errorf("got %q, want prefix %q", got, wantPrefix)
	}
}

func TestMetricStringReverseSwapsCoverage(t *testing.T) {
	a := mustLoad(t, surveyResource)
	forward := metricString(a.rules[0], false)
	reversed := metricString(a.rules[0], true)
	if forward == reversed {
		t.Fatalf("reverse orientation should differ when covers differ: %q", forward)
	}
	wantForward := "Coverage=50.00% (10)"
	wantReversed := "Coverage=80.00% (16)"
	if forward[:len(wantForward)] != wantForward {
		t.Errorf("forward = %q, want prefix %q", forward, wantForward)
	}
	if reversed[:len(wantReversed)] != wantReversed {
		t.Errorf("reversed = %q, want prefix %q", reversed, wantReversed)
	}
	// Only the coverage fragment may differ.
	if forward[len(wantForward):] != reversed[len(wantReversed):] {
		t.Errorf("non-coverage fragments differ: %q vs %q", forward, reversed)
	}
}
