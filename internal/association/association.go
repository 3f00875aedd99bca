package association

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rulelens/rulelens-cli/internal/api"
)

// Association is a read-only local view of a finished association-rules
// resource: the discovered items, the rules between them, and the mining
// configuration the service used. All exploration methods are pure reads, so
// an Association is safe to share between goroutines.
type Association struct {
	ResourceID           string
	Complement           bool
	Discretization       map[string]any
	FieldDiscretizations map[string]any
	K                    int
	MaxLHS               int
	MinCoverage          float64
	MinLeverage          float64
	MinStrength          float64
	MinSupport           float64
	SignificanceLevel    float64

	fields *Fields
	items  []Item
	rules  []Rule
}

type itemInfo struct {
	Complement  bool     `json:"complement"`
	Count       int      `json:"count"`
	Description string   `json:"description"`
	FieldID     string   `json:"field_id"`
	Name        *string  `json:"name"`
	BinStart    *float64 `json:"bin_start"`
	BinEnd      *float64 `json:"bin_end"`
}

type associationsSection struct {
	Fields               map[string]Field `json:"fields"`
	Complement           bool             `json:"complement"`
	Discretization       map[string]any   `json:"discretization"`
	FieldDiscretizations map[string]any   `json:"field_discretizations"`
	Items                []itemInfo       `json:"items"`
	K                    *int             `json:"k"`
	MaxLHS               *int             `json:"max_lhs"`
	MinCoverage          float64          `json:"min_coverage"`
	MinLeverage          *float64         `json:"min_leverage"`
	MinStrength          float64          `json:"min_strength"`
	MinSupport           float64          `json:"min_support"`
	Rules                []Rule           `json:"rules"`
	SignificanceLevel    *float64         `json:"significance_level"`
}

type resourceEnvelope struct {
	Resource     string               `json:"resource"`
	Status       *api.Status          `json:"status"`
	Associations *associationsSection `json:"associations"`
	Object       *struct {
		Status       *api.Status          `json:"status"`
		Associations *associationsSection `json:"associations"`
	} `json:"object"`
}

// New materializes an Association from a resource payload as returned by the
// mining API. The resource must be in the finished status and carry an
// associations section.
func New(data []byte) (*Association, error) {
	var env resourceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode association resource: %w", err)
	}
	status := env.Status
	section := env.Associations
	if env.Object != nil {
		if env.Object.Status != nil {
			status = env.Object.Status
		}
		if env.Object.Associations != nil {
			section = env.Object.Associations
		}
	}
	if section == nil {
		return nil, &MissingAssociationsError{ResourceID: env.Resource}
	}
	code := api.StatusUnknown
	if status != nil {
		code = status.Code
	}
	if code != api.StatusFinished {
		return nil, &NotFinishedError{ResourceID: env.Resource, StatusCode: code}
	}

	a := &Association{
		ResourceID:           env.Resource,
		Complement:           section.Complement,
		Discretization:       section.Discretization,
		FieldDiscretizations: section.FieldDiscretizations,
		K:                    100,
		MaxLHS:               4,
		MinCoverage:          section.MinCoverage,
		MinLeverage:          -1,
		MinStrength:          section.MinStrength,
		MinSupport:           section.MinSupport,
		SignificanceLevel:    0.05,
		fields:               newFields(section.Fields),
		rules:                section.Rules,
	}
	if section.K != nil {
		a.K = *section.K
	}
	if section.MaxLHS != nil {
		a.MaxLHS = *section.MaxLHS
	}
	if section.MinLeverage != nil {
		a.MinLeverage = *section.MinLeverage
	}
	if section.SignificanceLevel != nil {
		a.SignificanceLevel = *section.SignificanceLevel
	}
	a.items = make([]Item, len(section.Items))
	for i, info := range section.Items {
		item := Item{
			Index:       i,
			Complement:  info.Complement,
			Count:       info.Count,
			Description: info.Description,
			FieldID:     info.FieldID,
			Missing:     info.Name == nil,
			BinStart:    info.BinStart,
			BinEnd:      info.BinEnd,
		}
		if info.Name != nil {
			item.Name = *info.Name
		}
		a.items[i] = item
	}
	return a, nil
}

// Fields returns the field metadata of the underlying dataset.
func (a *Association) Fields() *Fields { return a.fields }

// ItemFilter selects items. Zero-valued criteria are not applied.
type ItemFilter struct {
	// Field restricts items to one field, given by name or ID.
	Field string
	// Names restricts items to those whose name is in the set.
	Names []string
	// Match is an arbitrary extra predicate.
	Match func(Item) bool
}

// Items returns the items that satisfy every criterion of the filter, in
// their original order.
func (a *Association) Items(f ItemFilter) ([]Item, error) {
	fieldID := ""
	if f.Field != "" {
		id, err := a.fields.Resolve(f.Field)
		if err != nil {
			return nil, err
		}
		fieldID = id
	}
	var nameSet map[string]bool
	if f.Names != nil {
		nameSet = make(map[string]bool, len(f.Names))
		for _, name := range f.Names {
			nameSet[name] = true
		}
	}
	var out []Item
	for _, item := range a.items {
		if fieldID != "" && item.FieldID != fieldID {
			continue
		}
		if nameSet != nil && !nameSet[item.Name] {
			continue
		}
		if f.Match != nil && !f.Match(item) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// ItemRef names an item for rule filtering, either directly or by name.
type ItemRef struct {
	item *Item
	name string
}

// ByItem references an item record directly.
func ByItem(it Item) ItemRef { return ItemRef{item: &it} }

// ByName references all items carrying the given name.
func ByName(name string) ItemRef { return ItemRef{name: name} }

// RuleFilter selects rules. Nil thresholds are not applied; each set
// threshold is a lower bound on the corresponding metric. MinStrength bounds
// the confidence metric.
type RuleFilter struct {
	MinLeverage *float64
	MinStrength *float64
	MinSupport  *float64
	MinPValue   *float64
	// Items admits only rules whose antecedent or consequent contains at
	// least one of the referenced items.
	Items []ItemRef
	// Match is an arbitrary extra predicate.
	Match func(Rule) bool
}

// Rules returns the rules that satisfy every criterion of the filter, in
// their stored order.
func (a *Association) Rules(f RuleFilter) ([]Rule, error) {
	var indexSet map[int]bool
	if len(f.Items) > 0 {
		resolved, err := a.resolveRefs(f.Items)
		if err != nil {
			return nil, err
		}
		indexSet = resolved
	}
	var out []Rule
	for _, rule := range a.rules {
		if f.MinLeverage != nil && rule.Leverage.Value() < *f.MinLeverage {
			continue
		}
		if f.MinStrength != nil && rule.Confidence.Value() < *f.MinStrength {
			continue
		}
		if f.MinSupport != nil && rule.Support.Value() < *f.MinSupport {
			continue
		}
		if f.MinPValue != nil && rule.PValue.Value() < *f.MinPValue {
			continue
		}
		if indexSet != nil && !ruleTouches(rule, indexSet) {
			continue
		}
		if f.Match != nil && !f.Match(rule) {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

// resolveRefs turns item references into the set of item indices they cover.
func (a *Association) resolveRefs(refs []ItemRef) (map[int]bool, error) {
	indexSet := make(map[int]bool, len(refs))
	for _, ref := range refs {
		if ref.item != nil {
			indexSet[ref.item.Index] = true
			continue
		}
		matched, err := a.Items(ItemFilter{Names: []string{ref.name}})
		if err != nil {
			return nil, err
		}
		if len(matched) == 0 {
			return nil, &InvalidArgumentError{Reason: fmt.Sprintf("no item named %q", ref.name)}
		}
		for _, item := range matched {
			indexSet[item.Index] = true
		}
	}
	return indexSet, nil
}

func ruleTouches(r Rule, indexSet map[int]bool) bool {
	for _, idx := range r.LHS {
		if indexSet[idx] {
			return true
		}
	}
	for _, idx := range r.RHS {
		if indexSet[idx] {
			return true
		}
	}
	return false
}

// Describe renders a rule's antecedent and consequent as human-readable
// text. In a single-field dataset the bare item name is used for
// non-complement items to avoid repeating the field name.
func (a *Association) Describe(r Rule) (lhs, rhs string) {
	return a.describeIndices(r.LHS), a.describeIndices(r.RHS)
}

func (a *Association) describeIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, idx := range indices {
		item := a.items[idx]
		if a.fields.Len() == 1 && !item.Complement {
			parts = append(parts, item.Name)
		} else {
			parts = append(parts, item.Describe(a.fields))
		}
	}
	return strings.Join(parts, " & ")
}
