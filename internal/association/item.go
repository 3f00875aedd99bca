package association

import (
	"fmt"
	"regexp"
	"strconv"
)

// Item is a single value-of-field considered as a unit in rule mining.
// Items are built once at load time and never mutated.
type Item struct {
	Index       int
	Complement  bool
	Count       int
	Description string
	FieldID     string
	Name        string
	// Missing marks items that stand for an absent field value; such items
	// carry no name in the payload.
	Missing bool
	// Bin bounds for items over numeric fields. Nil when unbounded.
	BinStart *float64
	BinEnd   *float64
}

// Describe renders the item as human-readable text, e.g. "age > 30" or
// "product = milk". Complement items invert the relation.
func (it Item) Describe(fields *Fields) string {
	fieldName := it.FieldID
	opType := ""
	if field, ok := fields.Get(it.FieldID); ok {
		fieldName = field.Name
		opType = field.OpType
	}
	if it.Missing {
		if it.Complement {
			return fmt.Sprintf("%s is not missing", fieldName)
		}
		return fmt.Sprintf("%s is missing", fieldName)
	}
	switch opType {
	case "numeric":
		start, end := it.BinStart, it.BinEnd
		if it.Complement {
			start, end = end, start
		}
		switch {
		case start != nil && end != nil:
			if *start < *end {
				return fmt.Sprintf("%s < %s <= %s", formatFloat(*start), fieldName, formatFloat(*end))
			}
			return fmt.Sprintf("%s > %s or <= %s", fieldName, formatFloat(*start), formatFloat(*end))
		case start != nil:
			return fmt.Sprintf("%s > %s", fieldName, formatFloat(*start))
		case end != nil:
			return fmt.Sprintf("%s <= %s", fieldName, formatFloat(*end))
		default:
			return it.Name
		}
	case "categorical":
		op := "="
		if it.Complement {
			op = "!="
		}
		return fmt.Sprintf("%s %s %s", fieldName, op, it.Name)
	case "text", "items":
		op := "includes"
		if it.Complement {
			op = "excludes"
		}
		return fmt.Sprintf("%s %s %s", fieldName, op, it.Name)
	default:
		return it.Name
	}
}

// Matches reports whether a raw field value falls inside the item. Numeric
// items test the bin bounds, categorical items test equality, and text or
// items fields test whole-term presence.
func (it Item) Matches(fields *Fields, value any) bool {
	if value == nil {
		return it.Missing != it.Complement
	}
	opType := ""
	if field, ok := fields.Get(it.FieldID); ok {
		opType = field.OpType
	}
	switch opType {
	case "numeric":
		num, ok := toFloat(value)
		if !ok {
			return false
		}
		start, end := it.BinStart, it.BinEnd
		if it.Complement {
			start, end = end, start
		}
		switch {
		case start != nil && end != nil:
			if *start < *end {
				return num > *start && num <= *end
			}
			return num > *start || num <= *end
		case start != nil:
			return num > *start
		case end != nil:
			return num <= *end
		default:
			return false
		}
	case "categorical":
		eq := it.Name == fmt.Sprint(value)
		if it.Complement {
			return !eq
		}
		return eq
	case "text", "items":
		text, ok := value.(string)
		if !ok {
			return false
		}
		found := termPattern(it.Name).MatchString(text)
		if it.Complement {
			return !found
		}
		return found
	default:
		return it.Name == fmt.Sprint(value)
	}
}

func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|\W)` + regexp.QuoteMeta(term) + `($|\W)`)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
