package zuora

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const customFieldSuffix = "__c"

var (
	firstCapPattern = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCapPattern   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// convertCamel rewrites a vendor attribute name to lower snake case
// ("ShortCode" becomes "short_code"). Applying it to an already
// converted name is a no-op.
func convertCamel(name string) string {
	s := firstCapPattern.ReplaceAllString(name, "${1}_${2}")
	s = allCapPattern.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// normalizeKey strips the trailing custom-field suffix before case
// conversion.
func normalizeKey(key string) string {
	return convertCamel(strings.TrimSuffix(key, customFieldSuffix))
}

// Normalize converts a flat record into a fresh mapping of normalized
// keys to stringified values. Nil attribute values become the empty
// string.
func Normalize(r Record) map[string]string {
	out := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		out[normalizeKey(f.Key)] = stringify(f.Value)
	}
	return out
}

func stringify(v any) string {
	switch cast := v.(type) {
	case nil:
		return ""
	case string:
		return cast
	case time.Time:
		return formatSOAPTimestamp(cast)
	default:
		return fmt.Sprintf("%v", cast)
	}
}

// Serialize converts a record into a plain map, recursing into nested
// records so callers get a fully detached structure.
func Serialize(r Record) map[string]any {
	out := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		key := normalizeKey(f.Key)
		switch nested := f.Value.(type) {
		case Record:
			out[key] = Serialize(nested)
		case []Record:
			out[key] = SerializeList(nested)
		default:
			out[key] = f.Value
		}
	}
	return out
}

// SerializeList serializes each record in order.
func SerializeList(records []Record) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, Serialize(r))
	}
	return out
}

// nameOrUnderscore keeps vendor name fields non-empty.
func nameOrUnderscore(name string) string {
	if name != "" {
		return name
	}
	return "_"
}
