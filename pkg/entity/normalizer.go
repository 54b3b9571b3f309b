package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

const (
	defaultType  = "Entity"
	defaultValue = "N/A"

	invalidType  = "Invalid Entity"
	invalidValue = "invalid data"
)

// reservedKeys are never folded into a synthesized value string.
var reservedKeys = []string{"id", "type", "confidence", "position", "value"}

type group struct {
	label string
	keys  []string
}

var groups = []group{
	{
		label: "Parametri Fisici",
		keys:  []string{"altezza", "peso", "bmi", "bsa"},
	},
	{
		label: "Parametri Cardiaci",
		keys:  []string{"fe", "fc", "pas", "pad", "frequenza_cardiaca", "pressione_arteriosa"},
	},
}

// rules is the shape-detection table. Rules are evaluated in order and
// the first match wins, so the order here is the contract.
type rule struct {
	name  string
	match func(m map[string]any) bool
	apply func(m map[string]any) (string, string)
}

var rules = []rule{
	{
		name: "grouped measurements",
		match: func(m map[string]any) bool {
			return matchGroup(m) != nil
		},
		apply: func(m map[string]any) (string, string) {
			g := matchGroup(m)
			return g.label, joinPairs(m, g.keys)
		},
	},
	{
		name: "nested value object",
		match: func(m map[string]any) bool {
			_, ok := m["value"].(map[string]any)
			return ok
		},
		apply: func(m map[string]any) (string, string) {
			nested := m["value"].(map[string]any)
			return stringOf(m["type"]), joinPairs(nested, nil)
		},
	},
	{
		name: "well-formed",
		match: func(m map[string]any) bool {
			return m["id"] != nil && m["type"] != nil && isScalar(m["value"])
		},
		apply: func(m map[string]any) (string, string) {
			return stringOf(m["type"]), stringify(m["value"])
		},
	},
	{
		name: "fallback",
		match: func(m map[string]any) bool {
			return true
		},
		apply: func(m map[string]any) (string, string) {
			return stringOf(m["type"]), joinPairs(m, nil)
		},
	},
}

// Normalize reduces one raw backend entity to the uniform record. index
// is the entity's position in its payload and seeds the id when the
// backend sent none.
func Normalize(raw any, index int) Entity {
	m, ok := raw.(map[string]any)

	if !ok {
		return Entity{
			ID:         fmt.Sprintf("entity-%d", index),
			Type:       invalidType,
			Value:      invalidValue,
			Confidence: 0,
		}
	}

	var typ, value string

	for _, r := range rules {
		if r.match(m) {
			typ, value = r.apply(m)
			break
		}
	}

	e := Entity{
		ID:         stringOf(m["id"]),
		Type:       typ,
		Value:      value,
		Confidence: confidenceOf(m),
		Position:   positionOf(m),
	}

	if e.ID == "" {
		e.ID = fmt.Sprintf("entity-%d", index)
	}

	if e.Type == "" {
		e.Type = defaultType
	}

	if e.Value == "" {
		e.Value = defaultValue
	}

	return e
}

// NormalizeList normalizes a decoded entities array.
func NormalizeList(items []any) []Entity {
	result := make([]Entity, 0, len(items))

	for i, item := range items {
		result = append(result, Normalize(item, i))
	}

	return result
}

// NormalizePayload normalizes a raw entities payload. A JSON array is
// normalized element by element. A plain object is treated as one
// synthetic entity per key, in sorted key order.
func NormalizePayload(data []byte) []Entity {
	if len(data) == 0 {
		return nil
	}

	var raw any

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case []any:
		return NormalizeList(v)

	case map[string]any:
		keys := make([]string, 0, len(v))

		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		result := make([]Entity, 0, len(keys))

		for i, k := range keys {
			value := stringify(v[k])

			if value == "" {
				value = defaultValue
			}

			result = append(result, Entity{
				ID:         fmt.Sprintf("entity-%d", i),
				Type:       k,
				Value:      value,
				Confidence: 1,
			})
		}

		return result
	}

	return nil
}

func matchGroup(m map[string]any) *group {
	for i := range groups {
		for _, k := range groups[i].keys {
			if _, ok := m[k]; ok {
				return &groups[i]
			}
		}
	}

	return nil
}

// joinPairs builds the "Key: value, Key: value" display string from a
// map. Keys from canonical come first in canonical order, the remaining
// keys follow sorted; reserved keys are skipped.
func joinPairs(m map[string]any, canonical []string) string {
	var keys []string

	for _, k := range canonical {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}

	var rest []string

	for k := range m {
		if slices.Contains(reservedKeys, k) || slices.Contains(canonical, k) {
			continue
		}

		rest = append(rest, k)
	}

	slices.Sort(rest)
	keys = append(keys, rest...)

	parts := make([]string, 0, len(keys))

	for _, k := range keys {
		parts = append(parts, label(k)+": "+stringify(m[k]))
	}

	return strings.Join(parts, ", ")
}

var acronyms = map[string]string{
	"bmi": "BMI",
	"bsa": "BSA",
	"fe":  "FE",
	"fc":  "FC",
	"pas": "PAS",
	"pad": "PAD",
}

// label turns a payload key into a display label: camelCase and
// snake_case split into words, each word capitalized, known clinical
// abbreviations uppercased.
func label(key string) string {
	words := splitWords(key)

	if len(words) == 0 {
		return key
	}

	for i, w := range words {
		lw := strings.ToLower(w)

		if a, ok := acronyms[lw]; ok {
			words[i] = a
			continue
		}

		r := []rune(lw)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}

func splitWords(key string) []string {
	var words []string
	var current []rune

	for _, r := range key {
		switch {
		case r == '_' || r == '-' || r == ' ':
			if len(current) > 0 {
				words = append(words, string(current))
				current = nil
			}

		case unicode.IsUpper(r) && len(current) > 0:
			words = append(words, string(current))
			current = []rune{r}

		default:
			current = append(current, r)
		}
	}

	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, float64, int, int64, json.Number:
		return true
	}

	return false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	}

	data, err := json.Marshal(v)

	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(data)
}

func stringOf(v any) string {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return stringify(v)
}

func confidenceOf(m map[string]any) float64 {
	v, ok := m["confidence"]

	if !ok || v == nil {
		return 1
	}

	var f float64

	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 1
		}
		f = parsed
	default:
		return 1
	}

	if math.IsNaN(f) {
		return 1
	}

	return math.Min(math.Max(f, 0), 1)
}

func positionOf(m map[string]any) *Position {
	raw, ok := m["position"].(map[string]any)

	if !ok {
		return nil
	}

	data, err := json.Marshal(raw)

	if err != nil {
		return nil
	}

	var position Position

	if err := json.Unmarshal(data, &position); err != nil {
		return nil
	}

	return &position
}
