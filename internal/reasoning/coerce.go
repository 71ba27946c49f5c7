package reasoning

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// resolved caches compiled schemas by pointer. Schemas are package-level values
// in callers, so the cache stays small.
var resolved sync.Map

func resolve(s *jsonschema.Schema) (*jsonschema.Resolved, error) {
	if r, ok := resolved.Load(s); ok {
		return r.(*jsonschema.Resolved), nil
	}
	r, err := s.Resolve(nil)
	if err != nil {
		return nil, err
	}
	resolved.Store(s, r)
	return r, nil
}

// coerce turns raw model text into a Result checked against schema.
func coerce(text string, schema *jsonschema.Schema) Result {
	raw, ok := extractJSON(text)
	if !ok {
		if strings.TrimSpace(text) == "" {
			return emptyResult("empty response")
		}
		return providerError("no JSON value in response")
	}

	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return providerError("malformed JSON: %v", err)
	}
	if isEmptyValue(v) {
		return emptyResult("empty JSON value")
	}

	if schema != nil {
		v = wrapBareArray(v, schema)
		rs, err := resolve(schema)
		if err != nil {
			return providerError("invalid schema: %v", err)
		}
		if err := rs.Validate(v); err != nil {
			return providerError("response does not match schema: %v", err)
		}
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return providerError("re-encode response: %v", err)
	}
	return okResult(payload)
}

// extractJSON returns the first complete JSON object or array in s, skipping
// markdown fences and surrounding prose.
func extractJSON(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// isEmptyValue reports nil, {}, [] and objects whose values are all null.
func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		for _, val := range t {
			if val != nil {
				return false
			}
		}
		return true
	}
	return false
}

// wrapBareArray places a top-level array under the schema's only array
// property. Models often answer a list request with the list alone.
func wrapBareArray(v interface{}, schema *jsonschema.Schema) interface{} {
	arr, ok := v.([]interface{})
	if !ok || schema.Type != "object" {
		return v
	}
	var field string
	for name, prop := range schema.Properties {
		if prop.Type != "array" {
			continue
		}
		if field != "" {
			return v
		}
		field = name
	}
	if field == "" {
		return v
	}
	return map[string]interface{}{field: arr}
}
