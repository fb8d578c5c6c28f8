package extractor

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"propintel/internal/domain"
)

// DecodeFields turns a raw model response into a field mapping conforming to
// the document type's template. It parses the response as-is, strips wrapper
// markers (code fences, prose around the braces) and retries once if that
// fails, coerces non-string values to strings, canonicalizes the missing-value
// sentinel, validates the payload against the type's response schema, and
// fills any template field the model skipped with "Not specified".
//
// A non-nil error means the response is unusable; callers wrap it in a
// MalformedResponseError with the provider name.
func DecodeFields(raw string, documentType domain.DocumentType) (domain.Fields, error) {
	entries, err := decodeObject(raw)
	if err != nil {
		entries, err = decodeObject(stripWrappers(raw))
		if err != nil {
			return domain.Fields{}, fmt.Errorf("parsing model JSON output: %w", err)
		}
	}

	keys := make([]string, 0, len(entries))
	payload := make(map[string]string, len(entries))
	for _, e := range entries {
		val := canonicalizeSentinel(coerceValue(e.value))
		if _, seen := payload[e.key]; !seen {
			keys = append(keys, e.key)
		}
		payload[e.key] = val
	}

	tmpl := domain.TemplateFor(documentType)
	if err := ValidateFields(payload, documentType); err != nil {
		keys, payload = conformPayload(keys, payload, tmpl)
		if err := ValidateFields(payload, documentType); err != nil {
			return domain.Fields{}, fmt.Errorf("response failed schema validation: %w", err)
		}
	}

	if tmpl.Open() {
		fields := domain.NewFields()
		for _, k := range keys {
			fields.Set(k, payload[k])
		}
		return fields, nil
	}

	fields := tmpl.NewFields()
	for _, name := range tmpl.FieldNames {
		if v, ok := payload[name]; ok {
			fields.Set(name, v)
		}
	}
	return fields, nil
}

// conformPayload drops keys outside the template and fills absent template
// fields with the sentinel, so a near-miss response still validates.
func conformPayload(keys []string, payload map[string]string, tmpl domain.FieldTemplate) ([]string, map[string]string) {
	if tmpl.Open() {
		return keys, payload
	}
	conformedKeys := make([]string, 0, tmpl.Size())
	conformed := make(map[string]string, tmpl.Size())
	for _, name := range tmpl.FieldNames {
		v, ok := payload[name]
		if !ok {
			v = domain.NotSpecified
		}
		conformedKeys = append(conformedKeys, name)
		conformed[name] = v
	}
	return conformedKeys, conformed
}

type objectEntry struct {
	key   string
	value json.RawMessage
}

// decodeObject parses s as a single JSON object, preserving key order.
// Trailing non-whitespace after the closing brace is rejected so that
// fenced or prose-wrapped responses go through the strip-and-retry path.
func decodeObject(s string) ([]objectEntry, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var entries []objectEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding value for %q: %w", key, err)
		}
		entries = append(entries, objectEntry{key: key, value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected content after JSON object")
	}
	return entries, nil
}

// stripWrappers cuts the response down to its outermost JSON object,
// discarding markdown fences, labels and prose around it.
func stripWrappers(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}

// coerceValue renders a raw JSON value as the plain string the field mapping
// expects. Models occasionally return numbers, booleans, nulls or nested
// structures despite the prompt contract.
func coerceValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return domain.NotSpecified
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		parts := make([]string, 0, len(arr))
		for _, el := range arr {
			parts = append(parts, coerceValue(el))
		}
		return strings.Join(parts, ", ")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		objKeys := make([]string, 0, len(obj))
		for k := range obj {
			objKeys = append(objKeys, k)
		}
		sort.Strings(objKeys)
		parts := make([]string, 0, len(obj))
		for _, k := range objKeys {
			parts = append(parts, k+": "+coerceValue(obj[k]))
		}
		return strings.Join(parts, "; ")
	}

	// numbers and booleans read fine as their source text
	return trimmed
}

// canonicalizeSentinel folds case variants of the missing-value sentinel
// into the canonical spelling so downstream filled-field checks see one form.
func canonicalizeSentinel(v string) string {
	if strings.EqualFold(v, domain.NotSpecified) {
		return domain.NotSpecified
	}
	return v
}
