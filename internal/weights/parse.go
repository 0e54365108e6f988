package weights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Reasons attached to dropped entries.
const (
	ReasonBadIdentifier = "bad_identifier"
	ReasonBadEntry      = "bad_entry"
	ReasonMissingWeight = "missing_weight"
	ReasonBadWeight     = "bad_weight"
	ReasonNonPositive   = "non_positive_weight"
	ReasonDuplicateID   = "duplicate_identifier"
)

// weightField is the raw entry key carrying the score.
const weightField = "weight"

// EntryOutcome records what the parser decided for one raw entry.
type EntryOutcome struct {
	Key    string  // Key is the raw identifier string
	ID     int     // ID is the parsed identifier (valid unless Reason is bad_identifier)
	Weight float64 // Weight is the parsed weight (valid when Kept)
	Kept   bool    // Kept is true when the entry takes part in normalization
	Reason string  // Reason explains a dropped entry; empty when Kept
}

// DecodeRawWeights decodes the scoring stage's JSON document.
// Only the top level must be an object. An entry that is not an object is kept
// as a nil RawEntry so ParseEntries drops it with ReasonBadEntry.
// Numbers are preserved as json.Number so no precision is lost before parsing.
func DecodeRawWeights(data []byte) (RawWeights, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode raw weights:\n%w", err)
	}

	if doc == nil {
		return nil, nil
	}

	raw := make(RawWeights, len(doc))
	for key, msg := range doc {
		raw[key] = decodeEntry(msg)
	}

	return raw, nil
}

// decodeEntry decodes one entry, returning nil when it is not a JSON object.
func decodeEntry(msg json.RawMessage) RawEntry {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()

	var entry RawEntry
	if err := dec.Decode(&entry); err != nil {
		return nil
	}

	return entry
}

// ParseEntries parses every raw entry into an explicit outcome.
// Outcomes are ordered by key so the result is deterministic. When two keys
// parse to the same identifier the first key in that order is kept.
func ParseEntries(raw RawWeights) []EntryOutcome {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outcomes := make([]EntryOutcome, 0, len(keys))
	seen := make(map[int]struct{}, len(keys))

	for _, key := range keys {
		out := parseEntry(key, raw[key])

		if out.Kept {
			if _, dup := seen[out.ID]; dup {
				out.Kept = false
				out.Reason = ReasonDuplicateID
			} else {
				seen[out.ID] = struct{}{}
			}
		}

		outcomes = append(outcomes, out)
	}

	return outcomes
}

// parseEntry parses a single raw entry without duplicate detection.
func parseEntry(key string, entry RawEntry) EntryOutcome {
	out := EntryOutcome{Key: key}

	id, err := ParseIdentifier(key)
	if err != nil {
		out.Reason = ReasonBadIdentifier
		return out
	}
	out.ID = id

	if entry == nil {
		out.Reason = ReasonBadEntry
		return out
	}

	value, ok := entry[weightField]
	if !ok || value == nil {
		out.Reason = ReasonMissingWeight
		return out
	}

	w, err := parseWeight(value)
	if err != nil {
		out.Reason = ReasonBadWeight
		return out
	}
	out.Weight = w

	if w <= 0 {
		out.Reason = ReasonNonPositive
		return out
	}

	out.Kept = true

	return out
}

// ParseIdentifier parses a participant identifier: a decimal integer with
// optional sign and surrounding spaces. Negative values are system participants.
func ParseIdentifier(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q", s)
	}

	return id, nil
}

// parseWeight converts a decoded JSON value or Go number into a finite float.
func parseWeight(v any) (float64, error) {
	var f float64

	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case json.Number:
		parsed, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported weight type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite weight %v", f)
	}

	return f, nil
}
