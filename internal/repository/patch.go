package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONPatch renders a merge update as a JSON object holding only the fields
// the caller set, plus the refreshed updatedAt. Update types rely on
// `omitempty` pointer fields for this.
func JSONPatch(fields interface{}, now time.Time) (map[string]json.RawMessage, error) {
	patch := make(map[string]json.RawMessage)
	if fields != nil {
		b, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode update: %w", err)
		}
		if err := json.Unmarshal(b, &patch); err != nil {
			return nil, fmt.Errorf("failed to decode update: %w", err)
		}
		if patch == nil {
			patch = make(map[string]json.RawMessage)
		}
	}

	ts, err := json.Marshal(now)
	if err != nil {
		return nil, err
	}
	patch["updatedAt"] = ts
	return patch, nil
}

// MergeJSON applies patch over the JSON form of doc and decodes the result
// into out.
func MergeJSON(doc interface{}, patch map[string]json.RawMessage, out interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &merged); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	for k, v := range patch {
		merged[k] = v
	}

	b, err = json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
