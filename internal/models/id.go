// Package models defines the domain types shared by the split engine, the
// API client and the sandbox server.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque identifier for users, groups, categories and expenses.
//
// The remote backend emits numeric primary keys while the sandbox uses UUIDs,
// so ID decodes from either a JSON number or a JSON string. It encodes back as
// a number when every character is a digit, keeping numeric backends happy.
type ID string

// String returns the identifier as text.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// MarshalJSON encodes numeric identifiers as JSON numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		*id = ID(n.String())
		return nil
	}
}

func (id ID) numeric() bool {
	if id == "" || len(id) > 18 {
		return false
	}
	if id[0] == '0' && len(id) > 1 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IDs converts a list of strings to identifiers.
func IDs(values ...string) []ID {
	ids := make([]ID, len(values))
	for i, v := range values {
		ids[i] = ID(v)
	}
	return ids
}
