package types

import (
	"encoding/json"
	"fmt"
)

// The game stores role-specific staff attributes as a JSON object in the
// AbilityJSON column. The only key the editor understands is rawAbility;
// everything else must survive an edit byte-for-byte in value terms, so
// edits decode the full object, touch one key, and re-encode.

const abilityKey = "rawAbility"

// Ability extracts the rawAbility value from the staff attribute set.
// Returns 0 when the key is absent, which is how the game encodes "unrated".
func (s Staff) Ability() (int64, error) {
	if s.AbilityJSON == "" {
		return 0, nil
	}
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s.AbilityJSON), &attrs); err != nil {
		return 0, fmt.Errorf("parse ability attributes: %w", err)
	}
	raw, ok := attrs[abilityKey]
	if !ok {
		return 0, nil
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("parse %s: %w", abilityKey, err)
	}
	return v, nil
}

// SetAbility rewrites rawAbility, preserving every other attribute the game
// may have stored alongside it.
func (s *Staff) SetAbility(value int64) error {
	attrs := map[string]json.RawMessage{}
	if s.AbilityJSON != "" {
		if err := json.Unmarshal([]byte(s.AbilityJSON), &attrs); err != nil {
			return fmt.Errorf("parse ability attributes: %w", err)
		}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", abilityKey, err)
	}
	attrs[abilityKey] = raw
	out, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encode ability attributes: %w", err)
	}
	s.AbilityJSON = string(out)
	return nil
}
