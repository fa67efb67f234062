package domain

import "time"

// Rule is a single scheduling constraint applied during optimization.
type Rule struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"type"`
	Kind        string         `json:"kind"`
	Scope       string         `json:"scope,omitempty"`
	Description string         `json:"description,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// RuleSet is a named collection of scheduling rules. It is resolved by
// name at submit time and embedded whole into the published payload.
type RuleSet struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Rules       []Rule    `json:"rules"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
