// internal/model/segment.go
package model

import (
	"fmt"
	"time"
)

// Rule is one flat condition inside a segment's rule list.
// Value is a scalar for comparison operators and an array for in/not_in
// (scalars are coerced to one-element arrays at compile time).
// LogicalOperator is only honored on the first rule of a list; see
// internal/rules for the combination policy.
type Rule struct {
	Field           string `json:"field"`
	Operator        string `json:"operator"`
	Value           any    `json:"value"`
	LogicalOperator string `json:"logicalOperator,omitempty"`
}

// Segment is a named, persisted rule set with a cached audience size.
// AudienceSize is a snapshot taken when the segment was created or last
// recalculated; it is never refreshed in the background.
type Segment struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Rules          []Rule    `json:"rules"`
	AudienceSize   int       `db:"audience_size" json:"audience_size"`
	LastCalculated time.Time `db:"last_calculated" json:"last_calculated"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Validate checks segment fields before persistence. Rule semantics
// (known fields, operator/value shapes) are validated by the compiler.
func (s *Segment) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("segment name is required")
	}
	if len(s.Rules) == 0 {
		return fmt.Errorf("segment requires at least one rule")
	}
	return nil
}
