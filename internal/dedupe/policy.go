package dedupe

import (
	"errors"
	"fmt"
)

// Mode selects how a rule compares two values.
type Mode string

const (
	// ModeFuzzy compares with Similarity against Threshold. List values pass
	// when any candidate x existing pair passes.
	ModeFuzzy Mode = "fuzzy"
	// ModeExact compares normalized text for equality.
	ModeExact Mode = "exact"
	// ModeNumeric passes when |a-b| < Tolerance.
	ModeNumeric Mode = "numeric"
	// ModeSameDay compares calendar dates, ignoring time of day.
	ModeSameDay Mode = "same_day"
)

// Combinator joins rule or clause outcomes.
type Combinator string

const (
	All Combinator = "all"
	Any Combinator = "any"
)

// Rule is one comparison dimension.
type Rule struct {
	Field     string
	Mode      Mode
	Threshold float64
	Tolerance float64
}

// Clause is a named group of rules. The clause name is reported back when
// the clause triggers, so callers can shape the conflict snapshot.
type Clause struct {
	Name       string
	Combinator Combinator
	Rules      []Rule
}

// Policy describes when a candidate duplicates an existing record.
type Policy struct {
	Entity     string
	Combinator Combinator
	Clauses    []Clause
}

var ErrInvalidPolicy = errors.New("invalid_policy")

// Validate rejects descriptors the evaluator cannot interpret.
func (p Policy) Validate() error {
	if !validCombinator(p.Combinator) {
		return fmt.Errorf("%w: %s combinator %q", ErrInvalidPolicy, p.Entity, p.Combinator)
	}
	for _, clause := range p.Clauses {
		if !validCombinator(clause.Combinator) {
			return fmt.Errorf("%w: %s/%s combinator %q", ErrInvalidPolicy, p.Entity, clause.Name, clause.Combinator)
		}
		if len(clause.Rules) == 0 {
			return fmt.Errorf("%w: %s/%s has no rules", ErrInvalidPolicy, p.Entity, clause.Name)
		}
		for _, rule := range clause.Rules {
			switch rule.Mode {
			case ModeFuzzy:
				if rule.Threshold <= 0 || rule.Threshold > 1 {
					return fmt.Errorf("%w: %s.%s threshold %v", ErrInvalidPolicy, p.Entity, rule.Field, rule.Threshold)
				}
			case ModeNumeric:
				if rule.Tolerance <= 0 {
					return fmt.Errorf("%w: %s.%s tolerance %v", ErrInvalidPolicy, p.Entity, rule.Field, rule.Tolerance)
				}
			case ModeExact, ModeSameDay:
			default:
				return fmt.Errorf("%w: %s.%s mode %q", ErrInvalidPolicy, p.Entity, rule.Field, rule.Mode)
			}
		}
	}
	return nil
}

func validCombinator(c Combinator) bool {
	return c == All || c == Any
}
