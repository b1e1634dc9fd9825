// internal/rules/compile.go
package rules

import (
	"time"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
)

/*
 * Rule compilation.
 *
 * Compiles an ordered list of flat rules into a single Predicate over
 * Customer. Compilation validates every rule up front (unknown field,
 * unknown operator, malformed value) so bad rules are rejected before
 * any segment or campaign state is created from them.
 *
 * Field-specific semantics:
 *   - daysSinceLastVisit is converted to an absolute cutoff date
 *     (now - value days). Operator direction inverts relative to the
 *     raw day count: more "days since" means an earlier date, so
 *     > on days becomes < on the visit date. Equality matches the 24h
 *     window starting at the cutoff. Customers that never visited
 *     match nothing.
 *   - customerTier only supports "=" and lowers the tier label to a
 *     half-open totalSpent range, so the predicate never needs a
 *     stored tier column.
 *   - Every other field maps its operator directly; in/not_in coerce
 *     scalar values to one-element arrays.
 *
 * Combination policy: the whole list collapses under the single
 * logical operator of the FIRST rule (OR gives a disjunction, anything
 * else a conjunction). Per-rule operators beyond the first are ignored
 * - this matches the persisted rule format, which carries a
 * logicalOperator per rule but has always been interpreted this way.
 * A single-rule list yields that rule's condition unwrapped; an empty
 * list matches everyone.
 */

// Rule field domain.
const (
	FieldTotalSpent         = "totalSpent"
	FieldVisitCount         = "visitCount"
	FieldDaysSinceLastVisit = "daysSinceLastVisit"
	FieldCustomerTier       = "customerTier"
	FieldCity               = "location.city"
)

// Predicate is a compiled audience condition over one customer.
type Predicate func(c model.Customer) bool

// MatchAll is the predicate an empty rule list compiles to.
func MatchAll(model.Customer) bool { return true }

// Compile turns an ordered rule list into a single evaluable predicate.
// The reference time is captured once so relative-date rules evaluate
// against the same "now" for the whole audience.
func Compile(ruleList []model.Rule, now time.Time) (Predicate, error) {
	if len(ruleList) == 0 {
		return MatchAll, nil
	}

	conds := make([]Predicate, 0, len(ruleList))
	for i, r := range ruleList {
		cond, err := compileRule(i, r, now)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	if len(conds) == 1 {
		return conds[0], nil
	}

	// Single combinator from the first rule only.
	if ruleList[0].LogicalOperator == "OR" {
		return func(c model.Customer) bool {
			for _, cond := range conds {
				if cond(c) {
					return true
				}
			}
			return false
		}, nil
	}
	return func(c model.Customer) bool {
		for _, cond := range conds {
			if !cond(c) {
				return false
			}
		}
		return true
	}, nil
}

// compileRule lowers one rule to a condition closure.
func compileRule(i int, r model.Rule, now time.Time) (Predicate, error) {
	op := Operator(r.Operator)
	if !knownOperator(op) {
		return nil, appErrors.NewInvalidRule(i, "unknown operator %q", r.Operator)
	}

	switch r.Field {
	case FieldDaysSinceLastVisit:
		return compileDaysSinceLastVisit(i, op, r.Value, now)
	case FieldCustomerTier:
		return compileCustomerTier(i, op, r.Value)
	case FieldTotalSpent:
		return compileDirect(i, op, r.Value, func(c model.Customer) any { return c.TotalSpent })
	case FieldVisitCount:
		return compileDirect(i, op, r.Value, func(c model.Customer) any { return float64(c.VisitCount) })
	case FieldCity:
		return compileDirect(i, op, r.Value, func(c model.Customer) any { return c.City })
	default:
		return nil, appErrors.NewInvalidRule(i, "unknown field %q", r.Field)
	}
}

// compileDirect handles fields whose operator maps straight through.
func compileDirect(i int, op Operator, value any, field func(c model.Customer) any) (Predicate, error) {
	if op == OpIn || op == OpNotIn {
		set := toArray(value)
		return func(c model.Customer) bool {
			return Compare(op, field(c), any(set))
		}, nil
	}
	if value == nil {
		return nil, appErrors.NewInvalidRule(i, "operator %q requires a value", op)
	}
	return func(c model.Customer) bool {
		return Compare(op, field(c), value)
	}, nil
}

// compileDaysSinceLastVisit lowers a relative day count to an absolute
// cutoff date and inverts the operator direction onto that date.
func compileDaysSinceLastVisit(i int, op Operator, value any, now time.Time) (Predicate, error) {
	days, ok := toFloat64(value)
	if !ok {
		return nil, appErrors.NewInvalidRule(i, "daysSinceLastVisit requires a numeric value")
	}
	cutoff := now.AddDate(0, 0, -int(days))

	var cond func(visit time.Time) bool
	switch op {
	case OpGt:
		// more days since => visited before the cutoff
		cond = func(v time.Time) bool { return v.Before(cutoff) }
	case OpGte:
		cond = func(v time.Time) bool { return !v.After(cutoff) }
	case OpLt:
		cond = func(v time.Time) bool { return v.After(cutoff) }
	case OpLte:
		cond = func(v time.Time) bool { return !v.Before(cutoff) }
	case OpEq:
		// the 24h window starting at the cutoff date
		end := cutoff.AddDate(0, 0, 1)
		cond = func(v time.Time) bool { return !v.Before(cutoff) && v.Before(end) }
	case OpNeq:
		end := cutoff.AddDate(0, 0, 1)
		cond = func(v time.Time) bool { return v.Before(cutoff) || !v.Before(end) }
	default:
		return nil, appErrors.NewInvalidRule(i, "operator %q is not supported for daysSinceLastVisit", op)
	}

	return func(c model.Customer) bool {
		if c.LastVisit == nil {
			return false
		}
		return cond(*c.LastVisit)
	}, nil
}

// tierRange is a half-open totalSpent interval (Min, Max]; Min of -1
// marks the bronze floor, Max of 0 marks an unbounded premium ceiling.
type tierRange struct {
	Min, Max  float64
	Unbounded bool
}

var tierRanges = map[model.Tier]tierRange{
	model.TierBronze:  {Min: -1, Max: 5000},
	model.TierSilver:  {Min: 5000, Max: 20000},
	model.TierGold:    {Min: 20000, Max: 50000},
	model.TierPremium: {Min: 50000, Unbounded: true},
}

// compileCustomerTier lowers a tier label to a totalSpent range
// condition. Only equality is meaningful for tiers.
func compileCustomerTier(i int, op Operator, value any) (Predicate, error) {
	if op != OpEq {
		return nil, appErrors.NewInvalidRule(i, "customerTier only supports the = operator, got %q", op)
	}
	label, ok := value.(string)
	if !ok {
		return nil, appErrors.NewInvalidRule(i, "customerTier requires a tier label")
	}
	rng, ok := tierRanges[model.Tier(label)]
	if !ok {
		return nil, appErrors.NewInvalidRule(i, "unknown tier %q", label)
	}

	return func(c model.Customer) bool {
		if c.TotalSpent <= rng.Min {
			return false
		}
		if rng.Unbounded {
			return true
		}
		return c.TotalSpent <= rng.Max
	}, nil
}
