package search

import (
	"fmt"
	"strconv"
	"strings"
)

type Comparator string

const (
	LessEqual    Comparator = "<="
	GreaterEqual Comparator = ">="
)

// LinearConstraint is a parsed parameter constraint of the form
// "x1 + 2*x2 <= 2.0": a weighted sum of parameter names compared against a
// literal bound.
type LinearConstraint struct {
	Expr       string
	Terms      map[string]float64
	Comparator Comparator
	Bound      float64
}

// OutcomeConstraint bounds a reported metric of a finished trial, for
// example "l2norm <= 1.25". A violated outcome constraint marks the trial
// infeasible rather than failed.
type OutcomeConstraint struct {
	Expr       string
	Metric     string
	Comparator Comparator
	Bound      float64
}

// ParseLinear parses a linear parameter constraint expression.
func ParseLinear(expr string) (LinearConstraint, error) {
	lhs, cmp, bound, err := splitComparison(expr)
	if err != nil {
		return LinearConstraint{}, err
	}
	terms, err := parseTerms(lhs)
	if err != nil {
		return LinearConstraint{}, fmt.Errorf("constraint %q: %w", expr, err)
	}
	return LinearConstraint{Expr: expr, Terms: terms, Comparator: cmp, Bound: bound}, nil
}

// ParseOutcome parses an outcome constraint expression. The left-hand side
// must be a single metric name.
func ParseOutcome(expr string) (OutcomeConstraint, error) {
	lhs, cmp, bound, err := splitComparison(expr)
	if err != nil {
		return OutcomeConstraint{}, err
	}
	metric := strings.TrimSpace(lhs)
	if metric == "" || strings.ContainsAny(metric, "+-*/ ") {
		return OutcomeConstraint{}, fmt.Errorf("constraint %q: left-hand side must be a single metric name", expr)
	}
	return OutcomeConstraint{Expr: expr, Metric: metric, Comparator: cmp, Bound: bound}, nil
}

// ParseLinearAll parses a list of parameter constraint expressions.
func ParseLinearAll(exprs []string) ([]LinearConstraint, error) {
	out := make([]LinearConstraint, 0, len(exprs))
	for _, e := range exprs {
		c, err := ParseLinear(e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseOutcomeAll parses a list of outcome constraint expressions.
func ParseOutcomeAll(exprs []string) ([]OutcomeConstraint, error) {
	out := make([]OutcomeConstraint, 0, len(exprs))
	for _, e := range exprs {
		c, err := ParseOutcome(e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Satisfied reports whether the sampled point meets the constraint.
// Parameters missing from the point contribute zero.
func (c LinearConstraint) Satisfied(params map[string]float64) bool {
	sum := 0.0
	for name, coeff := range c.Terms {
		sum += coeff * params[name]
	}
	return compare(sum, c.Comparator, c.Bound)
}

// Satisfied reports whether the final metrics meet the constraint. A missing
// metric counts as a violation.
func (c OutcomeConstraint) Satisfied(metrics map[string]float64) bool {
	v, ok := metrics[c.Metric]
	if !ok {
		return false
	}
	return compare(v, c.Comparator, c.Bound)
}

func compare(v float64, cmp Comparator, bound float64) bool {
	if cmp == LessEqual {
		return v <= bound
	}
	return v >= bound
}

func splitComparison(expr string) (lhs string, cmp Comparator, bound float64, err error) {
	for _, c := range []Comparator{LessEqual, GreaterEqual} {
		if idx := strings.Index(expr, string(c)); idx >= 0 {
			lhs = expr[:idx]
			rhs := strings.TrimSpace(expr[idx+len(c):])
			bound, err = strconv.ParseFloat(rhs, 64)
			if err != nil {
				return "", "", 0, fmt.Errorf("constraint %q: bound %q is not a number", expr, rhs)
			}
			return lhs, c, bound, nil
		}
	}
	return "", "", 0, fmt.Errorf("constraint %q: expected <= or >=", expr)
}

// parseTerms parses a sum of optionally signed, optionally scaled parameter
// references: "x1 + 2*x2 - 0.5*x3".
func parseTerms(lhs string) (map[string]float64, error) {
	normalized := strings.ReplaceAll(lhs, "-", "+-")
	terms := make(map[string]float64)
	for _, raw := range strings.Split(normalized, "+") {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}
		sign := 1.0
		if strings.HasPrefix(part, "-") {
			sign = -1.0
			part = strings.TrimSpace(strings.TrimPrefix(part, "-"))
		}
		coeff := 1.0
		name := part
		if idx := strings.Index(part, "*"); idx >= 0 {
			c, err := strconv.ParseFloat(strings.TrimSpace(part[:idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("coefficient %q is not a number", part[:idx])
			}
			coeff = c
			name = strings.TrimSpace(part[idx+1:])
		}
		if name == "" {
			return nil, fmt.Errorf("term %q has no parameter name", raw)
		}
		if _, err := strconv.ParseFloat(name, 64); err == nil {
			return nil, fmt.Errorf("term %q must reference a parameter", raw)
		}
		terms[name] += sign * coeff
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("no terms")
	}
	return terms, nil
}
