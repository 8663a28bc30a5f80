package model

import (
	"errors"
	"fmt"
	"strings"
)

// MatchKind decides how a category's predicates combine.
type MatchKind int

// Match kinds.
const (
	// AllOf requires every predicate to hold.
	AllOf MatchKind = iota
	// AnyOf requires at least one predicate to hold.
	AnyOf
)

func (k MatchKind) String() string {
	if k == AnyOf {
		return "any"
	}
	return "all"
}

// KindFor returns the combination rule for a level. Micro enterprises qualify
// on any single threshold; every other level needs all of them.
func KindFor(level ScaleLevel) MatchKind {
	if level == MicroEnterprise {
		return AnyOf
	}
	return AllOf
}

// CategoryRule is one scale level's threshold set inside an industry rule.
type CategoryRule struct {
	Predicates []Predicate `json:"predicates"`
	Level      ScaleLevel  `json:"level"`
	Kind       MatchKind   `json:"kind"`
}

// Evaluate reports whether the record qualifies for the category. The first
// predicate error aborts evaluation of this category.
func (c CategoryRule) Evaluate(r *Record) (bool, error) {
	if len(c.Predicates) == 0 {
		return false, nil
	}
	for _, p := range c.Predicates {
		ok, err := p.Evaluate(r)
		if err != nil {
			return false, err
		}
		if c.Kind == AnyOf && ok {
			return true, nil
		}
		if c.Kind == AllOf && !ok {
			return false, nil
		}
	}
	return c.Kind == AllOf, nil
}

// IndustryRule holds the thresholds for one industry.
type IndustryRule struct {
	Matcher    string         `json:"matcher"`
	Categories []CategoryRule `json:"categories"`
	Level      MatchLevel     `json:"match_level"`
}

// Matches reports whether the record's code for the rule's level contains the
// matcher. Records without that code column never match.
func (r IndustryRule) Matches(rec *Record) bool {
	code, ok := rec.Code(r.Level)
	if !ok {
		return false
	}
	return strings.Contains(code, r.Matcher)
}

// Validate checks the invariants the engine relies on.
func (r IndustryRule) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Matcher) == "" {
		errs = append(errs, errors.New("empty industry matcher"))
	}
	if !r.Level.Valid() {
		errs = append(errs, fmt.Errorf("invalid match level %d", r.Level))
	}
	seen := make(map[ScaleLevel]bool, len(r.Categories))
	for _, c := range r.Categories {
		if !c.Level.Valid() {
			errs = append(errs, fmt.Errorf("invalid category %s", c.Level))
		}
		if seen[c.Level] {
			errs = append(errs, fmt.Errorf("duplicate category %s", c.Level.Label()))
		}
		seen[c.Level] = true
		if c.Kind != KindFor(c.Level) {
			errs = append(errs, fmt.Errorf("category %s must use %s matching", c.Level.Label(), KindFor(c.Level)))
		}
		if len(c.Predicates) == 0 {
			errs = append(errs, fmt.Errorf("category %s has no conditions", c.Level.Label()))
		}
	}
	return errors.Join(errs...)
}
