// Package rules implements the identifier rule matcher spec §4.3.1 uses to
// classify windows against user-supplied float/manage/ignore/workspace-
// assignment/etc. catalogs.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tilewm/internal/wmwindow"
)

// ErrInvalidRegex is returned when a Regex-strategy rule's pattern fails to
// compile (spec §7 "Rule parse failure").
var ErrInvalidRegex = errors.New("rules: invalid regex pattern")

// Strategy is one of the six string-match strategies spec §4.3.1 names.
type Strategy string

const (
	Legacy     Strategy = "Legacy" // case-insensitive substring
	Equals     Strategy = "Equals"
	StartsWith Strategy = "StartsWith"
	EndsWith   Strategy = "EndsWith"
	Contains   Strategy = "Contains"
	Regex      Strategy = "Regex"
)

// Field selects which cached window attribute a Rule matches against.
type Field string

const (
	FieldExecutable Field = "Executable"
	FieldClass      Field = "Class"
	FieldTitle      Field = "Title"
	FieldPath       Field = "Path"
)

// Rule is a single identifier match: "windows whose Field matches Pattern
// under Strategy".
type Rule struct {
	Field    Field
	Pattern  string
	Strategy Strategy

	compiled *regexp.Regexp
}

// Compile validates the rule and, for Regex rules, precompiles the pattern.
// Per spec §7, an invalid regex must be rejected at the point of definition
// without touching the caller's prior rule set.
func (r *Rule) Compile() error {
	if r.Strategy != Regex {
		return nil
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRegex, err)
	}
	r.compiled = re
	return nil
}

func (r Rule) value(w wmwindow.Window) string {
	switch r.Field {
	case FieldExecutable:
		return w.Executable
	case FieldClass:
		return w.Class
	case FieldTitle:
		return w.Title
	case FieldPath:
		return w.ExecPath
	default:
		return ""
	}
}

// Match reports whether w's selected field satisfies the rule.
func (r Rule) Match(w wmwindow.Window) bool {
	v := r.value(w)
	switch r.Strategy {
	case Legacy:
		return strings.Contains(strings.ToLower(v), strings.ToLower(r.Pattern))
	case Equals:
		return v == r.Pattern
	case StartsWith:
		return strings.HasPrefix(v, r.Pattern)
	case EndsWith:
		return strings.HasSuffix(v, r.Pattern)
	case Contains:
		return strings.Contains(v, r.Pattern)
	case Regex:
		if r.compiled == nil {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return false
			}
			r.compiled = re
		}
		return r.compiled.MatchString(v)
	default:
		return false
	}
}

// Set is an ordered collection of rules evaluated first-match-wins, as every
// catalog in spec §4.3.1 is.
type Set []Rule

// FirstMatch returns the index of the first rule matching w, or -1.
func (s Set) FirstMatch(w wmwindow.Window) int {
	for i, r := range s {
		if r.Match(w) {
			return i
		}
	}
	return -1
}

// Matches reports whether any rule in the set matches w.
func (s Set) Matches(w wmwindow.Window) bool {
	return s.FirstMatch(w) >= 0
}

// CompileAll compiles every rule in the set, returning the first error
// encountered (and the index), leaving the set otherwise untouched so the
// caller can reject the whole batch without partial application.
func CompileAll(rules []Rule) error {
	for i := range rules {
		if err := rules[i].Compile(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
