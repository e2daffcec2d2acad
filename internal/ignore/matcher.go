// Package ignore decides whether relative paths match a set of ignore rules.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"
)

// pathSegmentSeparator is the canonical separator both rules and paths are
// normalized to before matching.
const pathSegmentSeparator = "/"

// errorInvalidPatternFormat reports a malformed glob pattern at parse time.
const errorInvalidPatternFormat = "invalid ignore pattern %q: %w"

// Rule is a single ignore pattern. MultiSegment is true when the pattern
// contains a path separator and therefore matches a contiguous run of path
// segments rather than a single segment.
type Rule struct {
	Pattern      string
	MultiSegment bool
}

// RuleSet holds parsed rules. Literal single-segment rules are indexed in a
// set for constant-time membership; everything else is checked linearly.
type RuleSet struct {
	literalSegments map[string]struct{}
	globRules       []Rule
}

// ParseRules normalizes and validates raw pattern strings. Backslashes are
// converted to the canonical separator and a trailing separator is stripped,
// so "node_modules/" and "node_modules" are equivalent. A malformed glob
// pattern is a configuration error and is reported immediately.
func ParseRules(rawPatterns []string) (RuleSet, error) {
	ruleSet := RuleSet{literalSegments: make(map[string]struct{})}
	for _, rawPattern := range rawPatterns {
		trimmedPattern := strings.TrimSpace(rawPattern)
		if trimmedPattern == "" {
			continue
		}
		normalizedPattern := strings.ReplaceAll(trimmedPattern, "\\", pathSegmentSeparator)
		normalizedPattern = strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}
		for _, patternSegment := range strings.Split(normalizedPattern, pathSegmentSeparator) {
			if _, matchError := filepath.Match(patternSegment, ""); matchError != nil {
				return RuleSet{}, fmt.Errorf(errorInvalidPatternFormat, rawPattern, matchError)
			}
		}
		if !strings.Contains(normalizedPattern, pathSegmentSeparator) && !containsGlobMetacharacters(normalizedPattern) {
			ruleSet.literalSegments[normalizedPattern] = struct{}{}
			continue
		}
		ruleSet.globRules = append(ruleSet.globRules, Rule{
			Pattern:      normalizedPattern,
			MultiSegment: strings.Contains(normalizedPattern, pathSegmentSeparator),
		})
	}
	return ruleSet, nil
}

// Empty reports whether the rule set contains no rules.
func (ruleSet RuleSet) Empty() bool {
	return len(ruleSet.literalSegments) == 0 && len(ruleSet.globRules) == 0
}

// Matches reports whether relativePath matches any rule in the set. Matching
// is case-sensitive and a pure function of its inputs; an empty rule set
// never matches.
func (ruleSet RuleSet) Matches(relativePath string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	for _, pathSegment := range pathSegments {
		if _, found := ruleSet.literalSegments[pathSegment]; found {
			return true
		}
	}
	for _, rule := range ruleSet.globRules {
		if matchesRule(pathSegments, rule) {
			return true
		}
	}
	return false
}

// matchesRule evaluates a single rule against pre-split path segments.
// Single-segment rules match when any segment glob-matches the pattern.
// Multi-segment rules match when any contiguous subsequence of segments,
// joined by the separator, glob-matches segment-by-segment; this lets a rule
// such as "integrity/firefox" match at any depth.
func matchesRule(pathSegments []string, rule Rule) bool {
	if !rule.MultiSegment {
		for _, pathSegment := range pathSegments {
			if isMatched, matchError := filepath.Match(rule.Pattern, pathSegment); matchError == nil && isMatched {
				return true
			}
		}
		return false
	}

	patternSegments := strings.Split(rule.Pattern, pathSegmentSeparator)
	if len(patternSegments) > len(pathSegments) {
		return false
	}
	for startIndex := 0; startIndex <= len(pathSegments)-len(patternSegments); startIndex++ {
		if segmentsMatch(pathSegments[startIndex:startIndex+len(patternSegments)], patternSegments) {
			return true
		}
	}
	return false
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}

// containsGlobMetacharacters reports whether pattern uses filepath.Match syntax.
func containsGlobMetacharacters(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
