package ignore_test

import (
	"testing"

	"github.com/skelmap/skelmap/internal/ignore"
)

// multiSegmentPattern is the nested rule exercised across the subsequence tests.
const multiSegmentPattern = "integrity/firefox"

// nodeModulesPattern matches the dependency directory by name.
const nodeModulesPattern = "node_modules"

func mustParseRules(t *testing.T, patterns []string) ignore.RuleSet {
	t.Helper()
	ruleSet, parseError := ignore.ParseRules(patterns)
	if parseError != nil {
		t.Fatalf("ParseRules(%v) returned error: %v", patterns, parseError)
	}
	return ruleSet
}

func TestMatchesSingleSegment(t *testing.T) {
	testCases := []struct {
		name     string
		patterns []string
		path     string
		expected bool
	}{
		{name: "literal directory name at depth", patterns: []string{nodeModulesPattern}, path: "src/node_modules/pkg/index.js", expected: true},
		{name: "literal directory name at root", patterns: []string{nodeModulesPattern}, path: "node_modules", expected: true},
		{name: "unrelated path", patterns: []string{nodeModulesPattern}, path: "src/app.py", expected: false},
		{name: "wildcard extension", patterns: []string{"*.pyc"}, path: "pkg/cache.pyc", expected: true},
		{name: "wildcard does not cross segments", patterns: []string{"*.pyc"}, path: "pyc/readme.md", expected: false},
		{name: "question mark", patterns: []string{"v?"}, path: "docs/v2/index.md", expected: true},
		{name: "character class", patterns: []string{"[ab]env"}, path: "aenv/config", expected: true},
		{name: "case sensitive", patterns: []string{"firefox"}, path: "Firefox/x", expected: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ruleSet := mustParseRules(t, testCase.patterns)
			if actual := ruleSet.Matches(testCase.path); actual != testCase.expected {
				t.Errorf("Matches(%q, %v) = %v, expected %v", testCase.path, testCase.patterns, actual, testCase.expected)
			}
		})
	}
}

func TestMatchesMultiSegmentSubsequence(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "exact path", path: "integrity/firefox", expected: true},
		{name: "nested at depth", path: "src/vendor/integrity/firefox/content.js", expected: true},
		{name: "surrounded", path: "x/integrity/firefox/y", expected: true},
		{name: "interrupted run", path: "integrity/x/firefox", expected: false},
		{name: "reversed order", path: "firefox/integrity", expected: false},
		{name: "partial segment", path: "integrity/firefoxen", expected: false},
	}

	ruleSet := mustParseRules(t, []string{multiSegmentPattern})
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := ruleSet.Matches(testCase.path); actual != testCase.expected {
				t.Errorf("Matches(%q) = %v, expected %v", testCase.path, actual, testCase.expected)
			}
		})
	}
}

func TestTrailingSeparatorEquivalence(t *testing.T) {
	withSlash := mustParseRules(t, []string{nodeModulesPattern + "/"})
	withoutSlash := mustParseRules(t, []string{nodeModulesPattern})
	paths := []string{"node_modules", "node_modules/pkg/index.js", "src/node_modules", "src/app.py"}
	for _, path := range paths {
		if withSlash.Matches(path) != withoutSlash.Matches(path) {
			t.Errorf("trailing separator changed result for %q", path)
		}
	}
}

func TestBackslashNormalization(t *testing.T) {
	ruleSet := mustParseRules(t, []string{`subdir\node_modules\`})
	if !ruleSet.Matches("subdir/node_modules/index.js") {
		t.Error("backslash pattern did not match forward-slash path")
	}
	if !ruleSet.Matches(`subdir\node_modules\index.js`) {
		t.Error("backslash pattern did not match backslash path")
	}
}

func TestEmptyRuleSetNeverMatches(t *testing.T) {
	ruleSet := mustParseRules(t, nil)
	if !ruleSet.Empty() {
		t.Error("expected empty rule set")
	}
	if ruleSet.Matches("any/path/at/all") {
		t.Error("empty rule set matched a path")
	}
}

func TestMatchesIsPure(t *testing.T) {
	ruleSet := mustParseRules(t, []string{nodeModulesPattern, multiSegmentPattern, "*.tmp"})
	const path = "src/vendor/integrity/firefox/content.js"
	first := ruleSet.Matches(path)
	for repetition := 0; repetition < 5; repetition++ {
		if ruleSet.Matches(path) != first {
			t.Fatal("repeated Matches calls disagree")
		}
	}
}

func TestParseRulesRejectsMalformedPattern(t *testing.T) {
	if _, parseError := ignore.ParseRules([]string{"[unclosed"}); parseError == nil {
		t.Error("expected error for malformed character class")
	}
}

func TestParseRulesSkipsBlankPatterns(t *testing.T) {
	ruleSet := mustParseRules(t, []string{"", "   ", "/"})
	if !ruleSet.Empty() {
		t.Error("blank patterns should produce an empty rule set")
	}
}
