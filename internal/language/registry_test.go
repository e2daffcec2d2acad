package language_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skelmap/skelmap/internal/language"
)

func mustNewRegistry(t *testing.T) *language.Registry {
	t.Helper()
	registry, registryError := language.NewRegistry()
	if registryError != nil {
		t.Fatalf("building registry: %v", registryError)
	}
	return registry
}

func TestLanguageForPath(t *testing.T) {
	registry := mustNewRegistry(t)
	testCases := []struct {
		path             string
		expectedLanguage string
		expectedFound    bool
	}{
		{path: "src/app.py", expectedLanguage: "Python", expectedFound: true},
		{path: "web/index.tsx", expectedLanguage: "TypeScript", expectedFound: true},
		{path: "cmd/main.go", expectedLanguage: "Go", expectedFound: true},
		{path: "data/dump.bin", expectedFound: false},
		{path: "Makefile", expectedFound: false},
	}
	for _, testCase := range testCases {
		languageName, found := registry.LanguageForPath(testCase.path)
		if found != testCase.expectedFound || languageName != testCase.expectedLanguage {
			t.Errorf("LanguageForPath(%q) = (%q, %v), expected (%q, %v)",
				testCase.path, languageName, found, testCase.expectedLanguage, testCase.expectedFound)
		}
	}
}

func TestCommentPrefix(t *testing.T) {
	registry := mustNewRegistry(t)
	if prefix := registry.CommentPrefix("Python"); prefix != "#" {
		t.Errorf("Python prefix = %q, expected #", prefix)
	}
	if prefix := registry.CommentPrefix("Go"); prefix != "//" {
		t.Errorf("Go prefix = %q, expected //", prefix)
	}
	if prefix := registry.CommentPrefix("Unknown"); prefix != "#" {
		t.Errorf("unknown language prefix = %q, expected #", prefix)
	}
}

func TestDefaultSets(t *testing.T) {
	registry := mustNewRegistry(t)
	if !registry.IsAlwaysFull("README.md") {
		t.Error("README.md should be always-full")
	}
	if registry.IsAlwaysFull("app.py") {
		t.Error("app.py should not be always-full")
	}
	if !registry.IsSkeletonExcludedDirectory("tests") {
		t.Error("tests should be a skeleton-excluded directory")
	}
	defaultPatterns := registry.DefaultExcludePatterns()
	foundNodeModules := false
	for _, pattern := range defaultPatterns {
		if pattern == "node_modules" {
			foundNodeModules = true
		}
	}
	if !foundNodeModules {
		t.Error("default exclude patterns should contain node_modules")
	}
}

func TestLoadRegistryOverride(t *testing.T) {
	const overrideDefinitions = `
languages:
  Zig:
    type: programming
    extensions: [".zig"]
    comment: slash
always_full: ["build.zig"]
`
	overridePath := filepath.Join(t.TempDir(), "languages.yaml")
	if writeError := os.WriteFile(overridePath, []byte(overrideDefinitions), 0o644); writeError != nil {
		t.Fatalf("writing override file: %v", writeError)
	}
	registry, registryError := language.LoadRegistry(overridePath)
	if registryError != nil {
		t.Fatalf("loading override registry: %v", registryError)
	}
	if languageName, found := registry.LanguageForPath("src/main.zig"); !found || languageName != "Zig" {
		t.Errorf("LanguageForPath(main.zig) = (%q, %v), expected (Zig, true)", languageName, found)
	}
	if _, found := registry.LanguageForPath("src/app.py"); found {
		t.Error("override registry should not know Python")
	}
}
