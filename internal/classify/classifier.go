// Package classify assigns exactly one content tier to every retained file.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/skelmap/skelmap/internal/ignore"
	"github.com/skelmap/skelmap/internal/language"
	"github.com/skelmap/skelmap/internal/types"
)

// Reasons attached to tier decisions, surfaced in the run summary.
const (
	ReasonIncludedPath      = "explicit include path"
	ReasonIncludedPattern   = "include pattern"
	ReasonAlwaysFull        = "always-full name"
	ReasonExcludePattern    = "exclude pattern"
	ReasonExcludedDirectory = "excluded directory"
	ReasonSourceExtension   = "source extension"
	ReasonUnrecognizedType  = "unrecognized type"
	ReasonSkeletonOnly      = "skeleton-only directory"
)

// errorInvalidIncludePatternFormat reports a malformed include pattern at construction time.
const errorInvalidIncludePatternFormat = "invalid include pattern %q: %w"

// Options configures tier assignment beyond the built-in defaults.
type Options struct {
	// IncludePaths are relative paths always emitted with full content.
	IncludePaths []string
	// IncludePatterns are glob patterns whose matches are emitted with full content.
	IncludePatterns []string
	// ExcludeRules are user-supplied rules demoting matches to the excluded tier.
	ExcludeRules ignore.RuleSet
	// SkeletonOnlyDirectories never receive full content except via IncludePaths.
	SkeletonOnlyDirectories []string
}

// Classifier implements the total tier precedence: explicit include path >
// include pattern > always-full allow-list > exclude rules and excluded
// directories > source-extension skeleton > excluded fallback.
type Classifier struct {
	registry        *language.Registry
	options         Options
	includePathSet  map[string]struct{}
	skeletonOnlySet map[string]struct{}
}

// New validates the options and builds a Classifier. Malformed include
// patterns are configuration errors and are reported before any traversal.
func New(registry *language.Registry, options Options) (*Classifier, error) {
	for _, includePattern := range options.IncludePatterns {
		if _, matchError := filepath.Match(includePattern, ""); matchError != nil {
			return nil, fmt.Errorf(errorInvalidIncludePatternFormat, includePattern, matchError)
		}
	}
	classifier := &Classifier{
		registry:        registry,
		options:         options,
		includePathSet:  make(map[string]struct{}),
		skeletonOnlySet: make(map[string]struct{}),
	}
	for _, includePath := range options.IncludePaths {
		classifier.includePathSet[filepath.ToSlash(includePath)] = struct{}{}
	}
	for _, skeletonDirectory := range options.SkeletonOnlyDirectories {
		classifier.skeletonOnlySet[strings.TrimSuffix(filepath.ToSlash(skeletonDirectory), "/")] = struct{}{}
	}
	return classifier, nil
}

// Classify assigns the tier for one file entry and the reason for the
// decision. The precedence is total: exactly one rule wins for every path.
func (classifier *Classifier) Classify(entry types.PathEntry) (types.Tier, string) {
	relativePath := filepath.ToSlash(entry.RelativePath)
	baseName := filepath.Base(relativePath)

	if _, included := classifier.includePathSet[relativePath]; included {
		return types.TierFull, ReasonIncludedPath
	}

	forcedSkeleton := classifier.underSkeletonOnlyDirectory(relativePath)

	if classifier.matchesIncludePattern(relativePath, baseName) {
		if forcedSkeleton {
			return types.TierSkeleton, ReasonSkeletonOnly
		}
		return types.TierFull, ReasonIncludedPattern
	}

	if classifier.registry.IsAlwaysFull(baseName) {
		if forcedSkeleton {
			return types.TierSkeleton, ReasonSkeletonOnly
		}
		return types.TierFull, ReasonAlwaysFull
	}

	if classifier.options.ExcludeRules.Matches(relativePath) {
		return types.TierExcluded, ReasonExcludePattern
	}
	if classifier.underExcludedDirectory(relativePath) {
		return types.TierExcluded, ReasonExcludedDirectory
	}

	if _, recognized := classifier.registry.LanguageForPath(relativePath); recognized {
		return types.TierSkeleton, ReasonSourceExtension
	}
	return types.TierExcluded, ReasonUnrecognizedType
}

// matchesIncludePattern checks the include patterns against the full relative
// path and the base name.
func (classifier *Classifier) matchesIncludePattern(relativePath string, baseName string) bool {
	for _, includePattern := range classifier.options.IncludePatterns {
		if isMatched, _ := filepath.Match(includePattern, relativePath); isMatched {
			return true
		}
		if isMatched, _ := filepath.Match(includePattern, baseName); isMatched {
			return true
		}
	}
	return false
}

// underSkeletonOnlyDirectory reports whether any ancestor directory of the
// path was marked skeleton-only.
func (classifier *Classifier) underSkeletonOnlyDirectory(relativePath string) bool {
	if len(classifier.skeletonOnlySet) == 0 {
		return false
	}
	for _, ancestorPath := range ancestorPaths(relativePath) {
		if _, found := classifier.skeletonOnlySet[ancestorPath]; found {
			return true
		}
	}
	return false
}

// underExcludedDirectory reports whether any path segment names a directory
// excluded from skeleton output by default.
func (classifier *Classifier) underExcludedDirectory(relativePath string) bool {
	segments := strings.Split(relativePath, "/")
	for _, segment := range segments[:len(segments)-1] {
		if classifier.registry.IsSkeletonExcludedDirectory(segment) {
			return true
		}
	}
	return false
}

// ancestorPaths returns every proper ancestor of a relative path, nearest
// first: "a/b/c.py" yields "a/b" then "a".
func ancestorPaths(relativePath string) []string {
	var ancestors []string
	current := relativePath
	for {
		parent := filepath.ToSlash(filepath.Dir(current))
		if parent == "." || parent == "/" || parent == current {
			return ancestors
		}
		ancestors = append(ancestors, parent)
		current = parent
	}
}
