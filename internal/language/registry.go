// Package language maps file paths to language definitions and carries the
// default classification sets: always-full file names, default exclude
// patterns, and directory names excluded from skeleton output.
package language

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Comment styles used when rendering placeholder markers.
const (
	CommentStyleHash  = "hash"
	CommentStyleSlash = "slash"
)

//go:embed languages.yaml
var embeddedDefinitions []byte

// Definition holds the details of a single language relevant for file
// detection and skeleton rendering.
type Definition struct {
	Type       string   `yaml:"type"`
	Extensions []string `yaml:"extensions"`
	Comment    string   `yaml:"comment"`
}

// registryFile is the on-disk schema of a language definition file.
type registryFile struct {
	Languages            map[string]Definition `yaml:"languages"`
	AlwaysFull           []string              `yaml:"always_full"`
	ExcludePatterns      []string              `yaml:"exclude_patterns"`
	SkeletonExcludedDirs []string              `yaml:"skeleton_excluded_dirs"`
}

// Registry resolves file paths to languages and exposes the default
// classification sets.
type Registry struct {
	definitions          map[string]Definition
	extensionToLanguage  map[string]string
	alwaysFullNames      map[string]struct{}
	excludePatterns      []string
	skeletonExcludedDirs map[string]struct{}
}

// NewRegistry builds a Registry from the embedded default definitions.
func NewRegistry() (*Registry, error) {
	return newRegistryFromBytes(embeddedDefinitions)
}

// LoadRegistry builds a Registry from a user-supplied definition file.
func LoadRegistry(definitionFilePath string) (*Registry, error) {
	fileBytes, readError := os.ReadFile(definitionFilePath)
	if readError != nil {
		return nil, fmt.Errorf("reading language definitions %s: %w", definitionFilePath, readError)
	}
	return newRegistryFromBytes(fileBytes)
}

func newRegistryFromBytes(definitionBytes []byte) (*Registry, error) {
	var parsedFile registryFile
	if unmarshalError := yaml.Unmarshal(definitionBytes, &parsedFile); unmarshalError != nil {
		return nil, fmt.Errorf("parsing language definitions: %w", unmarshalError)
	}

	registry := &Registry{
		definitions:          parsedFile.Languages,
		extensionToLanguage:  make(map[string]string),
		alwaysFullNames:      make(map[string]struct{}),
		excludePatterns:      parsedFile.ExcludePatterns,
		skeletonExcludedDirs: make(map[string]struct{}),
	}
	for languageName, definition := range parsedFile.Languages {
		for _, extension := range definition.Extensions {
			registry.extensionToLanguage[strings.ToLower(extension)] = languageName
		}
	}
	for _, fileName := range parsedFile.AlwaysFull {
		registry.alwaysFullNames[fileName] = struct{}{}
	}
	for _, directoryName := range parsedFile.SkeletonExcludedDirs {
		registry.skeletonExcludedDirs[directoryName] = struct{}{}
	}
	return registry, nil
}

// LanguageForPath returns the language name for a file path based on its
// extension, or false when the extension is not a recognized source type.
func (registry *Registry) LanguageForPath(path string) (string, bool) {
	extension := strings.ToLower(filepath.Ext(path))
	if extension == "" {
		return "", false
	}
	languageName, found := registry.extensionToLanguage[extension]
	return languageName, found
}

// CommentPrefix returns the line-comment prefix for the given language.
// Unknown languages default to the hash style, matching the heuristic
// extractor's behavior for unrecognized files.
func (registry *Registry) CommentPrefix(languageName string) string {
	if definition, found := registry.definitions[languageName]; found && definition.Comment == CommentStyleSlash {
		return "//"
	}
	return "#"
}

// IsAlwaysFull reports whether the base file name belongs to the always-full
// allow-list (manifests, primary configuration, top-level documentation).
func (registry *Registry) IsAlwaysFull(fileName string) bool {
	_, found := registry.alwaysFullNames[fileName]
	return found
}

// IsSkeletonExcludedDirectory reports whether a directory name is excluded
// from skeleton output by default (test suites, docs, static assets).
func (registry *Registry) IsSkeletonExcludedDirectory(directoryName string) bool {
	_, found := registry.skeletonExcludedDirs[directoryName]
	return found
}

// DefaultExcludePatterns returns the built-in ignore patterns applied before
// any user-supplied rules.
func (registry *Registry) DefaultExcludePatterns() []string {
	patterns := make([]string, len(registry.excludePatterns))
	copy(patterns, registry.excludePatterns)
	return patterns
}
