// Package utils contains general helper functions used across the skelmap tool.
package utils

import (
	"path/filepath"
)

// Well-known file and directory names.
const (
	// ConfigFileName is the application configuration file looked up globally
	// and in the working directory.
	ConfigFileName = ".skelmap.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding
	// the global configuration file.
	GlobalConfigDirectoryName = ".skelmap"
	// IgnoreFileName lists traversal exclusion patterns.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is consulted for additional exclusion patterns.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is excluded from traversal by default.
	GitDirectoryName = ".git"
)

// Messages used by the application entry point.
const (
	// LoggerInitializationFailedMessageFormat reports a failure to build the logger.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage reports a fatal command error.
	ApplicationExecutionFailedMessage = "application failed"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the relative path from root to fullPath in
// forward-slash form. Returns the cleaned fullPath if relative calculation
// fails and "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relativeError := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}
