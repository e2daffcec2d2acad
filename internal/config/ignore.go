// Package config loads application configuration and ignore-pattern files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skelmap/skelmap/internal/utils"
)

const (
	// gitDirectoryPattern matches the Git directory during traversal.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	// ignoreSectionHeader identifies the section listing ignore patterns.
	ignoreSectionHeader = "[ignore]"
	// skeletonOnlySectionHeader identifies the section listing directories
	// whose files never receive full content.
	skeletonOnlySectionHeader = "[skeleton-only]"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its ignore patterns
// and skeleton-only directory patterns. A missing file yields empty results.
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, []string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil, nil
		}
		return nil, nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	var skeletonOnlyPatterns []string
	currentSectionHeader := ignoreSectionHeader
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		if strings.EqualFold(trimmedLine, skeletonOnlySectionHeader) {
			currentSectionHeader = skeletonOnlySectionHeader
			continue
		}
		if strings.EqualFold(trimmedLine, ignoreSectionHeader) {
			currentSectionHeader = ignoreSectionHeader
			continue
		}
		if currentSectionHeader == skeletonOnlySectionHeader {
			skeletonOnlyPatterns = append(skeletonOnlyPatterns, trimmedLine)
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, nil, scanError
	}
	return ignorePatterns, skeletonOnlyPatterns, nil
}

// LoadCombinedIgnorePatterns aggregates patterns from the .ignore and
// .gitignore files within a directory. The .git directory is always added.
// The provided exclusionPatterns are appended to the result. The second
// return value carries skeleton-only directories from the .ignore file.
func LoadCombinedIgnorePatterns(absoluteDirectoryPath string, exclusionPatterns []string, useGitignore bool, useIgnoreFile bool) ([]string, []string, error) {
	var combinedPatterns []string
	var skeletonOnlyPatterns []string

	if useIgnoreFile {
		ignoreFilePath := filepath.Join(absoluteDirectoryPath, utils.IgnoreFileName)
		ignoreFilePatterns, skeletonOnly, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
		if loadError != nil {
			return nil, nil, fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, absoluteDirectoryPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, ignoreFilePatterns...)
		skeletonOnlyPatterns = append(skeletonOnlyPatterns, skeletonOnly...)
	}

	if useGitignore {
		gitIgnoreFilePath := filepath.Join(absoluteDirectoryPath, utils.GitIgnoreFileName)
		gitIgnoreFilePatterns, _, loadError := LoadIgnoreFilePatterns(gitIgnoreFilePath)
		if loadError != nil {
			return nil, nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, absoluteDirectoryPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, gitIgnoreFilePatterns...)
	}

	combinedPatterns = append(combinedPatterns, gitDirectoryPattern)

	deduplicatedPatterns := utils.DeduplicatePatterns(combinedPatterns)
	for _, pattern := range exclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(deduplicatedPatterns, trimmedPattern) {
			deduplicatedPatterns = append(deduplicatedPatterns, trimmedPattern)
		}
	}

	return deduplicatedPatterns, utils.DeduplicatePatterns(skeletonOnlyPatterns), nil
}
