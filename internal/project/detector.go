// Package project identifies the shape of a source tree: its ecosystem,
// primary language, entry points, dependency manifests, and test
// directories. The detection is indicator-file based and shallow, so it stays
// cheap even on large trees.
package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/skelmap/skelmap/internal/types"
	"github.com/skelmap/skelmap/internal/utils"
)

const (
	// unknownProjectType is reported when no indicator file matches.
	unknownProjectType = "unknown"
	// mixedLanguage is reported when no single ecosystem dominates.
	mixedLanguage = "mixed"
	// detectionDepthLimit bounds how deep below the root indicator files are
	// searched for.
	detectionDepthLimit = 2
	// goModuleFileName is parsed for the module path when present.
	goModuleFileName = "go.mod"
)

// indicatorProfile maps a manifest file name to the ecosystem it implies.
type indicatorProfile struct {
	projectType string
	language    string
}

var manifestIndicators = map[string]indicatorProfile{
	"package.json":     {projectType: "nodejs", language: "javascript"},
	"requirements.txt": {projectType: "python", language: "python"},
	"pyproject.toml":   {projectType: "python", language: "python"},
	"setup.py":         {projectType: "python", language: "python"},
	"Cargo.toml":       {projectType: "rust", language: "rust"},
	goModuleFileName:   {projectType: "go", language: "go"},
	"pom.xml":          {projectType: "java", language: "java"},
	"build.gradle":     {projectType: "java", language: "java"},
	"composer.json":    {projectType: "php", language: "php"},
	"Gemfile":          {projectType: "ruby", language: "ruby"},
}

var entryPointNames = map[string]struct{}{
	"main.py":   {},
	"app.py":    {},
	"index.js":  {},
	"server.js": {},
	"main.go":   {},
	"main.rs":   {},
}

var testDirectoryNames = map[string]struct{}{
	"test":      {},
	"tests":     {},
	"__tests__": {},
	"spec":      {},
}

// Detect inspects rootPath and returns what it finds. Inaccessible entries
// are skipped; Detect itself fails only when the root cannot be walked at
// all. All recorded paths are relative to rootPath.
func Detect(rootPath string) (types.ProjectInfo, error) {
	projectInfo := types.ProjectInfo{
		Type:     unknownProjectType,
		Language: mixedLanguage,
	}

	walkError := filepath.WalkDir(rootPath, func(entryPath string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			if entryPath == rootPath {
				return entryError
			}
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(entryPath, rootPath)
		if relativePath == "." {
			return nil
		}
		if pathDepth(relativePath) > detectionDepthLimit {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		entryName := entry.Name()
		if entry.IsDir() {
			if _, isTestDirectory := testDirectoryNames[entryName]; isTestDirectory {
				projectInfo.TestDirectories = append(projectInfo.TestDirectories, relativePath)
			}
			return nil
		}

		if profile, isManifest := manifestIndicators[entryName]; isManifest {
			projectInfo.Type = profile.projectType
			projectInfo.Language = profile.language
			projectInfo.DependencyFiles = append(projectInfo.DependencyFiles, relativePath)
			if entryName == goModuleFileName {
				projectInfo.Module = goModulePath(entryPath)
			}
		}
		if _, isEntryPoint := entryPointNames[entryName]; isEntryPoint {
			projectInfo.EntryPoints = append(projectInfo.EntryPoints, relativePath)
		}
		return nil
	})
	if walkError != nil {
		return types.ProjectInfo{}, walkError
	}

	sort.Strings(projectInfo.EntryPoints)
	sort.Strings(projectInfo.DependencyFiles)
	sort.Strings(projectInfo.TestDirectories)
	return projectInfo, nil
}

// goModulePath parses a go.mod file and returns its module path, or an empty
// string when the file cannot be parsed.
func goModulePath(goModPath string) string {
	goModBytes, readError := os.ReadFile(goModPath)
	if readError != nil {
		return ""
	}
	parsedModFile, parseError := modfile.Parse(goModuleFileName, goModBytes, nil)
	if parseError != nil || parsedModFile == nil || parsedModFile.Module == nil {
		return ""
	}
	return parsedModFile.Module.Mod.Path
}

// pathDepth counts the segments of a slash-separated relative path.
func pathDepth(relativePath string) int {
	return strings.Count(relativePath, "/") + 1
}
