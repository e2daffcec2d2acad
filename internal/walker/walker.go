// Package walker traverses a directory tree top-down, pruning subtrees that
// match the ignore rules before they are ever opened file-by-file.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/skelmap/skelmap/internal/ignore"
	"github.com/skelmap/skelmap/internal/types"
)

const (
	// summarizeEntryLimit bounds the number of directory entries visited while
	// summarizing an excluded subtree.
	summarizeEntryLimit = 50000

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorNotADirectoryFormat is used when the root path is not a directory.
	errorNotADirectoryFormat = "%s is not a directory"

	// detailReadDirectoryFormat describes a directory listing failure.
	detailReadDirectoryFormat = "reading directory: %v"
	// detailStatFormat describes a stat failure.
	detailStatFormat = "stat: %v"
	// detailSymlinkFormat describes an unresolvable symbolic link.
	detailSymlinkFormat = "resolving symlink: %v"
)

// Walker builds directory tree nodes using configured ignore rules.
type Walker struct {
	rules          ignore.RuleSet
	visitedTargets map[string]struct{}
	errors         []types.ErrorRecord
}

// New returns a Walker that prunes subtrees matching the provided rule set.
func New(rules ignore.RuleSet) *Walker {
	return &Walker{rules: rules}
}

// ShouldPrune reports whether the directory at relativePath must not be
// descended into. Exposed separately from the traversal so pruning logic can
// be exercised without touching the filesystem.
func ShouldPrune(relativePath string, rules ignore.RuleSet) bool {
	return rules.Matches(relativePath)
}

// Walk traverses rootPath pre-order and returns the resulting tree together
// with every recovered error. Children are sorted by name so repeated runs on
// an unchanged tree produce identical output.
func (directoryWalker *Walker) Walk(rootPath string) (*types.DirectoryNode, []types.ErrorRecord, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return nil, nil, rootStatError
	}
	if !rootInfo.IsDir() {
		return nil, nil, fmt.Errorf(errorNotADirectoryFormat, absoluteRootPath)
	}

	canonicalRootPath := absoluteRootPath
	if resolvedRootPath, resolveError := filepath.EvalSymlinks(absoluteRootPath); resolveError == nil {
		canonicalRootPath = resolvedRootPath
	}
	directoryWalker.visitedTargets = map[string]struct{}{canonicalRootPath: {}}
	directoryWalker.errors = nil

	rootNode := directoryWalker.buildDirectoryNode(canonicalRootPath, ".")
	rootNode.Name = filepath.Base(absoluteRootPath)
	return rootNode, directoryWalker.errors, nil
}

// buildDirectoryNode lists one directory, recursing into retained
// subdirectories and summarizing pruned ones.
func (directoryWalker *Walker) buildDirectoryNode(absolutePath string, relativePath string) *types.DirectoryNode {
	node := &types.DirectoryNode{
		RelativePath: relativePath,
		Name:         filepath.Base(absolutePath),
	}

	directoryEntries, readDirectoryError := os.ReadDir(absolutePath)
	if readDirectoryError != nil {
		node.Inaccessible = true
		directoryWalker.recordError(relativePath, types.ErrorCategoryAccess, fmt.Sprintf(detailReadDirectoryFormat, readDirectoryError))
		return node
	}
	sort.Slice(directoryEntries, func(firstIndex, secondIndex int) bool {
		return directoryEntries[firstIndex].Name() < directoryEntries[secondIndex].Name()
	})

	for _, directoryEntry := range directoryEntries {
		childAbsolutePath := filepath.Join(absolutePath, directoryEntry.Name())
		childRelativePath := joinRelative(relativePath, directoryEntry.Name())

		isDirectory, resolvedPath, resolveOk := directoryWalker.resolveEntry(directoryEntry, childAbsolutePath, childRelativePath)
		if !resolveOk {
			continue
		}

		if isDirectory {
			if ShouldPrune(childRelativePath, directoryWalker.rules) {
				excludedFileCount, excludedSizeBytes := Summarize(resolvedPath)
				node.Directories = append(node.Directories, &types.DirectoryNode{
					RelativePath:   childRelativePath,
					Name:           directoryEntry.Name(),
					Excluded:       true,
					TotalFiles:     excludedFileCount,
					TotalSizeBytes: excludedSizeBytes,
				})
				continue
			}
			node.Directories = append(node.Directories, directoryWalker.buildDirectoryNode(resolvedPath, childRelativePath))
			continue
		}

		entryInfo, infoError := os.Stat(resolvedPath)
		if infoError != nil {
			directoryWalker.recordError(childRelativePath, types.ErrorCategoryAccess, fmt.Sprintf(detailStatFormat, infoError))
			continue
		}
		node.Files = append(node.Files, types.PathEntry{
			AbsolutePath: childAbsolutePath,
			RelativePath: childRelativePath,
			SizeBytes:    entryInfo.Size(),
		})
	}

	node.TotalFiles, node.TotalSizeBytes = collectTotals(node)
	return node
}

// resolveEntry classifies a directory entry as file or directory, following a
// symbolic link at most once per physical target. Every directory reached by
// the walk is registered so a later link back into the walked tree is not
// followed again. The third return value is false when the entry must be
// skipped.
func (directoryWalker *Walker) resolveEntry(directoryEntry fs.DirEntry, childAbsolutePath string, childRelativePath string) (bool, string, bool) {
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		if directoryEntry.IsDir() {
			directoryWalker.visitedTargets[childAbsolutePath] = struct{}{}
		}
		return directoryEntry.IsDir(), childAbsolutePath, true
	}

	resolvedTargetPath, resolveError := filepath.EvalSymlinks(childAbsolutePath)
	if resolveError != nil {
		directoryWalker.recordError(childRelativePath, types.ErrorCategoryAccess, fmt.Sprintf(detailSymlinkFormat, resolveError))
		return false, "", false
	}
	if _, alreadyVisited := directoryWalker.visitedTargets[resolvedTargetPath]; alreadyVisited {
		return false, "", false
	}
	directoryWalker.visitedTargets[resolvedTargetPath] = struct{}{}

	targetInfo, targetStatError := os.Stat(resolvedTargetPath)
	if targetStatError != nil {
		directoryWalker.recordError(childRelativePath, types.ErrorCategoryAccess, fmt.Sprintf(detailStatFormat, targetStatError))
		return false, "", false
	}
	return targetInfo.IsDir(), resolvedTargetPath, true
}

func (directoryWalker *Walker) recordError(relativePath string, category string, detail string) {
	directoryWalker.errors = append(directoryWalker.errors, types.ErrorRecord{
		Path:     relativePath,
		Category: category,
		Detail:   detail,
	})
}

// Summarize returns the file count and byte size of the subtree rooted at
// absolutePath. The scan visits at most summarizeEntryLimit entries; when the
// bound is hit the partial totals are returned, keeping excluded-tree cost
// low for very large dependency directories. Errors inside an excluded
// subtree are deliberately swallowed.
func Summarize(absolutePath string) (int, int64) {
	visitedEntries := 0
	var fileCount int
	var sizeBytes int64

	var scanDirectory func(directoryPath string)
	scanDirectory = func(directoryPath string) {
		if visitedEntries >= summarizeEntryLimit {
			return
		}
		directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
		if readDirectoryError != nil {
			return
		}
		for _, directoryEntry := range directoryEntries {
			if visitedEntries >= summarizeEntryLimit {
				return
			}
			visitedEntries++
			if directoryEntry.IsDir() {
				scanDirectory(filepath.Join(directoryPath, directoryEntry.Name()))
				continue
			}
			fileCount++
			if entryInfo, infoError := directoryEntry.Info(); infoError == nil {
				sizeBytes += entryInfo.Size()
			}
		}
	}
	scanDirectory(absolutePath)
	return fileCount, sizeBytes
}

// collectTotals aggregates file counts and byte sizes over a node's
// immediate children, which already carry their own subtree totals.
func collectTotals(node *types.DirectoryNode) (int, int64) {
	totalFiles := len(node.Files)
	var totalSizeBytes int64
	for _, fileEntry := range node.Files {
		totalSizeBytes += fileEntry.SizeBytes
	}
	for _, childDirectory := range node.Directories {
		totalFiles += childDirectory.TotalFiles
		totalSizeBytes += childDirectory.TotalSizeBytes
	}
	return totalFiles, totalSizeBytes
}

// joinRelative joins relative path components with the canonical separator,
// treating "." as the empty prefix.
func joinRelative(parentRelativePath string, childName string) string {
	if parentRelativePath == "." || parentRelativePath == "" {
		return childName
	}
	return parentRelativePath + "/" + childName
}

// CollectFiles returns every retained file entry of the tree in traversal
// order. Pruned subtrees contribute nothing.
func CollectFiles(node *types.DirectoryNode) []types.PathEntry {
	if node == nil || node.Excluded {
		return nil
	}
	entries := make([]types.PathEntry, 0, len(node.Files))
	entries = append(entries, node.Files...)
	for _, childDirectory := range node.Directories {
		entries = append(entries, CollectFiles(childDirectory)...)
	}
	return entries
}

// CollectExcluded returns every pruned directory of the tree in traversal
// order as (path, file count, size) summaries.
func CollectExcluded(node *types.DirectoryNode) []types.ExcludedDirectory {
	if node == nil {
		return nil
	}
	var excluded []types.ExcludedDirectory
	for _, childDirectory := range node.Directories {
		if childDirectory.Excluded {
			excluded = append(excluded, types.ExcludedDirectory{
				RelativePath: childDirectory.RelativePath,
				FileCount:    childDirectory.TotalFiles,
				SizeBytes:    childDirectory.TotalSizeBytes,
			})
			continue
		}
		excluded = append(excluded, CollectExcluded(childDirectory)...)
	}
	return excluded
}
