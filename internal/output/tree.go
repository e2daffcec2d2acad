package output

import (
	"fmt"
	"strings"

	"github.com/skelmap/skelmap/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeNestedPrefix    = "│   "
	treeFinalPrefix     = "    "
	inaccessibleSuffix  = " [inaccessible]"
)

// RenderTree produces an ASCII tree of the walked hierarchy. Excluded and
// inaccessible directories appear with a marker but without children.
func RenderTree(rootNode *types.DirectoryNode) string {
	var builder strings.Builder
	builder.WriteString(rootNode.Name + "/\n")
	renderTreeLevel(&builder, rootNode, "")
	return builder.String()
}

func renderTreeLevel(builder *strings.Builder, node *types.DirectoryNode, prefix string) {
	entryCount := len(node.Directories) + len(node.Files)
	entryIndex := 0

	for _, childDirectory := range node.Directories {
		entryIndex++
		connector, childPrefix := treeConnectors(prefix, entryIndex == entryCount)
		builder.WriteString(prefix + connector + childDirectory.Name + "/" + directoryMarker(childDirectory) + "\n")
		if !childDirectory.Excluded && !childDirectory.Inaccessible {
			renderTreeLevel(builder, childDirectory, childPrefix)
		}
	}
	for _, fileEntry := range node.Files {
		entryIndex++
		connector, _ := treeConnectors(prefix, entryIndex == entryCount)
		builder.WriteString(prefix + connector + fileName(fileEntry) + "\n")
	}
}

func treeConnectors(prefix string, isLast bool) (string, string) {
	if isLast {
		return treeLastConnector, prefix + treeFinalPrefix
	}
	return treeBranchConnector, prefix + treeNestedPrefix
}

func directoryMarker(node *types.DirectoryNode) string {
	switch {
	case node.Excluded:
		return fmt.Sprintf(" [excluded: %d files]", node.TotalFiles)
	case node.Inaccessible:
		return inaccessibleSuffix
	default:
		return ""
	}
}

func fileName(entry types.PathEntry) string {
	slashIndex := strings.LastIndex(entry.RelativePath, "/")
	if slashIndex < 0 {
		return entry.RelativePath
	}
	return entry.RelativePath[slashIndex+1:]
}
