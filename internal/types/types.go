// Package types defines every cross-package data structure used by the skelmap CLI.
package types

// Tier is the content-inclusion level assigned to a file.
type Tier int

const (
	// TierFull marks files whose complete content is emitted.
	TierFull Tier = iota
	// TierSkeleton marks files reduced to declaration signatures.
	TierSkeleton
	// TierExcluded marks files that contribute only to aggregate counts.
	TierExcluded
)

// String returns the lower-case name of the tier.
func (tier Tier) String() string {
	switch tier {
	case TierFull:
		return "full"
	case TierSkeleton:
		return "skeleton"
	default:
		return "excluded"
	}
}

// Error categories attached to recovered failures.
const (
	ErrorCategoryAccess = "access"
	ErrorCategoryDecode = "decode"
	ErrorCategoryParse  = "parse"
	ErrorCategoryLimit  = "limit"
)

// Skeleton node kinds produced by the signature extractor.
const (
	NodeKindFunction = "function"
	NodeKindClass    = "class"
	NodeKindMethod   = "method"
	NodeKindImport   = "import"
)

// PathEntry describes one file discovered by the walker. Identity is the
// relative path; entries are never mutated after creation.
type PathEntry struct {
	AbsolutePath string
	RelativePath string
	IsDirectory  bool
	SizeBytes    int64
}

// SkeletonNode describes a single declaration extracted from a source file.
// Children hold nested declarations such as methods of a class.
type SkeletonNode struct {
	Kind          string
	Name          string
	Signature     string
	Documentation string
	Children      []SkeletonNode
}

// DirectoryNode is one directory in the walked tree. It is built bottom-up
// and read-only once the walk of its subtree completes.
type DirectoryNode struct {
	RelativePath   string
	Name           string
	Directories    []*DirectoryNode
	Files          []PathEntry
	Excluded       bool
	Inaccessible   bool
	TotalFiles     int
	TotalSizeBytes int64
}

// ErrorRecord captures a recovered, non-fatal failure with enough context to
// surface it in the run summary.
type ErrorRecord struct {
	Path     string
	Category string
	Detail   string
}

// RenderedFile pairs a path entry with the text emitted for it and the token
// count of that text. Lines carries the line count of the original source and
// is set for skeleton entries only.
type RenderedFile struct {
	Entry  PathEntry
	Text   string
	Tokens int
	Lines  int
}

// ExcludedDirectory summarizes a pruned subtree: its relative path and the
// number of files it contains.
type ExcludedDirectory struct {
	RelativePath string
	FileCount    int
	SizeBytes    int64
}

// ProjectInfo describes the detected shape of the processed project.
type ProjectInfo struct {
	Type            string
	Language        string
	Module          string
	EntryPoints     []string
	DependencyFiles []string
	TestDirectories []string
}

// Report is the assembled result of one run. The three ordered sequences and
// the aggregate counts are the contract the renderer depends on; a Report is
// never mutated after assembly.
type Report struct {
	Root                *DirectoryNode
	Project             ProjectInfo
	FullFiles           []RenderedFile
	SkeletonFiles       []RenderedFile
	ExcludedDirectories []ExcludedDirectory
	Errors              []ErrorRecord
	PreciseLanguages    []string
	FilesProcessed      int
	TotalTokens         int
}
