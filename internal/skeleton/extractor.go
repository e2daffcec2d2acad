// Package skeleton reduces source files to declaration signatures with
// implementation bodies replaced by a placeholder marker. A precise
// syntax-tree strategy is used when one is available for the file's language;
// otherwise a keyword-based heuristic takes over.
package skeleton

import (
	"strings"

	"github.com/skelmap/skelmap/internal/language"
	"github.com/skelmap/skelmap/internal/types"
)

const (
	// implementationHiddenMarker replaces every declaration body.
	implementationHiddenMarker = "[Implementation hidden]"
	// restOfFileHiddenMarker closes the bounded preview of undeclarable files.
	restOfFileHiddenMarker = "[Rest of file hidden]"
	// previewLineCount bounds the verbatim prefix kept when no declarations are found.
	previewLineCount = 5
	// indentStep indents nested declarations in rendered output.
	indentStep = "    "
)

// Strategy extracts skeleton nodes from source text.
type Strategy interface {
	// Name identifies the strategy in diagnostics.
	Name() string
	// Extract returns the declarations of source in source order.
	Extract(source []byte) ([]types.SkeletonNode, error)
}

// StrategyProvider resolves a language name to a precise extraction strategy.
// Languages the provider does not know fall back to the heuristic strategy,
// so a missing entry is a capability statement, never an error.
type StrategyProvider interface {
	StrategyFor(languageName string) (Strategy, bool)
}

// Extractor turns source files into skeleton node sequences and renders them
// as reduced text.
type Extractor struct {
	provider StrategyProvider
	registry *language.Registry
	fallback Strategy
}

// NewExtractor builds an Extractor around the given capability provider. The
// provider is supplied at construction so tests can substitute a fake.
func NewExtractor(provider StrategyProvider, registry *language.Registry) *Extractor {
	return &Extractor{
		provider: provider,
		registry: registry,
		fallback: heuristicStrategy{},
	}
}

// Extract produces the declaration sequence for source. A precise strategy
// failure cascades to the heuristic strategy; the second return value names
// the strategy that produced the result.
func (extractor *Extractor) Extract(source []byte, languageName string) ([]types.SkeletonNode, string, error) {
	if preciseStrategy, available := extractor.provider.StrategyFor(languageName); available {
		nodes, extractError := preciseStrategy.Extract(source)
		if extractError == nil {
			return nodes, preciseStrategy.Name(), nil
		}
	}
	nodes, fallbackError := extractor.fallback.Extract(source)
	if fallbackError != nil {
		return nil, extractor.fallback.Name(), fallbackError
	}
	return nodes, extractor.fallback.Name(), nil
}

// Render produces the reduced textual form of the extracted declarations.
// When no declarations were found, a bounded verbatim prefix of the source is
// kept so non-code files degrade to a truncated preview instead of vanishing.
func (extractor *Extractor) Render(nodes []types.SkeletonNode, source []byte, languageName string) string {
	commentPrefix := extractor.registry.CommentPrefix(languageName)
	if len(nodes) == 0 {
		return renderPreview(source, commentPrefix)
	}

	var builder strings.Builder
	for nodeIndex, node := range nodes {
		consecutiveImports := nodeIndex > 0 &&
			node.Kind == types.NodeKindImport &&
			nodes[nodeIndex-1].Kind == types.NodeKindImport
		if nodeIndex > 0 && !consecutiveImports {
			builder.WriteString("\n")
		}
		renderNode(&builder, node, commentPrefix, "")
	}
	return builder.String()
}

// renderNode writes one declaration: documentation, signature, then either
// nested children or the placeholder marker.
func renderNode(builder *strings.Builder, node types.SkeletonNode, commentPrefix string, indent string) {
	if node.Documentation != "" {
		for _, documentationLine := range strings.Split(strings.TrimRight(node.Documentation, "\n"), "\n") {
			builder.WriteString(indent + documentationLine + "\n")
		}
	}
	for _, signatureLine := range strings.Split(strings.TrimRight(node.Signature, "\n"), "\n") {
		builder.WriteString(indent + signatureLine + "\n")
	}
	if len(node.Children) > 0 {
		for _, childNode := range node.Children {
			renderNode(builder, childNode, commentPrefix, indent+indentStep)
		}
		return
	}
	if node.Kind == types.NodeKindFunction || node.Kind == types.NodeKindMethod {
		builder.WriteString(indent + indentStep + commentPrefix + " " + implementationHiddenMarker + "\n")
	}
}

// renderPreview keeps the first previewLineCount lines of the source verbatim.
func renderPreview(source []byte, commentPrefix string) string {
	sourceLines := strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")
	previewLines := sourceLines
	if len(previewLines) > previewLineCount {
		previewLines = previewLines[:previewLineCount]
	}
	var builder strings.Builder
	for _, previewLine := range previewLines {
		builder.WriteString(previewLine + "\n")
	}
	builder.WriteString(commentPrefix + " " + restOfFileHiddenMarker + "\n")
	return builder.String()
}
