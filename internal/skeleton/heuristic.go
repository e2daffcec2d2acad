package skeleton

import (
	"strings"

	"github.com/skelmap/skelmap/internal/types"
)

// heuristicStrategyName identifies the grammar-free fallback strategy.
const heuristicStrategyName = "heuristic"

// declarationKeyword pairs a line prefix with the node kind it introduces.
type declarationKeyword struct {
	prefix string
	kind   string
}

// declarationKeywords covers the common declaration spellings across the
// language families the tool encounters. Order matters: longer prefixes are
// listed before their shorter variants.
var declarationKeywords = []declarationKeyword{
	{prefix: "export default function ", kind: types.NodeKindFunction},
	{prefix: "export async function ", kind: types.NodeKindFunction},
	{prefix: "export function ", kind: types.NodeKindFunction},
	{prefix: "export class ", kind: types.NodeKindClass},
	{prefix: "async function ", kind: types.NodeKindFunction},
	{prefix: "async def ", kind: types.NodeKindFunction},
	{prefix: "function ", kind: types.NodeKindFunction},
	{prefix: "def ", kind: types.NodeKindFunction},
	{prefix: "class ", kind: types.NodeKindClass},
	{prefix: "func ", kind: types.NodeKindFunction},
	{prefix: "pub fn ", kind: types.NodeKindFunction},
	{prefix: "fn ", kind: types.NodeKindFunction},
}

// commentLinePrefixes identify lines treated as leading documentation.
var commentLinePrefixes = []string{"#", "//", "/*", "*", "\"\"\"", "'''"}

// importLinePrefixes identify import and re-export lines, which are always
// retained verbatim.
var importLinePrefixes = []string{"import ", "from ", "export ", "require("}

// heuristicStrategy is the grammar-free fallback: it scans lines for
// declaration-introducing keywords, keeps their leading comments and
// decorators, and discards everything else.
type heuristicStrategy struct{}

func (heuristicStrategy) Name() string {
	return heuristicStrategyName
}

func (heuristicStrategy) Extract(source []byte) ([]types.SkeletonNode, error) {
	normalizedSource := strings.ReplaceAll(string(source), "\r\n", "\n")
	sourceLines := strings.Split(normalizedSource, "\n")

	var nodes []types.SkeletonNode
	var pendingComments []string
	var pendingDecorators []string
	openClassIndex := -1
	openClassIndent := 0

	for _, sourceLine := range sourceLines {
		strippedLine := strings.TrimSpace(sourceLine)
		lineIndent := indentWidth(sourceLine)

		if strippedLine == "" {
			pendingComments = nil
			continue
		}
		if isCommentLine(strippedLine) {
			pendingComments = append(pendingComments, strippedLine)
			continue
		}
		if strings.HasPrefix(strippedLine, "@") {
			pendingDecorators = append(pendingDecorators, strippedLine)
			continue
		}

		keywordKind, isDeclaration := matchDeclarationKeyword(strippedLine)
		if !isDeclaration {
			if isImportLine(strippedLine) {
				nodes = append(nodes, types.SkeletonNode{
					Kind:      types.NodeKindImport,
					Signature: strippedLine,
				})
				pendingComments = nil
				pendingDecorators = nil
				continue
			}
			if openClassIndex >= 0 && lineIndent <= openClassIndent {
				openClassIndex = -1
			}
			pendingComments = nil
			pendingDecorators = nil
			continue
		}

		node := types.SkeletonNode{
			Kind:          keywordKind,
			Name:          declarationName(strippedLine),
			Signature:     declarationSignature(strippedLine, pendingDecorators),
			Documentation: strings.Join(pendingComments, "\n"),
		}
		pendingComments = nil
		pendingDecorators = nil

		if keywordKind == types.NodeKindClass {
			nodes = append(nodes, node)
			openClassIndex = len(nodes) - 1
			openClassIndent = lineIndent
			continue
		}
		if openClassIndex >= 0 && lineIndent > openClassIndent {
			node.Kind = types.NodeKindMethod
			nodes[openClassIndex].Children = append(nodes[openClassIndex].Children, node)
			continue
		}
		openClassIndex = -1
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// matchDeclarationKeyword reports the node kind introduced by the line, if any.
func matchDeclarationKeyword(strippedLine string) (string, bool) {
	for _, keyword := range declarationKeywords {
		if strings.HasPrefix(strippedLine, keyword.prefix) {
			return keyword.kind, true
		}
	}
	return "", false
}

// declarationSignature keeps the declaration line up to an opening brace,
// prefixed by any decorators collected above it.
func declarationSignature(strippedLine string, pendingDecorators []string) string {
	signature := strippedLine
	if braceIndex := strings.Index(signature, "{"); braceIndex >= 0 {
		signature = strings.TrimRight(signature[:braceIndex], " \t")
	}
	if len(pendingDecorators) == 0 {
		return signature
	}
	return strings.Join(pendingDecorators, "\n") + "\n" + signature
}

// declarationName extracts the identifier following the declaration keyword.
func declarationName(strippedLine string) string {
	remainder := strippedLine
	for _, keyword := range declarationKeywords {
		if strings.HasPrefix(remainder, keyword.prefix) {
			remainder = strings.TrimPrefix(remainder, keyword.prefix)
			break
		}
	}
	if strings.HasPrefix(remainder, "(") {
		if receiverEnd := strings.Index(remainder, ")"); receiverEnd >= 0 {
			remainder = strings.TrimSpace(remainder[receiverEnd+1:])
		}
	}
	for terminatorIndex, character := range remainder {
		if character == '(' || character == ':' || character == '{' || character == ' ' || character == '=' || character == '<' {
			return remainder[:terminatorIndex]
		}
	}
	return remainder
}

// isImportLine reports whether a stripped line is an import or re-export.
func isImportLine(strippedLine string) bool {
	for _, importPrefix := range importLinePrefixes {
		if strings.HasPrefix(strippedLine, importPrefix) {
			return true
		}
	}
	return false
}

// isCommentLine reports whether a stripped line is a documentation comment.
func isCommentLine(strippedLine string) bool {
	for _, commentPrefix := range commentLinePrefixes {
		if strings.HasPrefix(strippedLine, commentPrefix) {
			return true
		}
	}
	return false
}

// indentWidth counts leading whitespace, expanding tabs to four columns.
func indentWidth(sourceLine string) int {
	width := 0
	for _, character := range sourceLine {
		switch character {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}
