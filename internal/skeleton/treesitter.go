//go:build cgo

package skeleton

import (
	"context"
	"errors"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/skelmap/skelmap/internal/types"
)

const (
	treeSitterStrategyName = "tree-sitter"

	dialectPython     = "python"
	dialectJavaScript = "javascript"

	pythonFunctionNodeType      = "function_definition"
	pythonClassNodeType         = "class_definition"
	pythonDecoratedNodeType     = "decorated_definition"
	pythonImportNodeType        = "import_statement"
	pythonImportFromNodeType    = "import_from_statement"
	javascriptImportNodeType    = "import_statement"
	javascriptFunctionNodeType  = "function_declaration"
	javascriptGeneratorNodeType = "generator_function_declaration"
	javascriptClassNodeType     = "class_declaration"
	javascriptMethodNodeType    = "method_definition"
	javascriptExportNodeType    = "export_statement"

	bodyFieldName        = "body"
	nameFieldName        = "name"
	definitionFieldName  = "definition"
	declarationFieldName = "declaration"
	commentNodeType      = "comment"
)

// errSyntaxTree reports a source file the grammar could not parse cleanly.
var errSyntaxTree = errors.New("syntax tree contains errors")

// treeSitterStrategy extracts declarations through a concrete syntax tree.
type treeSitterStrategy struct {
	parser  *sitter.Parser
	dialect string
}

// newTreeSitterStrategies builds the precise strategies available when the
// tree-sitter bindings can be compiled.
func newTreeSitterStrategies() map[string]Strategy {
	pythonParser := sitter.NewParser()
	pythonParser.SetLanguage(python.GetLanguage())
	javascriptParser := sitter.NewParser()
	javascriptParser.SetLanguage(javascript.GetLanguage())
	typescriptParser := sitter.NewParser()
	typescriptParser.SetLanguage(typescript.GetLanguage())

	return map[string]Strategy{
		"Python":     &treeSitterStrategy{parser: pythonParser, dialect: dialectPython},
		"JavaScript": &treeSitterStrategy{parser: javascriptParser, dialect: dialectJavaScript},
		"TypeScript": &treeSitterStrategy{parser: typescriptParser, dialect: dialectJavaScript},
	}
}

func (strategy *treeSitterStrategy) Name() string {
	return treeSitterStrategyName
}

func (strategy *treeSitterStrategy) Extract(source []byte) ([]types.SkeletonNode, error) {
	syntaxTree, parseError := strategy.parser.ParseCtx(context.Background(), nil, source)
	if parseError != nil {
		return nil, parseError
	}
	defer syntaxTree.Close()

	rootNode := syntaxTree.RootNode()
	if rootNode.HasError() {
		return nil, errSyntaxTree
	}

	var nodes []types.SkeletonNode
	for childIndex := 0; childIndex < int(rootNode.NamedChildCount()); childIndex++ {
		strategy.collectDeclaration(rootNode.NamedChild(childIndex), source, &nodes)
	}
	return nodes, nil
}

// collectDeclaration appends the skeleton node for one top-level syntax node,
// unwrapping export statements and decorated definitions.
func (strategy *treeSitterStrategy) collectDeclaration(syntaxNode *sitter.Node, source []byte, nodes *[]types.SkeletonNode) {
	nodeType := syntaxNode.Type()

	if strategy.isImportNodeType(nodeType) {
		*nodes = append(*nodes, types.SkeletonNode{
			Kind:      types.NodeKindImport,
			Signature: syntaxNode.Content(source),
		})
		return
	}
	if nodeType == javascriptExportNodeType {
		if declarationNode := syntaxNode.ChildByFieldName(declarationFieldName); declarationNode != nil {
			strategy.collectDeclaration(declarationNode, source, nodes)
			return
		}
		// A bare re-export carries no declaration; keep it verbatim.
		*nodes = append(*nodes, types.SkeletonNode{
			Kind:      types.NodeKindImport,
			Signature: syntaxNode.Content(source),
		})
		return
	}
	if nodeType == pythonDecoratedNodeType {
		if definitionNode := syntaxNode.ChildByFieldName(definitionFieldName); definitionNode != nil {
			// Signature spans the decorators and the definition header.
			strategy.appendDeclaration(definitionNode, syntaxNode.StartByte(), source, nodes)
		}
		return
	}
	strategy.appendDeclaration(syntaxNode, syntaxNode.StartByte(), source, nodes)
}

// appendDeclaration renders a function or class node whose signature starts at
// signatureStart (decorators included when the node was decorated).
func (strategy *treeSitterStrategy) appendDeclaration(syntaxNode *sitter.Node, signatureStart uint32, source []byte, nodes *[]types.SkeletonNode) {
	nodeType := syntaxNode.Type()
	switch {
	case strategy.isFunctionNodeType(nodeType):
		*nodes = append(*nodes, types.SkeletonNode{
			Kind:          types.NodeKindFunction,
			Name:          fieldContent(syntaxNode, nameFieldName, source),
			Signature:     strategy.signatureText(syntaxNode, signatureStart, source),
			Documentation: precedingComments(syntaxNode, source),
		})
	case strategy.isClassNodeType(nodeType):
		classNode := types.SkeletonNode{
			Kind:          types.NodeKindClass,
			Name:          fieldContent(syntaxNode, nameFieldName, source),
			Signature:     strategy.signatureText(syntaxNode, signatureStart, source),
			Documentation: precedingComments(syntaxNode, source),
		}
		strategy.collectMethods(syntaxNode, source, &classNode)
		*nodes = append(*nodes, classNode)
	}
}

// collectMethods walks a class body and appends one method child per
// function or method definition found there.
func (strategy *treeSitterStrategy) collectMethods(classSyntaxNode *sitter.Node, source []byte, classNode *types.SkeletonNode) {
	classBody := classSyntaxNode.ChildByFieldName(bodyFieldName)
	if classBody == nil {
		return
	}
	for childIndex := 0; childIndex < int(classBody.NamedChildCount()); childIndex++ {
		bodyChild := classBody.NamedChild(childIndex)
		methodNode := bodyChild
		methodSignatureStart := bodyChild.StartByte()
		if bodyChild.Type() == pythonDecoratedNodeType {
			methodNode = bodyChild.ChildByFieldName(definitionFieldName)
			if methodNode == nil {
				continue
			}
		}
		if methodNode.Type() != pythonFunctionNodeType && methodNode.Type() != javascriptMethodNodeType {
			continue
		}
		classNode.Children = append(classNode.Children, types.SkeletonNode{
			Kind:          types.NodeKindMethod,
			Name:          fieldContent(methodNode, nameFieldName, source),
			Signature:     strategy.signatureText(methodNode, methodSignatureStart, source),
			Documentation: precedingComments(bodyChild, source),
		})
	}
}

// signatureText captures the verbatim text from signatureStart up to the
// declaration body, normalized per dialect: Python signatures end with a
// colon, JavaScript ones are trimmed before the opening brace.
func (strategy *treeSitterStrategy) signatureText(syntaxNode *sitter.Node, signatureStart uint32, source []byte) string {
	bodyNode := syntaxNode.ChildByFieldName(bodyFieldName)
	signatureEnd := syntaxNode.EndByte()
	if bodyNode != nil {
		signatureEnd = bodyNode.StartByte()
	}
	signature := strings.TrimRight(string(source[signatureStart:signatureEnd]), " \t\n")
	if strategy.dialect == dialectPython && !strings.HasSuffix(signature, ":") {
		signature += ":"
	}
	if docstring := pythonDocstring(bodyNode, source); docstring != "" {
		signature += "\n" + docstring
	}
	return signature
}

// pythonDocstring returns the verbatim docstring opening a function or class
// body, when present.
func pythonDocstring(bodyNode *sitter.Node, source []byte) string {
	if bodyNode == nil || bodyNode.NamedChildCount() == 0 {
		return ""
	}
	firstStatement := bodyNode.NamedChild(0)
	if firstStatement.Type() != "expression_statement" || firstStatement.NamedChildCount() == 0 {
		return ""
	}
	stringNode := firstStatement.NamedChild(0)
	if stringNode.Type() != "string" {
		return ""
	}
	return stringNode.Content(source)
}

// precedingComments gathers the contiguous comment siblings directly above a
// declaration, top to bottom.
func precedingComments(syntaxNode *sitter.Node, source []byte) string {
	var commentLines []string
	for sibling := syntaxNode.PrevNamedSibling(); sibling != nil && sibling.Type() == commentNodeType; sibling = sibling.PrevNamedSibling() {
		commentLines = append([]string{sibling.Content(source)}, commentLines...)
	}
	return strings.Join(commentLines, "\n")
}

// fieldContent returns the source text of a named field, or the empty string.
func fieldContent(syntaxNode *sitter.Node, fieldName string, source []byte) string {
	fieldNode := syntaxNode.ChildByFieldName(fieldName)
	if fieldNode == nil {
		return ""
	}
	return fieldNode.Content(source)
}

func (strategy *treeSitterStrategy) isImportNodeType(nodeType string) bool {
	if strategy.dialect == dialectPython {
		return nodeType == pythonImportNodeType || nodeType == pythonImportFromNodeType
	}
	return nodeType == javascriptImportNodeType
}

func (strategy *treeSitterStrategy) isFunctionNodeType(nodeType string) bool {
	if strategy.dialect == dialectPython {
		return nodeType == pythonFunctionNodeType
	}
	return nodeType == javascriptFunctionNodeType || nodeType == javascriptGeneratorNodeType
}

func (strategy *treeSitterStrategy) isClassNodeType(nodeType string) bool {
	if strategy.dialect == dialectPython {
		return nodeType == pythonClassNodeType
	}
	return nodeType == javascriptClassNodeType
}
