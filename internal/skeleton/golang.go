package skeleton

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"

	"github.com/skelmap/skelmap/internal/types"
)

// goStrategyName identifies the syntax-tree strategy for Go sources.
const goStrategyName = "go-syntax"

// goStrategy extracts Go declarations with the standard parser. Bodies are
// dropped by printing each function with a nil body.
type goStrategy struct{}

func (goStrategy) Name() string {
	return goStrategyName
}

func (goStrategy) Extract(source []byte) ([]types.SkeletonNode, error) {
	fileSet := token.NewFileSet()
	fileAST, parseError := parser.ParseFile(fileSet, "source.go", source, parser.ParseComments)
	if parseError != nil {
		return nil, parseError
	}

	var nodes []types.SkeletonNode
	for _, declaration := range fileAST.Decls {
		switch typedDeclaration := declaration.(type) {
		case *ast.FuncDecl:
			node, renderError := renderGoFunction(fileSet, typedDeclaration)
			if renderError != nil {
				return nil, renderError
			}
			nodes = append(nodes, node)
		case *ast.GenDecl:
			if typedDeclaration.Tok == token.IMPORT {
				node, renderError := renderGoImportDeclaration(fileSet, typedDeclaration)
				if renderError != nil {
					return nil, renderError
				}
				nodes = append(nodes, node)
				continue
			}
			if typedDeclaration.Tok != token.TYPE {
				continue
			}
			node, rendered, renderError := renderGoTypeDeclaration(fileSet, typedDeclaration)
			if renderError != nil {
				return nil, renderError
			}
			if rendered {
				nodes = append(nodes, node)
			}
		}
	}
	return nodes, nil
}

// renderGoFunction prints a function or method declaration without its body.
func renderGoFunction(fileSet *token.FileSet, functionDeclaration *ast.FuncDecl) (types.SkeletonNode, error) {
	declarationCopy := *functionDeclaration
	declarationCopy.Body = nil
	declarationCopy.Doc = nil

	var signatureBuffer bytes.Buffer
	if printError := printer.Fprint(&signatureBuffer, fileSet, &declarationCopy); printError != nil {
		return types.SkeletonNode{}, printError
	}

	nodeKind := types.NodeKindFunction
	if functionDeclaration.Recv != nil {
		nodeKind = types.NodeKindMethod
	}
	return types.SkeletonNode{
		Kind:          nodeKind,
		Name:          functionDeclaration.Name.Name,
		Signature:     signatureBuffer.String(),
		Documentation: formatGoDocumentation(functionDeclaration.Doc),
	}, nil
}

// renderGoImportDeclaration prints an import declaration verbatim, doc
// comment dropped.
func renderGoImportDeclaration(fileSet *token.FileSet, genericDeclaration *ast.GenDecl) (types.SkeletonNode, error) {
	declarationCopy := *genericDeclaration
	declarationCopy.Doc = nil

	var signatureBuffer bytes.Buffer
	if printError := printer.Fprint(&signatureBuffer, fileSet, &declarationCopy); printError != nil {
		return types.SkeletonNode{}, printError
	}
	return types.SkeletonNode{
		Kind:      types.NodeKindImport,
		Signature: signatureBuffer.String(),
	}, nil
}

// renderGoTypeDeclaration prints a type declaration in full. Type bodies are
// structural declarations, not implementation, so nothing is hidden.
func renderGoTypeDeclaration(fileSet *token.FileSet, genericDeclaration *ast.GenDecl) (types.SkeletonNode, bool, error) {
	declarationCopy := *genericDeclaration
	declarationCopy.Doc = nil

	var signatureBuffer bytes.Buffer
	if printError := printer.Fprint(&signatureBuffer, fileSet, &declarationCopy); printError != nil {
		return types.SkeletonNode{}, false, printError
	}

	typeName := ""
	for _, specification := range genericDeclaration.Specs {
		if typeSpecification, isTypeSpec := specification.(*ast.TypeSpec); isTypeSpec {
			typeName = typeSpecification.Name.Name
			break
		}
	}
	if typeName == "" {
		return types.SkeletonNode{}, false, nil
	}
	return types.SkeletonNode{
		Kind:          types.NodeKindClass,
		Name:          typeName,
		Signature:     signatureBuffer.String(),
		Documentation: formatGoDocumentation(genericDeclaration.Doc),
	}, true, nil
}

// formatGoDocumentation reconstructs a doc comment as line comments.
func formatGoDocumentation(commentGroup *ast.CommentGroup) string {
	if commentGroup == nil {
		return ""
	}
	documentationText := strings.TrimRight(commentGroup.Text(), "\n")
	if documentationText == "" {
		return ""
	}
	documentationLines := strings.Split(documentationText, "\n")
	for lineIndex, documentationLine := range documentationLines {
		documentationLines[lineIndex] = strings.TrimRight("// "+documentationLine, " ")
	}
	return strings.Join(documentationLines, "\n")
}
