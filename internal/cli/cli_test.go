package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeCliFixtureFile(t *testing.T, rootPath string, relativePath string, content string) {
	t.Helper()
	absolutePath := filepath.Join(rootPath, filepath.FromSlash(relativePath))
	if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
		t.Fatalf("creating fixture directory: %v", mkdirError)
	}
	if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
		t.Fatalf("writing fixture file: %v", writeError)
	}
}

func newCliFixtureTree(t *testing.T) string {
	t.Helper()
	rootPath := t.TempDir()
	writeCliFixtureFile(t, rootPath, "README.md", "# Fixture\n")
	writeCliFixtureFile(t, rootPath, "src/app.py", "def run():\n    return 1\n")
	return rootPath
}

func executeCommand(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	rootCommand := createRootCommand(zap.NewNop())
	var outputBuffer bytes.Buffer
	rootCommand.SetOut(&outputBuffer)
	rootCommand.SetErr(&outputBuffer)
	rootCommand.SetArgs(arguments)
	executionError := rootCommand.Execute()
	return outputBuffer.String(), executionError
}

func TestGenerateCommandHybridOutput(t *testing.T) {
	rootPath := newCliFixtureTree(t)

	renderedOutput, executionError := executeCommand(t, "generate", rootPath)
	if executionError != nil {
		t.Fatalf("generate returned error: %v", executionError)
	}
	if !strings.Contains(renderedOutput, "<codebase project='") {
		t.Errorf("codebase header missing:\n%s", renderedOutput)
	}
	if !strings.Contains(renderedOutput, "<file path='README.md'") {
		t.Errorf("full-content entry missing:\n%s", renderedOutput)
	}
	if !strings.Contains(renderedOutput, "def run():") {
		t.Errorf("skeleton signature missing:\n%s", renderedOutput)
	}
	if strings.Contains(renderedOutput, "return 1") {
		t.Errorf("implementation leaked:\n%s", renderedOutput)
	}
}

func TestGenerateCommandOutputFile(t *testing.T) {
	rootPath := newCliFixtureTree(t)
	outputPath := filepath.Join(t.TempDir(), "codebase.txt")

	stdoutText, executionError := executeCommand(t, "generate", "--output", outputPath, rootPath)
	if executionError != nil {
		t.Fatalf("generate returned error: %v", executionError)
	}
	if strings.Contains(stdoutText, "<codebase") {
		t.Error("output written to stdout despite --output")
	}
	writtenBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("reading output file: %v", readError)
	}
	if !strings.Contains(string(writtenBytes), "<total-tokens>") {
		t.Errorf("output file incomplete:\n%s", writtenBytes)
	}
}

func TestGenerateCommandRejectsInvalidMode(t *testing.T) {
	rootPath := newCliFixtureTree(t)

	_, executionError := executeCommand(t, "generate", "--mode", "everything", rootPath)
	if executionError == nil {
		t.Fatal("invalid mode accepted")
	}
	if !strings.Contains(executionError.Error(), "invalid mode") {
		t.Errorf("unexpected error: %v", executionError)
	}
}

func TestGenerateCommandMissingPath(t *testing.T) {
	_, executionError := executeCommand(t, "generate", filepath.Join(t.TempDir(), "absent"))
	if executionError == nil {
		t.Fatal("missing path accepted")
	}
}

func TestTreeCommandMarksPrunedDirectories(t *testing.T) {
	rootPath := newCliFixtureTree(t)
	writeCliFixtureFile(t, rootPath, "node_modules/pkg/index.js", "module.exports = 1;\n")

	renderedTree, executionError := executeCommand(t, "tree", rootPath)
	if executionError != nil {
		t.Fatalf("tree returned error: %v", executionError)
	}
	if !strings.Contains(renderedTree, "node_modules/ [excluded: 1 files]") {
		t.Errorf("pruned directory marker missing:\n%s", renderedTree)
	}
	if !strings.Contains(renderedTree, "README.md") {
		t.Errorf("file missing from tree:\n%s", renderedTree)
	}
}
