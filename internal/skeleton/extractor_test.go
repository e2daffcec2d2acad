package skeleton_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/skelmap/skelmap/internal/language"
	"github.com/skelmap/skelmap/internal/skeleton"
	"github.com/skelmap/skelmap/internal/types"
)

// pythonSample exercises leading comments, a decorated function, and a class
// with methods through the heuristic strategy.
const pythonSample = `import os

# Runs the application.
@entry_point
def run():
    return 1

class Greeter:
    def greet(self, name):
        print(name)

    def farewell(self):
        print("bye")
`

// goSample exercises the precise Go strategy.
const goSample = `package sample

// Runner drives the run loop.
type Runner struct {
	Count int
}

// Run executes count iterations.
func (runner *Runner) Run(count int) error {
	for index := 0; index < count; index++ {
		_ = index
	}
	return nil
}

func helper() {
	println("hidden")
}
`

// failingStrategy always reports a parse error, driving the fallback cascade.
type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Extract(_ []byte) ([]types.SkeletonNode, error) {
	return nil, errors.New("forced parse failure")
}

func newTestExtractor(t *testing.T, provider skeleton.StrategyProvider) *skeleton.Extractor {
	t.Helper()
	registry, registryError := language.NewRegistry()
	if registryError != nil {
		t.Fatalf("building registry: %v", registryError)
	}
	return skeleton.NewExtractor(provider, registry)
}

func TestHeuristicExtractPython(t *testing.T) {
	extractor := newTestExtractor(t, skeleton.NewMapProvider(nil))
	nodes, strategyName, extractError := extractor.Extract([]byte(pythonSample), "Python")
	if extractError != nil {
		t.Fatalf("Extract returned error: %v", extractError)
	}
	if strategyName != "heuristic" {
		t.Errorf("strategy = %q, expected heuristic", strategyName)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(nodes))
	}
	if nodes[0].Kind != types.NodeKindImport || nodes[0].Signature != "import os" {
		t.Errorf("first node = (%s, %q), expected the import line", nodes[0].Kind, nodes[0].Signature)
	}
	if nodes[1].Kind != types.NodeKindFunction || nodes[1].Name != "run" {
		t.Errorf("second node = (%s, %s), expected (function, run)", nodes[1].Kind, nodes[1].Name)
	}
	if !strings.Contains(nodes[1].Signature, "@entry_point") {
		t.Errorf("decorator missing from signature: %q", nodes[1].Signature)
	}
	if nodes[1].Documentation != "# Runs the application." {
		t.Errorf("documentation = %q", nodes[1].Documentation)
	}
	if nodes[2].Kind != types.NodeKindClass || nodes[2].Name != "Greeter" {
		t.Errorf("third node = (%s, %s), expected (class, Greeter)", nodes[2].Kind, nodes[2].Name)
	}
	if len(nodes[2].Children) != 2 {
		t.Fatalf("expected 2 methods under Greeter, got %d", len(nodes[2].Children))
	}
	if nodes[2].Children[0].Kind != types.NodeKindMethod || nodes[2].Children[0].Name != "greet" {
		t.Errorf("first method = (%s, %s)", nodes[2].Children[0].Kind, nodes[2].Children[0].Name)
	}
}

func TestRenderHidesBodies(t *testing.T) {
	extractor := newTestExtractor(t, skeleton.NewMapProvider(nil))
	nodes, _, _ := extractor.Extract([]byte(pythonSample), "Python")
	rendered := extractor.Render(nodes, []byte(pythonSample), "Python")

	if !strings.Contains(rendered, "def run():") {
		t.Errorf("signature missing from render:\n%s", rendered)
	}
	if !strings.Contains(rendered, "# [Implementation hidden]") {
		t.Errorf("placeholder missing from render:\n%s", rendered)
	}
	if strings.Contains(rendered, "return 1") {
		t.Errorf("body leaked into render:\n%s", rendered)
	}
	if strings.Contains(rendered, `print("bye")`) {
		t.Errorf("method body leaked into render:\n%s", rendered)
	}
}

func TestHeuristicRendersImportBlock(t *testing.T) {
	const moduleSample = `import os
from pathlib import Path

def main():
    return 0
`
	extractor := newTestExtractor(t, skeleton.NewMapProvider(nil))
	nodes, _, extractError := extractor.Extract([]byte(moduleSample), "Python")
	if extractError != nil {
		t.Fatalf("Extract returned error: %v", extractError)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[0].Kind != types.NodeKindImport || nodes[1].Kind != types.NodeKindImport {
		t.Errorf("leading nodes = (%s, %s), expected two imports", nodes[0].Kind, nodes[1].Kind)
	}

	rendered := extractor.Render(nodes, []byte(moduleSample), "Python")
	const expectedPrefix = "import os\nfrom pathlib import Path\n\ndef main():"
	if !strings.HasPrefix(rendered, expectedPrefix) {
		t.Errorf("imports should open the render as one block:\n%s", rendered)
	}
	if strings.Contains(rendered, "return 0") {
		t.Errorf("body leaked into render:\n%s", rendered)
	}
}

func TestGoPreciseStrategyKeepsImports(t *testing.T) {
	const goImportSample = `package sample

import (
	"fmt"
	"os"
)

func emit() {
	fmt.Fprintln(os.Stdout, "hi")
}
`
	extractor := newTestExtractor(t, skeleton.NewDefaultProvider())
	nodes, _, extractError := extractor.Extract([]byte(goImportSample), "Go")
	if extractError != nil {
		t.Fatalf("Extract returned error: %v", extractError)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Kind != types.NodeKindImport {
		t.Errorf("first node kind = %s, expected import", nodes[0].Kind)
	}
	if !strings.Contains(nodes[0].Signature, `"fmt"`) || !strings.Contains(nodes[0].Signature, `"os"`) {
		t.Errorf("import signature = %q", nodes[0].Signature)
	}
}

func TestGoPreciseStrategy(t *testing.T) {
	extractor := newTestExtractor(t, skeleton.NewDefaultProvider())
	nodes, strategyName, extractError := extractor.Extract([]byte(goSample), "Go")
	if extractError != nil {
		t.Fatalf("Extract returned error: %v", extractError)
	}
	if strategyName != "go-syntax" {
		t.Errorf("strategy = %q, expected go-syntax", strategyName)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[0].Kind != types.NodeKindClass || nodes[0].Name != "Runner" {
		t.Errorf("first node = (%s, %s), expected (class, Runner)", nodes[0].Kind, nodes[0].Name)
	}
	if nodes[1].Kind != types.NodeKindMethod || nodes[1].Name != "Run" {
		t.Errorf("second node = (%s, %s), expected (method, Run)", nodes[1].Kind, nodes[1].Name)
	}
	if !strings.Contains(nodes[1].Signature, "func (runner *Runner) Run(count int) error") {
		t.Errorf("method signature = %q", nodes[1].Signature)
	}
	if strings.Contains(nodes[1].Signature, "index") {
		t.Errorf("body leaked into signature: %q", nodes[1].Signature)
	}
	if !strings.Contains(nodes[1].Documentation, "// Run executes count iterations.") {
		t.Errorf("documentation = %q", nodes[1].Documentation)
	}
}

func TestPreciseFailureCascadesToHeuristic(t *testing.T) {
	provider := skeleton.NewMapProvider(map[string]skeleton.Strategy{"Python": failingStrategy{}})
	extractor := newTestExtractor(t, provider)
	nodes, strategyName, extractError := extractor.Extract([]byte(pythonSample), "Python")
	if extractError != nil {
		t.Fatalf("Extract returned error: %v", extractError)
	}
	if strategyName != "heuristic" {
		t.Errorf("strategy = %q, expected heuristic after precise failure", strategyName)
	}
	if len(nodes) == 0 {
		t.Error("fallback produced no nodes")
	}
}

func TestRenderPreviewForUndeclarableContent(t *testing.T) {
	const proseContent = "line one\nline two\nline three\nline four\nline five\nline six\nline seven\n"
	extractor := newTestExtractor(t, skeleton.NewMapProvider(nil))
	nodes, _, extractError := extractor.Extract([]byte(proseContent), "Unknown")
	if extractError != nil {
		t.Fatalf("Extract returned error: %v", extractError)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected no declarations, got %d", len(nodes))
	}
	rendered := extractor.Render(nodes, []byte(proseContent), "Unknown")
	if !strings.Contains(rendered, "line five") {
		t.Errorf("preview should keep the first five lines:\n%s", rendered)
	}
	if strings.Contains(rendered, "line six") {
		t.Errorf("preview exceeded its bound:\n%s", rendered)
	}
	if !strings.Contains(rendered, "# [Rest of file hidden]") {
		t.Errorf("preview marker missing:\n%s", rendered)
	}
}

func TestDecodeTextCascade(t *testing.T) {
	utf8Text, utf8Encoding := skeleton.DecodeText([]byte("plain ascii"))
	if utf8Text != "plain ascii" || utf8Encoding != "utf-8" {
		t.Errorf("DecodeText(ascii) = (%q, %q)", utf8Text, utf8Encoding)
	}

	latinBytes := []byte{'c', 'a', 'f', 0xE9}
	latinText, latinEncoding := skeleton.DecodeText(latinBytes)
	if latinText != "café" {
		t.Errorf("DecodeText(latin-1) = %q, expected café", latinText)
	}
	if latinEncoding != "iso-8859-1" {
		t.Errorf("encoding = %q, expected iso-8859-1", latinEncoding)
	}
}
