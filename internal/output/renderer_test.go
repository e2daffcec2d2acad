package output_test

import (
	"strings"
	"testing"

	"github.com/skelmap/skelmap/internal/output"
	"github.com/skelmap/skelmap/internal/types"
)

func sampleReport() *types.Report {
	rootNode := &types.DirectoryNode{
		Name:         "sample",
		RelativePath: ".",
		Files: []types.PathEntry{
			{RelativePath: "README.md"},
		},
		Directories: []*types.DirectoryNode{
			{
				Name:         "node_modules",
				RelativePath: "node_modules",
				Excluded:     true,
				TotalFiles:   3,
			},
			{
				Name:         "src",
				RelativePath: "src",
				Files: []types.PathEntry{
					{RelativePath: "src/app.py"},
				},
			},
		},
	}
	return &types.Report{
		Root: rootNode,
		Project: types.ProjectInfo{
			Type:            "python",
			Language:        "python",
			EntryPoints:     []string{"src/app.py"},
			DependencyFiles: []string{"requirements.txt"},
		},
		FullFiles: []types.RenderedFile{
			{Entry: types.PathEntry{RelativePath: "README.md"}, Text: "# Sample\n", Tokens: 3},
		},
		SkeletonFiles: []types.RenderedFile{
			{Entry: types.PathEntry{RelativePath: "src/app.py"}, Text: "def run():\n    # [Implementation hidden]\n", Tokens: 9, Lines: 3},
		},
		ExcludedDirectories: []types.ExcludedDirectory{
			{RelativePath: "node_modules", FileCount: 3, SizeBytes: 3072},
		},
		Errors: []types.ErrorRecord{
			{Path: "src/blob.bin", Category: types.ErrorCategoryDecode, Detail: "binary content"},
		},
		PreciseLanguages: []string{"Go", "Python"},
		FilesProcessed: 2,
		TotalTokens:    12,
	}
}

func renderToString(t *testing.T, options output.Options) string {
	t.Helper()
	var builder strings.Builder
	renderer := output.NewRenderer(&builder, options)
	if renderError := renderer.Render(sampleReport()); renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	return builder.String()
}

func TestRenderHybridLayout(t *testing.T) {
	rendered := renderToString(t, output.Options{Mode: output.ModeHybrid, ShowExcluded: true})

	expectedFragments := []string{
		"<codebase project='sample'>",
		"<tree>",
		"sample/",
		"<project type='python' language='python'>",
		"<entry_points>",
		"  <entry>src/app.py</entry>",
		"<dependencies>",
		"  <dep>requirements.txt</dep>",
		"<stats>",
		"Files processed: 2",
		"Precise parsers: Go, Python",
		"<full-content>",
		"<file path='README.md' tokens='3'>",
		"# Sample",
		"<skeleton>",
		"<file path='src/app.py' loc='3' tokens='9'>",
		"<excluded>",
		"<directory path='node_modules' files='3' size='3kb'/>",
		"<total-tokens>12</total-tokens>",
		"</codebase>",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(rendered, fragment) {
			t.Errorf("fragment %q missing from output:\n%s", fragment, rendered)
		}
	}
}

func TestRenderOverviewOmitsContent(t *testing.T) {
	rendered := renderToString(t, output.Options{Mode: output.ModeOverview})

	if strings.Contains(rendered, "<full-content>") {
		t.Error("overview mode emitted full content")
	}
	if strings.Contains(rendered, "<skeleton>") {
		t.Error("overview mode emitted skeletons")
	}
	if !strings.Contains(rendered, "<stats>") {
		t.Error("overview mode dropped the stats section")
	}
}

func TestRenderExcludedHiddenByDefault(t *testing.T) {
	rendered := renderToString(t, output.Options{})
	if strings.Contains(rendered, "<excluded>") {
		t.Error("excluded section emitted without ShowExcluded")
	}
	if strings.Contains(rendered, "<errors>") {
		t.Error("errors section emitted without ShowErrors")
	}
}

func TestRenderErrorsSection(t *testing.T) {
	rendered := renderToString(t, output.Options{ShowErrors: true})
	if !strings.Contains(rendered, "<error path='src/blob.bin' category='decode'>binary content</error>") {
		t.Errorf("error record missing:\n%s", rendered)
	}
}

func TestRenderTreeMarksExcludedDirectories(t *testing.T) {
	renderedTree := output.RenderTree(sampleReport().Root)

	if !strings.Contains(renderedTree, "node_modules/ [excluded: 3 files]") {
		t.Errorf("excluded marker missing:\n%s", renderedTree)
	}
	if !strings.Contains(renderedTree, "└── README.md") {
		t.Errorf("last-entry connector missing:\n%s", renderedTree)
	}
	if !strings.Contains(renderedTree, "│   └── app.py") {
		t.Errorf("nested file missing:\n%s", renderedTree)
	}
}
