// Package output renders an assembled report into the XML-ish text layout
// consumed by language models. The layout favors readability over strict XML
// conformance: attributes are single-quoted and file content is embedded
// verbatim.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/skelmap/skelmap/internal/types"
	"github.com/skelmap/skelmap/internal/utils"
)

// Rendering modes controlling which content sections are emitted.
const (
	// ModeOverview emits only the tree and statistics.
	ModeOverview = "overview"
	// ModeSkeleton emits skeletons but no full content.
	ModeSkeleton = "skeleton"
	// ModeHybrid emits both full content and skeletons.
	ModeHybrid = "hybrid"
)

const (
	codebaseOpenFormat      = "<codebase project='%s'>\n"
	codebaseClose           = "</codebase>\n"
	projectOpenFormat       = "<project type='%s' language='%s'>\n"
	projectModuleFormat     = "<project type='%s' language='%s' module='%s'>\n"
	entryPointFormat        = "  <entry>%s</entry>\n"
	dependencyFormat        = "  <dep>%s</dep>\n"
	testDirectoryFormat     = "  <dir>%s</dir>\n"
	fullFileOpenFormat      = "\n<file path='%s' tokens='%d'>\n"
	skeletonFileOpenFormat  = "\n<file path='%s' loc='%d' tokens='%d'>\n"
	excludedDirectoryFormat = "<directory path='%s' files='%d' size='%s'/>\n"
	errorRecordFormat       = "<error path='%s' category='%s'>%s</error>\n"
	totalTokensFormat       = "\n<total-tokens>%d</total-tokens>\n"
	statsProcessedFormat    = "Files processed: %d\n"
	statsFullFormat         = "Full content: %d files\n"
	statsSkeletonFormat     = "Skeleton: %d files\n"
	statsExcludedFormat     = "Excluded: %d directories\n"
	statsParsersFormat      = "Precise parsers: %s\n"
	statsParsersNone        = "none"
)

// Options selects the sections emitted by a Renderer.
type Options struct {
	// Mode is one of ModeOverview, ModeSkeleton, ModeHybrid.
	Mode string
	// ShowExcluded emits the excluded-directory summary section.
	ShowExcluded bool
	// ShowErrors emits recovered error records.
	ShowErrors bool
}

// Renderer writes reports to a writer.
type Renderer struct {
	writer  io.Writer
	options Options
}

// NewRenderer builds a Renderer. An empty mode selects ModeHybrid.
func NewRenderer(writer io.Writer, options Options) *Renderer {
	if options.Mode == "" {
		options.Mode = ModeHybrid
	}
	return &Renderer{writer: writer, options: options}
}

// Render writes the full layout for one report.
func (renderer *Renderer) Render(assembledReport *types.Report) error {
	sectionWriter := &errWriter{writer: renderer.writer}

	sectionWriter.printf(codebaseOpenFormat, assembledReport.Root.Name)
	sectionWriter.write("\n<metadata>\n")

	sectionWriter.write("<tree>\n")
	sectionWriter.write(RenderTree(assembledReport.Root))
	sectionWriter.write("</tree>\n\n")

	renderer.writeProject(sectionWriter, assembledReport.Project)
	renderer.writeStats(sectionWriter, assembledReport)
	sectionWriter.write("</metadata>\n")

	if renderer.options.Mode != ModeOverview && len(assembledReport.FullFiles) > 0 {
		sectionWriter.write("\n<full-content>\n")
		for _, renderedFile := range assembledReport.FullFiles {
			renderer.writeFile(sectionWriter, renderedFile)
		}
		sectionWriter.write("\n</full-content>\n")
	}

	if renderer.options.Mode != ModeOverview && len(assembledReport.SkeletonFiles) > 0 {
		sectionWriter.write("\n<skeleton>\n")
		for _, renderedFile := range assembledReport.SkeletonFiles {
			renderer.writeSkeletonFile(sectionWriter, renderedFile)
		}
		sectionWriter.write("\n</skeleton>\n")
	}

	if renderer.options.ShowExcluded && len(assembledReport.ExcludedDirectories) > 0 {
		sectionWriter.write("\n<excluded>\n")
		for _, excludedDirectory := range assembledReport.ExcludedDirectories {
			sectionWriter.printf(excludedDirectoryFormat,
				excludedDirectory.RelativePath,
				excludedDirectory.FileCount,
				utils.FormatFileSize(excludedDirectory.SizeBytes))
		}
		sectionWriter.write("</excluded>\n")
	}

	if renderer.options.ShowErrors && len(assembledReport.Errors) > 0 {
		sectionWriter.write("\n<errors>\n")
		for _, errorRecord := range assembledReport.Errors {
			sectionWriter.printf(errorRecordFormat, errorRecord.Path, errorRecord.Category, errorRecord.Detail)
		}
		sectionWriter.write("</errors>\n")
	}

	sectionWriter.printf(totalTokensFormat, assembledReport.TotalTokens)
	sectionWriter.write(codebaseClose)
	return sectionWriter.err
}

func (renderer *Renderer) writeProject(sectionWriter *errWriter, projectInfo types.ProjectInfo) {
	if projectInfo.Module != "" {
		sectionWriter.printf(projectModuleFormat, projectInfo.Type, projectInfo.Language, projectInfo.Module)
	} else {
		sectionWriter.printf(projectOpenFormat, projectInfo.Type, projectInfo.Language)
	}
	if len(projectInfo.EntryPoints) > 0 {
		sectionWriter.write("<entry_points>\n")
		for _, entryPoint := range projectInfo.EntryPoints {
			sectionWriter.printf(entryPointFormat, entryPoint)
		}
		sectionWriter.write("</entry_points>\n")
	}
	if len(projectInfo.DependencyFiles) > 0 {
		sectionWriter.write("<dependencies>\n")
		for _, dependencyFile := range projectInfo.DependencyFiles {
			sectionWriter.printf(dependencyFormat, dependencyFile)
		}
		sectionWriter.write("</dependencies>\n")
	}
	if len(projectInfo.TestDirectories) > 0 {
		sectionWriter.write("<test_dirs>\n")
		for _, testDirectory := range projectInfo.TestDirectories {
			sectionWriter.printf(testDirectoryFormat, testDirectory)
		}
		sectionWriter.write("</test_dirs>\n")
	}
	sectionWriter.write("</project>\n\n")
}

func (renderer *Renderer) writeStats(sectionWriter *errWriter, assembledReport *types.Report) {
	preciseParsers := statsParsersNone
	if len(assembledReport.PreciseLanguages) > 0 {
		preciseParsers = strings.Join(assembledReport.PreciseLanguages, ", ")
	}
	sectionWriter.write("<stats>\n")
	sectionWriter.printf(statsProcessedFormat, assembledReport.FilesProcessed)
	sectionWriter.printf(statsFullFormat, len(assembledReport.FullFiles))
	sectionWriter.printf(statsSkeletonFormat, len(assembledReport.SkeletonFiles))
	sectionWriter.printf(statsExcludedFormat, len(assembledReport.ExcludedDirectories))
	sectionWriter.printf(statsParsersFormat, preciseParsers)
	sectionWriter.write("</stats>\n")
}

func (renderer *Renderer) writeFile(sectionWriter *errWriter, renderedFile types.RenderedFile) {
	sectionWriter.printf(fullFileOpenFormat, renderedFile.Entry.RelativePath, renderedFile.Tokens)
	renderer.writeFileBody(sectionWriter, renderedFile)
}

func (renderer *Renderer) writeSkeletonFile(sectionWriter *errWriter, renderedFile types.RenderedFile) {
	sectionWriter.printf(skeletonFileOpenFormat, renderedFile.Entry.RelativePath, renderedFile.Lines, renderedFile.Tokens)
	renderer.writeFileBody(sectionWriter, renderedFile)
}

func (renderer *Renderer) writeFileBody(sectionWriter *errWriter, renderedFile types.RenderedFile) {
	sectionWriter.write(renderedFile.Text)
	if renderedFile.Text != "" && renderedFile.Text[len(renderedFile.Text)-1] != '\n' {
		sectionWriter.write("\n")
	}
	sectionWriter.write("</file>\n")
}

// errWriter accumulates the first write failure so section writers stay flat.
type errWriter struct {
	writer io.Writer
	err    error
}

func (sectionWriter *errWriter) write(text string) {
	if sectionWriter.err != nil {
		return
	}
	_, sectionWriter.err = io.WriteString(sectionWriter.writer, text)
}

func (sectionWriter *errWriter) printf(format string, arguments ...any) {
	sectionWriter.write(fmt.Sprintf(format, arguments...))
}
