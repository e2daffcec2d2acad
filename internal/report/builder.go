// Package report runs the full pipeline over a source tree and assembles the
// result: walk, classify, read, reduce, count, collect. The assembled Report
// is ordered by traversal position and is deterministic for an unchanged
// tree regardless of how many workers produced it.
package report

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skelmap/skelmap/internal/classify"
	"github.com/skelmap/skelmap/internal/ignore"
	"github.com/skelmap/skelmap/internal/language"
	"github.com/skelmap/skelmap/internal/project"
	"github.com/skelmap/skelmap/internal/skeleton"
	"github.com/skelmap/skelmap/internal/tokenizer"
	"github.com/skelmap/skelmap/internal/types"
	"github.com/skelmap/skelmap/internal/utils"
	"github.com/skelmap/skelmap/internal/walker"
)

const (
	fileSizeLimitDetailFormat   = "file size %d exceeds limit %d"
	tokenLimitDetailFormat      = "token count %d exceeds limit %d"
	binaryContentDetail         = "binary content"
	readFileDetailFormat        = "read file: %v"
	extractionFailedDetail      = "declaration extraction failed: %v"
	parseExcludePatternsFormat = "parse exclude patterns: %w"
	buildClassifierFormat      = "build classifier: %w"
	walkTreeFormat             = "walk %s: %w"
	// unlimitedThresholdSentinel disables a limit check when the configured
	// value is not above it.
	unlimitedThresholdSentinel = 0
)

// Options configures one pipeline run.
type Options struct {
	// Model selects the tokenizer; empty selects the default encoding.
	Model string
	// ExcludePatterns prune directories and exclude files.
	ExcludePatterns []string
	// IncludePaths force FULL tier for exact relative paths.
	IncludePaths []string
	// IncludePatterns force FULL tier for glob matches.
	IncludePatterns []string
	// SkeletonOnlyDirectories never receive full content except via
	// IncludePaths.
	SkeletonOnlyDirectories []string
	// MaxFileSizeBytes excludes larger files before reading. Non-positive
	// disables the check.
	MaxFileSizeBytes int64
	// MaxFileTokens excludes FULL files whose rendered content counts more
	// tokens. Non-positive disables the check.
	MaxFileTokens int
	// Workers bounds file-level parallelism. Non-positive selects GOMAXPROCS.
	Workers int
	// RegistryPath overrides the embedded language registry when non-empty.
	RegistryPath string
}

// Builder owns the pipeline collaborators for repeated runs.
type Builder struct {
	logger     *zap.Logger
	registry   *language.Registry
	classifier *classify.Classifier
	provider   *skeleton.MapProvider
	extractor  *skeleton.Extractor
	counter    tokenizer.Counter
	rules      ignore.RuleSet
	options    Options
}

// NewBuilder wires the pipeline from options. User patterns are validated
// here so malformed configuration fails before any traversal starts.
func NewBuilder(logger *zap.Logger, options Options) (*Builder, error) {
	registry, registryError := loadRegistry(options.RegistryPath)
	if registryError != nil {
		return nil, registryError
	}

	combinedPatterns := append(registry.DefaultExcludePatterns(), options.ExcludePatterns...)
	ruleSet, parseError := ignore.ParseRules(combinedPatterns)
	if parseError != nil {
		return nil, fmt.Errorf(parseExcludePatternsFormat, parseError)
	}

	classifier, classifierError := classify.New(registry, classify.Options{
		IncludePaths:            options.IncludePaths,
		IncludePatterns:         options.IncludePatterns,
		ExcludeRules:            ruleSet,
		SkeletonOnlyDirectories: options.SkeletonOnlyDirectories,
	})
	if classifierError != nil {
		return nil, fmt.Errorf(buildClassifierFormat, classifierError)
	}

	counter, counterName := tokenizer.NewCounter(options.Model)
	logger.Debug("tokenizer selected", zap.String("tokenizer", counterName))

	provider := skeleton.NewDefaultProvider()
	return &Builder{
		logger:     logger,
		registry:   registry,
		classifier: classifier,
		provider:   provider,
		extractor:  skeleton.NewExtractor(provider, registry),
		counter:    counter,
		rules:      ruleSet,
		options:    options,
	}, nil
}

func loadRegistry(registryPath string) (*language.Registry, error) {
	if registryPath == "" {
		return language.NewRegistry()
	}
	return language.LoadRegistry(registryPath)
}

// fileResult carries one file's pipeline outcome back to its walk position.
type fileResult struct {
	tier     types.Tier
	rendered types.RenderedFile
	errors   []types.ErrorRecord
}

// Build runs the pipeline over rootPath and assembles the Report.
func (builder *Builder) Build(rootPath string) (*types.Report, error) {
	treeWalker := walker.New(builder.rules)
	rootNode, walkErrors, walkError := treeWalker.Walk(rootPath)
	if walkError != nil {
		return nil, fmt.Errorf(walkTreeFormat, rootPath, walkError)
	}

	projectInfo, projectError := project.Detect(rootPath)
	if projectError != nil {
		builder.logger.Warn("project detection failed", zap.Error(projectError))
		projectInfo = types.ProjectInfo{Type: "unknown", Language: "mixed"}
	}

	fileEntries := walker.CollectFiles(rootNode)
	results := make([]fileResult, len(fileEntries))
	accumulator := &tokenizer.Accumulator{}

	workerGroup := &errgroup.Group{}
	workerGroup.SetLimit(builder.workerLimit())
	for entryIndex, fileEntry := range fileEntries {
		fileEntry := fileEntry
		resultSlot := &results[entryIndex]
		workerGroup.Go(func() error {
			*resultSlot = builder.processFile(fileEntry)
			accumulator.Add(resultSlot.rendered.Tokens)
			return nil
		})
	}
	if groupError := workerGroup.Wait(); groupError != nil {
		return nil, groupError
	}

	assembledReport := &types.Report{
		Root:                rootNode,
		Project:             projectInfo,
		ExcludedDirectories: walker.CollectExcluded(rootNode),
		Errors:              walkErrors,
		PreciseLanguages:    builder.provider.SupportedLanguages(),
		TotalTokens:         accumulator.Total(),
	}
	for _, result := range results {
		assembledReport.Errors = append(assembledReport.Errors, result.errors...)
		switch result.tier {
		case types.TierFull:
			assembledReport.FullFiles = append(assembledReport.FullFiles, result.rendered)
			assembledReport.FilesProcessed++
		case types.TierSkeleton:
			assembledReport.SkeletonFiles = append(assembledReport.SkeletonFiles, result.rendered)
			assembledReport.FilesProcessed++
		}
	}
	return assembledReport, nil
}

func (builder *Builder) workerLimit() int {
	if builder.options.Workers > 0 {
		return builder.options.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// processFile runs classification, reading, reduction, and counting for one
// entry. Failures demote the entry to EXCLUDED with an ErrorRecord; they
// never abort the run.
func (builder *Builder) processFile(entry types.PathEntry) fileResult {
	tier, reason := builder.classifier.Classify(entry)
	if tier == types.TierExcluded {
		return fileResult{tier: types.TierExcluded}
	}

	if builder.options.MaxFileSizeBytes > unlimitedThresholdSentinel && entry.SizeBytes > builder.options.MaxFileSizeBytes {
		return fileResult{
			tier: types.TierExcluded,
			errors: []types.ErrorRecord{{
				Path:     entry.RelativePath,
				Category: types.ErrorCategoryLimit,
				Detail:   fmt.Sprintf(fileSizeLimitDetailFormat, entry.SizeBytes, builder.options.MaxFileSizeBytes),
			}},
		}
	}

	fileBytes, readError := os.ReadFile(entry.AbsolutePath)
	if readError != nil {
		return fileResult{
			tier: types.TierExcluded,
			errors: []types.ErrorRecord{{
				Path:     entry.RelativePath,
				Category: types.ErrorCategoryAccess,
				Detail:   fmt.Sprintf(readFileDetailFormat, readError),
			}},
		}
	}
	if utils.IsBinary(fileBytes) {
		return fileResult{
			tier: types.TierExcluded,
			errors: []types.ErrorRecord{{
				Path:     entry.RelativePath,
				Category: types.ErrorCategoryDecode,
				Detail:   binaryContentDetail,
			}},
		}
	}

	fileText, encodingName := skeleton.DecodeText(fileBytes)
	builder.logger.Debug("file decoded",
		zap.String("path", entry.RelativePath),
		zap.String("encoding", encodingName),
		zap.String("reason", reason))

	switch tier {
	case types.TierFull:
		return builder.renderFull(entry, fileText)
	default:
		return builder.renderSkeleton(entry, fileText)
	}
}

func (builder *Builder) renderFull(entry types.PathEntry, fileText string) fileResult {
	tokenCount := builder.countTokens(fileText)
	if builder.options.MaxFileTokens > unlimitedThresholdSentinel && tokenCount > builder.options.MaxFileTokens {
		return fileResult{
			tier: types.TierExcluded,
			errors: []types.ErrorRecord{{
				Path:     entry.RelativePath,
				Category: types.ErrorCategoryLimit,
				Detail:   fmt.Sprintf(tokenLimitDetailFormat, tokenCount, builder.options.MaxFileTokens),
			}},
		}
	}
	return fileResult{
		tier:     types.TierFull,
		rendered: types.RenderedFile{Entry: entry, Text: fileText, Tokens: tokenCount},
	}
}

func (builder *Builder) renderSkeleton(entry types.PathEntry, fileText string) fileResult {
	languageName, _ := builder.registry.LanguageForPath(entry.RelativePath)
	sourceText := []byte(fileText)
	nodes, strategyName, extractError := builder.extractor.Extract(sourceText, languageName)
	if extractError != nil {
		return fileResult{
			tier: types.TierExcluded,
			errors: []types.ErrorRecord{{
				Path:     entry.RelativePath,
				Category: types.ErrorCategoryParse,
				Detail:   fmt.Sprintf(extractionFailedDetail, extractError),
			}},
		}
	}
	builder.logger.Debug("skeleton extracted",
		zap.String("path", entry.RelativePath),
		zap.String("strategy", strategyName),
		zap.Int("declarations", len(nodes)))

	renderedText := builder.extractor.Render(nodes, sourceText, languageName)
	return fileResult{
		tier: types.TierSkeleton,
		rendered: types.RenderedFile{
			Entry:  entry,
			Text:   renderedText,
			Tokens: builder.countTokens(renderedText),
			Lines:  strings.Count(fileText, "\n") + 1,
		},
	}
}

func (builder *Builder) countTokens(renderedText string) int {
	tokenCount, countError := builder.counter.CountString(renderedText)
	if countError != nil {
		approximateCount, _ := tokenizer.ApproximateCounter{}.CountString(renderedText)
		return approximateCount
	}
	return tokenCount
}
