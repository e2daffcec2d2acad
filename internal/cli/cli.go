// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skelmap/skelmap/internal/config"
	"github.com/skelmap/skelmap/internal/ignore"
	"github.com/skelmap/skelmap/internal/language"
	"github.com/skelmap/skelmap/internal/output"
	"github.com/skelmap/skelmap/internal/report"
	"github.com/skelmap/skelmap/internal/utils"
	"github.com/skelmap/skelmap/internal/walker"
)

const (
	exclusionFlagName        = "e"
	includeFullFlagName      = "include-full"
	includePatternFlagName   = "include-pattern"
	modeFlagName             = "mode"
	modelFlagName            = "model"
	maxFileSizeFlagName      = "max-file-size"
	maxTokensFlagName        = "max-tokens"
	workersFlagName          = "workers"
	languagesFlagName        = "languages"
	outputFlagName           = "output"
	outputFlagShorthand      = "o"
	copyFlagName             = "copy"
	showExcludedFlagName     = "show-excluded"
	showErrorsFlagName       = "show-errors"
	noGitignoreFlagName      = "no-gitignore"
	noIgnoreFlagName         = "no-ignore"
	configFlagName           = "config"
	versionFlagName          = "version"
	versionTemplate          = "skelmap version: %s\n"
	defaultPath              = "."
	defaultMaxFileSizeBytes  = int64(1024 * 1024)
	defaultMaxFileTokens     = 10000
	defaultTokenizerModel    = "gpt-4o"
	rootUse                  = "skelmap"
	rootShortDescription     = "skelmap command line interface"
	rootLongDescription      = `skelmap converts a source tree into tiered text for language models.
Important files keep their full content, source files are reduced to
declaration signatures, and everything else collapses into aggregate counts.`
	generateUse              = "generate [path]"
	treeUse                  = "tree [path]"
	generateAlias            = "g"
	treeAlias                = "t"
	generateShortDescription = "generate the tiered codebase text (" + generateAlias + ")"
	treeShortDescription     = "display the walked directory tree (" + treeAlias + ")"

	generateLongDescription = `Walk a directory, classify every file, and emit the tiered layout.
Use --mode to select overview, skeleton, or hybrid output.`
	generateUsageExample = `  # Generate the hybrid layout for the current directory
  skelmap generate

  # Skeletons only, excluding the dist directory, copied to the clipboard
  skelmap generate --mode skeleton -e dist --copy .`

	treeLongDescription = `Print the directory tree that a generate run would walk,
with pruned directories marked.`
	treeUsageExample = `  # Show the tree with vendor excluded
  skelmap tree -e vendor .`

	exclusionFlagDescription        = "exclude path pattern"
	includeFullFlagDescription      = "relative path always emitted with full content"
	includePatternFlagDescription   = "glob pattern whose matches are emitted with full content"
	modeFlagDescription             = "output mode: overview, skeleton, or hybrid"
	modelFlagDescription            = "tokenizer model used for token counting"
	maxFileSizeFlagDescription      = "maximum file size in bytes before exclusion"
	maxTokensFlagDescription        = "maximum token count for a full-content file"
	workersFlagDescription          = "number of parallel file workers (0 selects the CPU count)"
	languagesFlagDescription        = "path to a language definition file overriding the built-in one"
	outputFlagDescription           = "write output to a file instead of standard output"
	copyFlagDescription             = "copy output to the clipboard"
	showExcludedFlagDescription     = "include the excluded-directory summary"
	showErrorsFlagDescription       = "include recovered error records"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	configFlagDescription           = "path to a configuration file"
	versionFlagDescription          = "display application version"

	invalidModeMessage      = "invalid mode value '%s'"
	errorPathMissingFormat  = "path '%s' does not exist"
	errorNotDirectoryFormat = "path '%s' is not a directory"
	writeOutputErrorFormat  = "write output to %s: %w"
	clipboardErrorFormat    = "copy output to clipboard: %w"
)

func isSupportedMode(mode string) bool {
	switch mode {
	case output.ModeOverview, output.ModeSkeleton, output.ModeHybrid:
		return true
	default:
		return false
	}
}

// Execute runs the skelmap application.
func Execute(loggerInstance *zap.Logger) error {
	rootCommand := createRootCommand(loggerInstance)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(loggerInstance *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(loggerInstance),
		createTreeCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// generateOptions stores flag values for the generate command.
type generateOptions struct {
	exclusionPatterns []string
	includeFullPaths  []string
	includePatterns   []string
	mode              string
	model             string
	maxFileSizeBytes  int64
	maxFileTokens     int
	workers           int
	languagesPath     string
	outputPath        string
	copyToClipboard   bool
	showExcluded      bool
	showErrors        bool
	disableGitignore  bool
	disableIgnoreFile bool
	configPath        string
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(loggerInstance *zap.Logger) *cobra.Command {
	var options generateOptions

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			return runGenerate(command, loggerInstance, rootPath, options)
		},
	}

	flags := generateCommand.Flags()
	flags.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	flags.StringArrayVar(&options.includeFullPaths, includeFullFlagName, nil, includeFullFlagDescription)
	flags.StringArrayVar(&options.includePatterns, includePatternFlagName, nil, includePatternFlagDescription)
	flags.StringVar(&options.mode, modeFlagName, output.ModeHybrid, modeFlagDescription)
	flags.StringVar(&options.model, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	flags.Int64Var(&options.maxFileSizeBytes, maxFileSizeFlagName, defaultMaxFileSizeBytes, maxFileSizeFlagDescription)
	flags.IntVar(&options.maxFileTokens, maxTokensFlagName, defaultMaxFileTokens, maxTokensFlagDescription)
	flags.IntVar(&options.workers, workersFlagName, 0, workersFlagDescription)
	flags.StringVar(&options.languagesPath, languagesFlagName, "", languagesFlagDescription)
	flags.StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	flags.BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	flags.BoolVar(&options.showExcluded, showExcludedFlagName, false, showExcludedFlagDescription)
	flags.BoolVar(&options.showErrors, showErrorsFlagName, false, showErrorsFlagDescription)
	flags.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	flags.BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	return generateCommand
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand() *cobra.Command {
	var options generateOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			return runTree(command, rootPath, options)
		},
	}

	flags := treeCommand.Flags()
	flags.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	flags.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	flags.BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	return treeCommand
}

// resolveRootPath validates and absolutizes the requested root directory.
func resolveRootPath(rootPath string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return "", fmt.Errorf("abs failed for '%s': %w", rootPath, absoluteError)
	}
	pathInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return "", fmt.Errorf(errorPathMissingFormat, rootPath)
		}
		return "", fmt.Errorf("stat failed for '%s': %w", rootPath, statError)
	}
	if !pathInfo.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, rootPath)
	}
	return absolutePath, nil
}

// applyGenerateConfiguration overlays configuration file values onto flags the
// user did not set explicitly.
func applyGenerateConfiguration(command *cobra.Command, options *generateOptions, configuration config.GenerateConfiguration) {
	flags := command.Flags()
	if !flags.Changed(modeFlagName) && configuration.Mode != "" {
		options.mode = configuration.Mode
	}
	if !flags.Changed(modelFlagName) && configuration.Model != "" {
		options.model = configuration.Model
	}
	if !flags.Changed(outputFlagName) && configuration.Output != "" {
		options.outputPath = configuration.Output
	}
	if !flags.Changed(copyFlagName) && configuration.Clipboard != nil {
		options.copyToClipboard = *configuration.Clipboard
	}
	if !flags.Changed(showExcludedFlagName) && configuration.ShowExcluded != nil {
		options.showExcluded = *configuration.ShowExcluded
	}
	if !flags.Changed(showErrorsFlagName) && configuration.ShowErrors != nil {
		options.showErrors = *configuration.ShowErrors
	}
	if !flags.Changed(maxFileSizeFlagName) && configuration.MaxFileSize != nil {
		options.maxFileSizeBytes = *configuration.MaxFileSize
	}
	if !flags.Changed(maxTokensFlagName) && configuration.MaxTokens != nil {
		options.maxFileTokens = *configuration.MaxTokens
	}
	if !flags.Changed(workersFlagName) && configuration.Workers != nil {
		options.workers = *configuration.Workers
	}
	if !flags.Changed(languagesFlagName) && configuration.Languages != "" {
		options.languagesPath = configuration.Languages
	}
	options.exclusionPatterns = append(options.exclusionPatterns, configuration.Paths.Exclude...)
	options.includeFullPaths = append(options.includeFullPaths, configuration.Paths.IncludeFull...)
	options.includePatterns = append(options.includePatterns, configuration.Paths.IncludePatterns...)
	if !flags.Changed(noGitignoreFlagName) && configuration.Paths.UseGitignore != nil {
		options.disableGitignore = !*configuration.Paths.UseGitignore
	}
	if !flags.Changed(noIgnoreFlagName) && configuration.Paths.UseIgnoreFile != nil {
		options.disableIgnoreFile = !*configuration.Paths.UseIgnoreFile
	}
}

// collectExclusionPatterns merges ignore files and explicit patterns for one
// run rooted at absoluteRootPath.
func collectExclusionPatterns(absoluteRootPath string, options generateOptions) ([]string, []string, error) {
	return config.LoadCombinedIgnorePatterns(
		absoluteRootPath,
		options.exclusionPatterns,
		!options.disableGitignore,
		!options.disableIgnoreFile,
	)
}

func runGenerate(command *cobra.Command, loggerInstance *zap.Logger, rootPath string, options generateOptions) error {
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if configurationError != nil {
		return configurationError
	}
	applyGenerateConfiguration(command, &options, applicationConfiguration.Generate)

	selectedMode := strings.ToLower(options.mode)
	if !isSupportedMode(selectedMode) {
		return fmt.Errorf(invalidModeMessage, options.mode)
	}

	absoluteRootPath, rootError := resolveRootPath(rootPath)
	if rootError != nil {
		return rootError
	}

	exclusionPatterns, skeletonOnlyDirectories, patternsError := collectExclusionPatterns(absoluteRootPath, options)
	if patternsError != nil {
		return patternsError
	}

	builder, builderError := report.NewBuilder(loggerInstance, report.Options{
		Model:                   options.model,
		ExcludePatterns:         exclusionPatterns,
		IncludePaths:            options.includeFullPaths,
		IncludePatterns:         options.includePatterns,
		SkeletonOnlyDirectories: skeletonOnlyDirectories,
		MaxFileSizeBytes:        options.maxFileSizeBytes,
		MaxFileTokens:           options.maxFileTokens,
		Workers:                 options.workers,
		RegistryPath:            options.languagesPath,
	})
	if builderError != nil {
		return builderError
	}

	assembledReport, buildError := builder.Build(absoluteRootPath)
	if buildError != nil {
		return buildError
	}

	var renderedOutput strings.Builder
	renderer := output.NewRenderer(&renderedOutput, output.Options{
		Mode:         selectedMode,
		ShowExcluded: options.showExcluded,
		ShowErrors:   options.showErrors,
	})
	if renderError := renderer.Render(assembledReport); renderError != nil {
		return renderError
	}

	return deliverOutput(command, renderedOutput.String(), options)
}

func runTree(command *cobra.Command, rootPath string, options generateOptions) error {
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if configurationError != nil {
		return configurationError
	}
	options.exclusionPatterns = append(options.exclusionPatterns, applicationConfiguration.Tree.Paths.Exclude...)

	absoluteRootPath, rootError := resolveRootPath(rootPath)
	if rootError != nil {
		return rootError
	}

	exclusionPatterns, _, patternsError := collectExclusionPatterns(absoluteRootPath, options)
	if patternsError != nil {
		return patternsError
	}

	registry, registryError := language.NewRegistry()
	if registryError != nil {
		return registryError
	}
	ruleSet, parseError := ignore.ParseRules(append(registry.DefaultExcludePatterns(), exclusionPatterns...))
	if parseError != nil {
		return parseError
	}
	rootNode, _, walkError := walker.New(ruleSet).Walk(absoluteRootPath)
	if walkError != nil {
		return walkError
	}

	_, writeError := fmt.Fprint(command.OutOrStdout(), output.RenderTree(rootNode))
	return writeError
}

// deliverOutput writes the rendered text to the selected destinations.
func deliverOutput(command *cobra.Command, renderedText string, options generateOptions) error {
	if options.outputPath != "" {
		if writeError := os.WriteFile(options.outputPath, []byte(renderedText), 0o644); writeError != nil {
			return fmt.Errorf(writeOutputErrorFormat, options.outputPath, writeError)
		}
	} else {
		if _, writeError := fmt.Fprint(command.OutOrStdout(), renderedText); writeError != nil {
			return writeError
		}
	}
	if options.copyToClipboard {
		if clipboardError := clipboard.WriteAll(renderedText); clipboardError != nil {
			return fmt.Errorf(clipboardErrorFormat, clipboardError)
		}
	}
	return nil
}
