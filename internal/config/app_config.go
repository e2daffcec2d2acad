package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/skelmap/skelmap/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Generate GenerateConfiguration `mapstructure:"generate"`
	Tree     TreeConfiguration     `mapstructure:"tree"`
}

// GenerateConfiguration defines defaults for the generate command.
type GenerateConfiguration struct {
	Mode         string            `mapstructure:"mode"`
	Model        string            `mapstructure:"model"`
	Output       string            `mapstructure:"output"`
	Clipboard    *bool             `mapstructure:"clipboard"`
	ShowExcluded *bool             `mapstructure:"show_excluded"`
	ShowErrors   *bool             `mapstructure:"show_errors"`
	MaxFileSize  *int64            `mapstructure:"max_file_size"`
	MaxTokens    *int              `mapstructure:"max_tokens"`
	Workers      *int              `mapstructure:"workers"`
	Languages    string            `mapstructure:"languages"`
	Paths        PathConfiguration `mapstructure:"paths"`
}

// TreeConfiguration defines defaults for the tree command.
type TreeConfiguration struct {
	Paths PathConfiguration `mapstructure:"paths"`
}

// PathConfiguration configures inclusion and exclusion rules for traversal.
type PathConfiguration struct {
	Exclude         []string `mapstructure:"exclude"`
	IncludeFull     []string `mapstructure:"include_full"`
	IncludePatterns []string `mapstructure:"include_patterns"`
	UseGitignore    *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile   *bool    `mapstructure:"use_ignore"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// The local file overrides the global one field by field.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfiguration, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfiguration)
	}

	merged.Generate.Paths.Exclude = utils.DeduplicatePatterns(merged.Generate.Paths.Exclude)
	merged.Tree.Paths.Exclude = utils.DeduplicatePatterns(merged.Tree.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolutePath, absoluteError := filepath.Abs(explicitPath)
			if absoluteError != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, absoluteError)
			}
			return absolutePath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Generate = result.Generate.merge(override.Generate)
	result.Tree.Paths = result.Tree.Paths.merge(override.Tree.Paths)
	return result
}

func (configuration GenerateConfiguration) merge(override GenerateConfiguration) GenerateConfiguration {
	result := configuration
	if override.Mode != "" {
		result.Mode = override.Mode
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.ShowExcluded != nil {
		result.ShowExcluded = cloneBool(override.ShowExcluded)
	}
	if override.ShowErrors != nil {
		result.ShowErrors = cloneBool(override.ShowErrors)
	}
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if override.MaxTokens != nil {
		result.MaxTokens = cloneInt(override.MaxTokens)
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	if override.Languages != "" {
		result.Languages = override.Languages
	}
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (configuration PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := configuration
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.IncludeFull) > 0 {
		result.IncludeFull = append([]string{}, override.IncludeFull...)
	}
	if len(override.IncludePatterns) > 0 {
		result.IncludePatterns = append([]string{}, override.IncludePatterns...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
