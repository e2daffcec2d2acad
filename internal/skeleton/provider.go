package skeleton

import "sort"

// MapProvider resolves languages to strategies from a fixed map. The zero
// value provides nothing, which sends every language to the heuristic
// fallback.
type MapProvider struct {
	strategies map[string]Strategy
}

// NewMapProvider wraps an explicit language-to-strategy map; tests use this
// to substitute fakes for the real grammars.
func NewMapProvider(strategies map[string]Strategy) *MapProvider {
	return &MapProvider{strategies: strategies}
}

// NewDefaultProvider returns the provider carrying every precise strategy the
// build supports: the Go syntax strategy plus the tree-sitter grammars when
// cgo is available.
func NewDefaultProvider() *MapProvider {
	strategies := map[string]Strategy{
		"Go": goStrategy{},
	}
	for languageName, strategy := range newTreeSitterStrategies() {
		strategies[languageName] = strategy
	}
	return &MapProvider{strategies: strategies}
}

// StrategyFor resolves a language name to its precise strategy.
func (provider *MapProvider) StrategyFor(languageName string) (Strategy, bool) {
	if provider == nil || provider.strategies == nil {
		return nil, false
	}
	strategy, found := provider.strategies[languageName]
	return strategy, found
}

// SupportedLanguages lists the languages with a precise strategy, sorted for
// the run summary.
func (provider *MapProvider) SupportedLanguages() []string {
	if provider == nil {
		return nil
	}
	languageNames := make([]string, 0, len(provider.strategies))
	for languageName := range provider.strategies {
		languageNames = append(languageNames, languageName)
	}
	sort.Strings(languageNames)
	return languageNames
}
